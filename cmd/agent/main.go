// Copyright 2020 Wearless Tech Inc All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	msrv "github.com/chryscloud/go-microkit-plugins/server"
	g "github.com/chryscloud/nexus-monitor/globals"
	r "github.com/chryscloud/nexus-monitor/router"
	"github.com/chryscloud/nexus-monitor/services"
)

func main() {
	confPath := flag.String("conf", "conf.yaml", "path to the optional yaml configuration")
	flag.Parse()

	// server wait to shutdown monitoring channels
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	conf, err := g.LoadConfig(*confPath, g.DefaultAgentPort)
	if err != nil {
		g.Log.Error(err, "conf.yaml failed to load")
		panic("Failed to load conf.yaml")
	}
	g.Conf = conf

	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	// Sources
	gpuSource := services.NewGPUSource(*conf.Agent.GPU)
	defer func() {
		if err := gpuSource.Close(); err != nil {
			g.Log.Warn("failed to release GPU source", err)
		}
	}()
	hostSource := services.NewHostSource()

	// Services
	collector := services.NewCollector(hostSource, gpuSource, services.CollectorOptionsFromConfig(conf.Agent))

	router := r.NewEngine(conf.Mode)
	router = r.ConfigAgentAPI(router, collector)

	// start server
	srv := msrv.Start(&conf.YamlConfig, router, g.Log)
	// wait for server shutdown
	go msrv.Shutdown(srv, g.Log, quit, done)

	g.Log.Info("Nexus agent is ready to handle requests at", conf.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		g.Log.Error("Could not listen on", conf.Port, err)
	}

	<-done
	g.Log.Info("exit")
}
