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

package router

import (
	"net/http"
	"strings"
	"time"

	api "github.com/chryscloud/nexus-monitor/api"
	"github.com/chryscloud/nexus-monitor/models"
	"github.com/chryscloud/nexus-monitor/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/"

// NewEngine - bare engine with panic recovery, routes are added by ConfigAgentAPI or ConfigGatewayAPI
func NewEngine(mode string) *gin.Engine {
	gin.SetMode(mode)
	router := gin.New()
	router.Use(gin.Recovery())
	if mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	return router
}

func allowAll() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowCredentials: true,
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"*"},
		AllowHeaders:     []string{"*"},
	})
}

// ConfigAgentAPI - metrics endpoints of the agent
func ConfigAgentAPI(router *gin.Engine, collector api.SnapshotCollector) *gin.Engine {
	router.Use(allowAll())

	metricsAPI := api.NewMetricsHandler(collector)

	router.GET("/", metricsAPI.Status)
	router.GET("/metrics", metricsAPI.Metrics)

	return router
}

// ConfigGatewayAPI - config store, proxy and dashboard assets of the gateway
func ConfigGatewayAPI(router *gin.Engine, settingsService *services.SettingsManager, proxyTimeout time.Duration, staticDir string) *gin.Engine {
	router.Use(allowAll())

	settingsAPI := api.NewSettingsHandler(settingsService)
	proxyAPI := api.NewProxyHandler(proxyTimeout)

	gateway := router.Group("/api")
	{
		gateway.GET("config", settingsAPI.Get)
		gateway.POST("config", settingsAPI.Overwrite)
		gateway.GET("config/revisions", settingsAPI.Revisions)
		gateway.GET("config/revisions/:id", settingsAPI.Revision)
		gateway.POST("config/revisions/:id/restore", settingsAPI.Restore)
		gateway.GET("proxy", proxyAPI.Proxy)
	}

	assets := http.FileServer(http.Dir(staticDir))
	router.NoRoute(func(c *gin.Context) {
		if c.Request.URL.Path == strings.TrimSuffix(apiPrefix, "/") || strings.HasPrefix(c.Request.URL.Path, apiPrefix) {
			api.AbortWithError(c, http.StatusNotFound, models.ErrorCodeNotFound)
			return
		}
		assets.ServeHTTP(c.Writer, c.Request)
	})

	return router
}
