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

package globals

import (
	"os"
	"time"

	cfg "github.com/chryscloud/go-microkit-plugins/config"
	mclog "github.com/chryscloud/go-microkit-plugins/log"
	"github.com/gin-gonic/gin"
)

const (
	DefaultAgentPort   = 8005
	DefaultGatewayPort = 3000

	DefaultCPUThreshold   = 2.0
	DefaultMaxProcesses   = 10
	DefaultCollectTimeout = "5s"

	DefaultConfigFile   = "config.json"
	DefaultStaticDir    = "."
	DefaultProxyTimeout = "3s"

	DefaultHistoryPath      = "data/history"
	DefaultHistoryRetention = "720h"
	DefaultHistorySchedule  = "@hourly"
)

// Conf global config
var Conf Config

// Log global wide logging
var Log mclog.Logger

type Config struct {
	cfg.YamlConfig `yaml:",inline"`
	Agent          *AgentSubconfig   `yaml:"agent"`
	Gateway        *GatewaySubconfig `yaml:"gateway"`
	History        *HistorySubconfig `yaml:"history"`
}

// AgentSubconfig - metrics collection tuning
type AgentSubconfig struct {
	CPUThreshold   float64 `yaml:"cpu_threshold"`   // processes above this cpu percent are listed
	MaxProcesses   int     `yaml:"max_processes"`   // length cap of the process list
	CollectTimeout string  `yaml:"collect_timeout"` // budget for one poll (e.g. "5s")
	GPU            *bool   `yaml:"gpu"`             // false forces GPU-less mode
}

// GatewaySubconfig - dashboard, config store and proxy
type GatewaySubconfig struct {
	ConfigFile   string `yaml:"config_file"`   // persisted dashboard configuration
	StaticDir    string `yaml:"static_dir"`    // dashboard assets
	ProxyTimeout string `yaml:"proxy_timeout"` // upstream timeout of /api/proxy
}

// HistorySubconfig - optional config revision history
type HistorySubconfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`      // badger directory
	Retention string `yaml:"retention"` // revisions older than this are pruned
	Schedule  string `yaml:"schedule"`  // cron spec of the prune job
}

// LoadConfig reads the yaml file at path when it exists and fills every missing value with defaults.
func LoadConfig(path string, defaultPort int) (Config, error) {
	var conf Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if yErr := cfg.NewYamlConfig(path, &conf); yErr != nil {
				return conf, yErr
			}
		} else if !os.IsNotExist(err) {
			return conf, err
		}
	}
	conf.ApplyDefaults(defaultPort)
	return conf, nil
}

// ApplyDefaults fills in any missing values with defaults.
func (c *Config) ApplyDefaults(defaultPort int) {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Mode == "" {
		c.Mode = gin.ReleaseMode
	}
	if c.Agent == nil {
		c.Agent = &AgentSubconfig{}
	}
	if c.Agent.CPUThreshold <= 0 {
		c.Agent.CPUThreshold = DefaultCPUThreshold
	}
	if c.Agent.MaxProcesses <= 0 {
		c.Agent.MaxProcesses = DefaultMaxProcesses
	}
	if c.Agent.CollectTimeout == "" {
		c.Agent.CollectTimeout = DefaultCollectTimeout
	}
	if c.Agent.GPU == nil {
		enabled := true
		c.Agent.GPU = &enabled
	}
	if c.Gateway == nil {
		c.Gateway = &GatewaySubconfig{}
	}
	if c.Gateway.ConfigFile == "" {
		c.Gateway.ConfigFile = DefaultConfigFile
	}
	if c.Gateway.StaticDir == "" {
		c.Gateway.StaticDir = DefaultStaticDir
	}
	if c.Gateway.ProxyTimeout == "" {
		c.Gateway.ProxyTimeout = DefaultProxyTimeout
	}
	if c.History == nil {
		c.History = &HistorySubconfig{}
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
	if c.History.Retention == "" {
		c.History.Retention = DefaultHistoryRetention
	}
	if c.History.Schedule == "" {
		c.History.Schedule = DefaultHistorySchedule
	}
}

// ParseDurationOr parses a duration string, falling back to def when the value is malformed
func ParseDurationOr(value string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		if Log != nil && value != "" {
			Log.Warn("invalid duration in configuration, using default", value, def)
		}
		return def
	}
	return d
}

func init() {
	l, err := mclog.NewZapLogger("info")
	if err != nil {
		panic("failed to initalize logging")
	}
	Log = l
}
