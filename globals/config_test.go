package globals

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	conf, err := LoadConfig(filepath.Join(t.TempDir(), "conf.yaml"), DefaultAgentPort)
	require.NoError(t, err)

	assert.Equal(t, DefaultAgentPort, conf.Port)
	assert.Equal(t, gin.ReleaseMode, conf.Mode)
	assert.Equal(t, DefaultCPUThreshold, conf.Agent.CPUThreshold)
	assert.Equal(t, DefaultMaxProcesses, conf.Agent.MaxProcesses)
	assert.True(t, *conf.Agent.GPU)
	assert.Equal(t, DefaultConfigFile, conf.Gateway.ConfigFile)
	assert.Equal(t, DefaultProxyTimeout, conf.Gateway.ProxyTimeout)
	assert.False(t, conf.History.Enabled)
}

func TestLoadConfigFromYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	yaml := `
agent:
  cpu_threshold: 5.5
  max_processes: 3
  gpu: false
gateway:
  config_file: /tmp/nexus.json
history:
  enabled: true
  retention: 24h
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	conf, err := LoadConfig(path, DefaultGatewayPort)
	require.NoError(t, err)

	assert.Equal(t, DefaultGatewayPort, conf.Port)
	assert.Equal(t, 5.5, conf.Agent.CPUThreshold)
	assert.Equal(t, 3, conf.Agent.MaxProcesses)
	assert.False(t, *conf.Agent.GPU)
	assert.Equal(t, "/tmp/nexus.json", conf.Gateway.ConfigFile)
	assert.Equal(t, DefaultStaticDir, conf.Gateway.StaticDir)
	assert.True(t, conf.History.Enabled)
	assert.Equal(t, "24h", conf.History.Retention)
	assert.Equal(t, DefaultHistorySchedule, conf.History.Schedule)
}

func TestParseDurationOr(t *testing.T) {
	assert.Equal(t, 2*time.Second, ParseDurationOr("2s", time.Second))
	assert.Equal(t, time.Second, ParseDurationOr("soon", time.Second))
	assert.Equal(t, time.Second, ParseDurationOr("", time.Second))
	assert.Equal(t, time.Second, ParseDurationOr("-3s", time.Second))
}
