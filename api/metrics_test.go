package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chryscloud/nexus-monitor/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCollector struct {
	calls int
}

func (cc *countingCollector) Collect(ctx context.Context) *models.SystemSnapshot {
	cc.calls++
	return &models.SystemSnapshot{
		Hostname:     "gpu-node-01",
		CPUCoreCount: 8,
		UptimeHuman:  "1h 0m",
		GPUs:         []models.GpuInfo{},
		Processes: []models.ProcessInfo{
			{PID: 4242, User: "dev", Command: "stress", CPUPercent: 5},
		},
	}
}

func newMetricsRouter(collector SnapshotCollector) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewMetricsHandler(collector)
	r := gin.New()
	r.GET("/", handler.Status)
	r.GET("/metrics", handler.Metrics)
	return r
}

func TestAgentStatus(t *testing.T) {
	r := newMetricsRouter(&countingCollector{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var status models.AgentStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, models.AgentStatusRunning, status.Status)
	assert.Equal(t, models.AgentVersion, status.Version)
}

func TestMetricsWireFormat(t *testing.T) {
	collector := &countingCollector{}
	r := newMetricsRouter(collector)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		for _, key := range []string{
			"hostname", "ip_address", "os_name", "uptime_seconds", "uptime_human", "cpu_model",
			"cpu_usage_percent", "cpu_core_count", "ram_total_gb", "ram_used_gb", "ram_percent",
			"net_sent_mb", "net_recv_mb", "gpus", "processes",
		} {
			assert.Contains(t, body, key)
		}
		assert.Equal(t, []interface{}{}, body["gpus"])

		procs := body["processes"].([]interface{})
		require.Len(t, procs, 1)
		proc := procs[0].(map[string]interface{})
		assert.Equal(t, "stress", proc["command"])
		assert.Contains(t, proc, "gpu_index")
		assert.Nil(t, proc["gpu_index"])
		assert.Contains(t, proc, "vram_used_mb")
		assert.Nil(t, proc["vram_used_mb"])
	}
	assert.Equal(t, 2, collector.calls)
}
