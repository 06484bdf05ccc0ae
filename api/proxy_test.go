package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProxyRouter(timeout time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/proxy", NewProxyHandler(timeout).Proxy)
	return r
}

func proxyRequest(r http.Handler, target string) *httptest.ResponseRecorder {
	path := "/api/proxy"
	if target != "" {
		path += "?url=" + url.QueryEscape(target)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestProxyRelaysUpstream(t *testing.T) {
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hostname":"gpu-node-01"}`))
	}))
	defer agent.Close()

	w := proxyRequest(newProxyRouter(3*time.Second), agent.URL+"/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"hostname":"gpu-node-01"}`, w.Body.String())
}

func TestProxyPassesThroughErrorStatus(t *testing.T) {
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("warming up"))
	}))
	defer agent.Close()

	w := proxyRequest(newProxyRouter(3*time.Second), agent.URL)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Equal(t, "warming up", w.Body.String())
}

func TestProxyMissingURL(t *testing.T) {
	w := proxyRequest(newProxyRouter(time.Second), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body JSONError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
}

func TestProxyInvalidURL(t *testing.T) {
	w := proxyRequest(newProxyRouter(time.Second), "file:///etc/passwd")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProxyUnreachableUpstream(t *testing.T) {
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := agent.URL
	agent.Close()

	w := proxyRequest(newProxyRouter(time.Second), target)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body JSONError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
}

func TestProxyTimeout(t *testing.T) {
	release := make(chan struct{})
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer agent.Close()
	defer close(release)

	start := time.Now()
	w := proxyRequest(newProxyRouter(100*time.Millisecond), agent.URL)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Less(t, time.Since(start), 2*time.Second)
}
