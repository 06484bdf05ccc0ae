package api

import (
	"net/http"
	"time"

	g "github.com/chryscloud/nexus-monitor/globals"
	"github.com/chryscloud/nexus-monitor/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultProxyTimeout = 3 * time.Second

	defaultUpstreamContentType = "application/octet-stream"
)

type proxyHandler struct {
	apiClient *resty.Client
}

// NewProxyHandler relays GET requests to agents the browser cannot reach directly
func NewProxyHandler(timeout time.Duration) *proxyHandler {
	return &proxyHandler{
		apiClient: resty.New().SetTimeout(timeout),
	}
}

// Proxy fetches ?url= once and relays status, content type and body. Transport failures are 502.
func (ph *proxyHandler) Proxy(c *gin.Context) {
	target, err := utils.ParseProxyTarget(c.Query("url"))
	if err != nil {
		AbortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := utils.FetchUpstream(c.Request.Context(), ph.apiClient, target.String())
	if err != nil {
		g.Log.Warn("proxy request failed", target.Host, err)
		AbortWithError(c, http.StatusBadGateway, err.Error())
		return
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = defaultUpstreamContentType
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}
