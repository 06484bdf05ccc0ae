package utils

import (
	"net/url"
	"strings"

	"github.com/chryscloud/nexus-monitor/models"
)

// ParseProxyTarget validates the agent url a dashboard wants to reach through the gateway
func ParseProxyTarget(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, models.ErrMissingProxyURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, models.ErrInvalidProxyURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, models.ErrInvalidProxyURL
	}
	if u.Host == "" {
		return nil, models.ErrInvalidProxyURL
	}
	return u, nil
}
