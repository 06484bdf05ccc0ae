package utils

import (
	"context"
	"fmt"

	"github.com/chryscloud/nexus-monitor/models"
	"github.com/go-resty/resty/v2"
)

// UpstreamResponse - what the gateway relays back from an agent
type UpstreamResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// FetchUpstream issues a single GET to endpoint. Non-2xx responses are returned as is,
// only transport failures (timeout, dns, refused connection) produce an error.
func FetchUpstream(ctx context.Context, apiClient *resty.Client, endpoint string) (*UpstreamResponse, error) {
	resp, err := apiClient.R().SetContext(ctx).Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamTransport, err)
	}
	return &UpstreamResponse{
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}, nil
}
