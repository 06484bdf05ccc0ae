package models

import "errors"

var (
	ErrInvalidPin        = errors.New("invalid pin")
	ErrInvalidDocument   = errors.New("configuration is not valid json")
	ErrRevisionNotFound  = errors.New("revision not found")
	ErrHistoryDisabled   = errors.New("configuration history is disabled")
	ErrMissingProxyURL   = errors.New("missing url parameter")
	ErrInvalidProxyURL   = errors.New("url must be an absolute http or https url")
	ErrUpstreamTransport = errors.New("upstream request failed")
)

// error codes returned to clients in {"error": <code>}
const (
	ErrorCodeInvalidPin  = "invalid_pin"
	ErrorCodeServerError = "server_error"
	ErrorCodeNotFound    = "not_found"
)
