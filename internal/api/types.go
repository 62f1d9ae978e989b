// Package api defines the shared response envelopes used by all HTTP handlers.
package api

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body returned for successful requests that
// carry no resource payload.
type MessageResponse struct {
	Message string `json:"message"`
}
