// Package dto defines data transfer objects for API requests and responses.
package dto

// ErrorResponse represents a standard API error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageResponse represents a simple confirmation response.
type MessageResponse struct {
	Message string `json:"message"`
}
