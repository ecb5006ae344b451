// Package api defines the domain types shared across ecstasks.
// It contains the task request, task result, verdict and event structures.
package api

// ErrorResponse represents an error response of the local harness
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents the response to a health check request
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
