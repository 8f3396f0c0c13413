package handler

import "github.com/styleco/storefront/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// HealthData is the body of the health and readiness probes
// @Description Probe result
type HealthData struct {
	Status  string            `json:"status" example:"ok"`
	Checks  map[string]string `json:"checks,omitempty"`
	Clients int               `json:"live_clients,omitempty"`
	Version string            `json:"version,omitempty"`
}
