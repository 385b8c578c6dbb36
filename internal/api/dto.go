package api

import (
	"github.com/cleared-dev/txparse/internal/model"
	"github.com/cleared-dev/txparse/internal/receipt"
	"github.com/cleared-dev/txparse/internal/taxonomy"
)

// APIError is the body of every error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	ErrCodeNotFound      = "not_found"
	ErrCodeBadRequest    = "bad_request"
	ErrCodeInternalError = "internal_error"
	ErrCodeValidation    = "validation_error"
)

// NewAPIError creates an APIError with the given code and message.
func NewAPIError(code, message string) APIError {
	return APIError{Code: code, Message: message}
}

// BadRequestError creates a bad request error response.
func BadRequestError(message string) APIError {
	return NewAPIError(ErrCodeBadRequest, message)
}

// ValidationError creates a validation error response.
func ValidationError(message string) APIError {
	return NewAPIError(ErrCodeValidation, message)
}

// InternalError creates an internal server error response.
func InternalError() APIError {
	return NewAPIError(ErrCodeInternalError, "an internal error occurred")
}

// NotFoundError creates a not found error response.
func NotFoundError(resource string) APIError {
	return NewAPIError(ErrCodeNotFound, resource+" not found")
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// VoiceRequest is the body of POST /api/v1/parse/voice.
type VoiceRequest struct {
	Text string `json:"text"`
}

// ParseResponse wraps a parsed record. ReviewNeeded is set when confidence
// is below the configured threshold or no amount was found.
type ParseResponse struct {
	Transaction  model.Transaction `json:"transaction"`
	ReviewNeeded bool              `json:"review_needed"`
	Analysis     *receipt.Analysis `json:"analysis,omitempty"`
}

// TaxonomyResponse lists the categories and known merchants.
type TaxonomyResponse struct {
	Categories []taxonomy.Category `json:"categories"`
	Merchants  []taxonomy.Merchant `json:"merchants"`
}
