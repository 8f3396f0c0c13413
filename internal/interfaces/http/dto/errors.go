package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeUnavailable is used when an optional subsystem is switched off
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeCSRF               = "ERR_CSRF"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeTooLarge     = "ERR_PAYLOAD_TOO_LARGE"
	ErrCodeUnsupported  = "ERR_UNSUPPORTED_MEDIA_TYPE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:     http.StatusInternalServerError,
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeCSRF:               http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeUnsupported:  http.StatusUnsupportedMediaType,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to standardized codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"PRODUCT_NOT_FOUND":      ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"EMAIL_TAKEN":            ErrCodeAlreadyExists,
	"DUPLICATE_SUBMISSION":   ErrCodeConflict,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"CANNOT_MODIFY_SELF":     ErrCodeBusinessRule,
	"EMPTY_CART":             ErrCodeBusinessRule,
	"PRODUCT_UNAVAILABLE":    ErrCodeBusinessRule,
	"OUT_OF_STOCK":           ErrCodeInsufficientStock,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"FORBIDDEN":              ErrCodeForbidden,
	"INVALID_CREDENTIALS":    ErrCodeInvalidCredentials,
	"TOKEN_EXPIRED":          ErrCodeTokenExpired,
	"TOKEN_INVALID":          ErrCodeTokenInvalid,
	"TOKEN_REVOKED":          ErrCodeTokenRevoked,
	"FILE_TOO_LARGE":         ErrCodeTooLarge,
	"UNSUPPORTED_FILE_TYPE":  ErrCodeUnsupported,
	"NOTIFICATIONS_DISABLED": ErrCodeUnavailable,
	"INTERNAL_ERROR":         ErrCodeInternal,
	"ORDER_PLACEMENT_FAILED": ErrCodeInternal,
	"UPLOAD_FAILED":          ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// Field-level codes (INVALID_*, MISSING_*, *_REQUIRED, EMPTY_*) become
// ERR_VALIDATION; anything else unknown becomes ERR_BUSINESS_RULE.
// Codes already in the ERR_ format are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	switch {
	case strings.HasPrefix(code, "ERR_"):
		return code
	case strings.HasPrefix(code, "INVALID_"),
		strings.HasPrefix(code, "MISSING_"),
		strings.HasPrefix(code, "EMPTY_"),
		strings.HasSuffix(code, "_REQUIRED"):
		return ErrCodeValidation
	default:
		return ErrCodeBusinessRule
	}
}
