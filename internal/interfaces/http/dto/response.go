package dto

import "github.com/styleco/storefront/internal/domain/shared"

// Response is the envelope of every JSON answer. Exactly one of Data and
// Error is set.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

type ErrorInfo struct {
	// Code is one of the ERR_ constants and decides the HTTP status
	Code string `json:"code"`
	// Reason is the originating domain code, e.g. INVALID_PHONE
	Reason    string             `json:"reason,omitempty"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail names one rejected field by its JSON name
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta is the pagination block of a listing
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewSuccessResponseWithMeta wraps one page of a listing. The page count
// follows shared.NewPaginated.
func NewSuccessResponseWithMeta(data any, total int64, page, pageSize int) Response {
	p := shared.NewPaginated[struct{}](nil, total, page, pageSize)
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      p.Total,
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalPages: p.TotalPages,
			HasNext:    p.HasNext,
		},
	}
}

func NewErrorResponse(code, message string) Response {
	return Response{Error: &ErrorInfo{Code: code, Message: message}}
}

// NewErrorResponseWithRequestID lets clients quote the request in support tickets
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{Error: &ErrorInfo{Code: code, Message: message, RequestID: requestID}}
}

// NewValidationErrorResponse is the 400 body listing rejected fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponseWithRequestID(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}
