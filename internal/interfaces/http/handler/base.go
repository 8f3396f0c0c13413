// Package handler contains the gin handlers of the storefront API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	identityapp "github.com/styleco/storefront/internal/application/identity"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
	"github.com/styleco/storefront/internal/interfaces/http/middleware"
)

// BaseHandler holds the response helpers every handler embeds
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// caller returns the signed-in principal, answering 401 itself when there is none
func (h *BaseHandler) caller(c *gin.Context) (*identityapp.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Fail(c, dto.ErrCodeUnauthorized, "Authentication required")
	}
	return p, ok
}

// SuccessWithMeta sends one page of a listing with its pagination block
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Fail sends an error envelope; the status follows from code
func (h *BaseHandler) Fail(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// HandleError converts domain errors to HTTP responses. The normalized
// ERR_ code decides the status; the domain code travels as the reason so
// the storefront can show field-specific messages.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		resp := dto.NewErrorResponseWithRequestID(code, domainErr.Message, getRequestID(c))
		if code != domainErr.Code {
			resp.Error.Reason = domainErr.Code
		}
		if domainErr.Field != "" {
			resp.Error.Details = []dto.ValidationDetail{{Field: domainErr.Field, Message: domainErr.Message}}
		}
		c.JSON(dto.GetHTTPStatus(code), resp)
		return
	}

	_ = c.Error(err)
	h.Fail(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// bindJSON decodes the body and writes the error response itself when it fails
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters like bindJSON
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		middleware.HandleValidationError(c, err)
	case errors.Is(err, io.EOF):
		h.Fail(c, dto.ErrCodeInvalidJSON, "Request body is required")
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		h.Fail(c, dto.ErrCodeInvalidJSON, "Malformed JSON request body")
	default:
		h.Fail(c, dto.ErrCodeBadRequest, "Invalid request")
	}
}

// uuidParam parses a path parameter, answering 400 when it is not a UUID
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Fail(c, dto.ErrCodeInvalidInput, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// respond answers with v under status, or with the error response when err is set
func (h *BaseHandler) respond(c *gin.Context, status int, v any, err error) {
	switch {
	case err != nil:
		h.HandleError(c, err)
	case status == http.StatusNoContent:
		c.Status(status)
	default:
		c.JSON(status, dto.NewSuccessResponse(v))
	}
}
