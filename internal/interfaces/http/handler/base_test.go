package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
	"github.com/styleco/storefront/internal/interfaces/http/middleware"
	"github.com/styleco/storefront/tests/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestGetRequestID(t *testing.T) {
	t.Run("from context", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.SetRequestID("ctx-request-id")
		assert.Equal(t, "ctx-request-id", getRequestID(tc.Context))
	})
	t.Run("from header", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.SetHeader(middleware.RequestIDHeader, "header-request-id")
		assert.Equal(t, "header-request-id", getRequestID(tc.Context))
	})
	t.Run("absent", func(t *testing.T) {
		assert.Empty(t, getRequestID(testutil.NewTestContext(t).Context))
	})
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	tc := testutil.NewTestContext(t)
	(&BaseHandler{}).SuccessWithMeta(tc.Context, []string{"dress", "shirt"}, 100, 1, 10)

	assert.Equal(t, http.StatusOK, tc.ResponseCode())
	resp := testutil.Envelope(t, tc)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(100), resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.TotalPages)
}

func TestBaseHandler_Respond(t *testing.T) {
	h := &BaseHandler{}
	router := gin.New()
	router.GET("/ok", func(c *gin.Context) { h.respond(c, http.StatusOK, gin.H{"slug": "dress"}, nil) })
	router.POST("/created", func(c *gin.Context) { h.respond(c, http.StatusCreated, gin.H{"id": 1}, nil) })
	router.DELETE("/cart", func(c *gin.Context) { h.respond(c, http.StatusNoContent, nil, nil) })
	router.GET("/missing", func(c *gin.Context) {
		h.respond(c, http.StatusOK, nil, shared.NewDomainError("NOT_FOUND", "Product not found"))
	})

	serve := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	w := serve(http.MethodGet, "/ok")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)

	assert.Equal(t, http.StatusCreated, serve(http.MethodPost, "/created").Code)

	w = serve(http.MethodDelete, "/cart")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = serve(http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestBaseHandler_Fail(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{dto.ErrCodeBadRequest, http.StatusBadRequest},
		{dto.ErrCodeInvalidJSON, http.StatusBadRequest},
		{dto.ErrCodeUnauthorized, http.StatusUnauthorized},
		{dto.ErrCodeTooLarge, http.StatusRequestEntityTooLarge},
		{dto.ErrCodeUnavailable, http.StatusServiceUnavailable},
		{dto.ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{"ERR_NOT_A_CODE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			tc := testutil.NewTestContext(t)
			tc.SetRequestID("req-1")

			(&BaseHandler{}).Fail(tc.Context, tt.code, "nope")

			assert.Equal(t, tt.status, tc.ResponseCode())
			info := testutil.AssertErrorResponse(t, tc, tt.code)
			assert.Equal(t, "req-1", info.RequestID)
			assert.Equal(t, "nope", info.Message)
		})
	}
}

func TestBaseHandler_Caller(t *testing.T) {
	h := &BaseHandler{}

	tc := testutil.NewTestContext(t)
	_, ok := h.caller(tc.Context)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, tc.ResponseCode())
	testutil.AssertErrorResponse(t, tc, dto.ErrCodeUnauthorized)

	tc = testutil.NewTestContext(t)
	want := tc.SetPrincipal(testutil.TestAdminID(), true)
	p, ok := h.caller(tc.Context)
	require.True(t, ok)
	assert.Same(t, want, p)
	assert.Empty(t, tc.ResponseBody())
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		reason string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("loading: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound, "NOT_FOUND"},
		{"email taken", shared.NewDomainError("EMAIL_TAKEN", "taken"), http.StatusConflict, dto.ErrCodeAlreadyExists, "EMAIL_TAKEN"},
		{"invalid phone", shared.NewDomainError("INVALID_PHONE", "11 digits"), http.StatusBadRequest, dto.ErrCodeValidation, "INVALID_PHONE"},
		{"size required", shared.NewDomainError("SIZE_REQUIRED", "pick a size"), http.StatusBadRequest, dto.ErrCodeValidation, "SIZE_REQUIRED"},
		{"out of stock", shared.NewDomainError("OUT_OF_STOCK", "sold out"), http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock, "OUT_OF_STOCK"},
		{"duplicate submission", shared.NewDomainError("DUPLICATE_SUBMISSION", "already placed"), http.StatusConflict, dto.ErrCodeConflict, "DUPLICATE_SUBMISSION"},
		{"placement failed", shared.NewDomainError("ORDER_PLACEMENT_FAILED", "try again"), http.StatusInternalServerError, dto.ErrCodeInternal, "ORDER_PLACEMENT_FAILED"},
		{"plain error", assert.AnError, http.StatusInternalServerError, dto.ErrCodeInternal, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t)
			(&BaseHandler{}).HandleError(tc.Context, tt.err)

			assert.Equal(t, tt.status, tc.ResponseCode())
			info := testutil.AssertErrorResponse(t, tc, tt.code)
			assert.Equal(t, tt.reason, info.Reason)
		})
	}
}

func TestBaseHandler_HandleError_FieldDetail(t *testing.T) {
	tc := testutil.NewTestContext(t)
	err := shared.NewFieldError("phone", "INVALID_PHONE", "Phone number must be exactly 11 digits")
	(&BaseHandler{}).HandleError(tc.Context, fmt.Errorf("checkout: %w", err))

	assert.Equal(t, http.StatusBadRequest, tc.ResponseCode())
	testutil.AssertErrorReason(t, tc, dto.ErrCodeValidation, "INVALID_PHONE")
	testutil.AssertFieldError(t, tc, "phone")
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	tc := testutil.NewTestContext(t)
	(&BaseHandler{}).HandleError(tc.Context, nil)
	assert.Empty(t, tc.ResponseBody())
}

func TestBaseHandlerBindJSON(t *testing.T) {
	type body struct {
		Email string `json:"email" binding:"required,email"`
	}
	h := &BaseHandler{}
	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req body
		if !h.bindJSON(c, &req) {
			return
		}
		h.respond(c, http.StatusOK, req, nil)
	})

	tests := []struct {
		name         string
		body         string
		expectedCode int
		expectedErr  string
	}{
		{"valid", `{"email":"a@b.co"}`, http.StatusOK, ""},
		{"empty body", ``, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"malformed", `{"email":`, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"wrong type", `{"email":5}`, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"fails validation", `{"email":"nope"}`, http.StatusBadRequest, dto.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, decodeResponse(t, w).Error.Code)
			}
		})
	}
}

func TestBaseHandlerUUIDParam(t *testing.T) {
	h := &BaseHandler{}
	router := gin.New()
	router.GET("/:id", func(c *gin.Context) {
		id, ok := h.uuidParam(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, id.String())
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/6f1c2a7e-8d55-4d5e-9a43-2f4f5b0f7f10", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
