package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
)

// Call describes one request to a single handler. Body is sent as JSON.
// Before runs on the context ahead of the handler, for example to set the
// cart owner the middleware would have resolved.
type Call struct {
	Method string
	Path   string
	Body   any
	Header map[string]string
	Before func(tc *TestContext)
}

// Do runs handler on the request described by call
func Do(t *testing.T, handler gin.HandlerFunc, call Call) *TestContext {
	t.Helper()

	method := call.Method
	if method == "" {
		method = http.MethodGet
	}
	path := call.Path
	if path == "" {
		path = "/"
	}

	var body io.Reader
	if call.Body != nil {
		raw, err := json.Marshal(call.Body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range call.Header {
		req.Header.Set(k, v)
	}

	tc := NewTestContextWithRequest(t, req)
	if call.Before != nil {
		call.Before(tc)
	}
	handler(tc.Context)
	return tc
}

// JSONResponseAs decodes the body into T
func JSONResponseAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &out), "response: %s", tc.ResponseBody())
	return out
}

// Envelope decodes the standard API response envelope
func Envelope(t *testing.T, tc *TestContext) dto.Response {
	t.Helper()
	return JSONResponseAs[dto.Response](t, tc)
}

// AssertErrorResponse checks for a failed envelope with code and returns its error
func AssertErrorResponse(t *testing.T, tc *TestContext, code string) *dto.ErrorInfo {
	t.Helper()
	resp := Envelope(t, tc)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error, "no error in %s", tc.ResponseBody())
	assert.Equal(t, code, resp.Error.Code)
	return resp.Error
}

// AssertErrorReason also checks the domain reason, such as EMPTY_CART
func AssertErrorReason(t *testing.T, tc *TestContext, code, reason string) {
	t.Helper()
	assert.Equal(t, reason, AssertErrorResponse(t, tc, code).Reason)
}

// AssertFieldError checks that a validation failure names field
func AssertFieldError(t *testing.T, tc *TestContext, field string) {
	t.Helper()
	info := AssertErrorResponse(t, tc, dto.ErrCodeValidation)
	var fields []string
	for _, d := range info.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, field)
}
