package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/styleco/storefront/internal/application/identity"
	"github.com/styleco/storefront/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestContext is a gin context recording into Recorder. The Set methods
// stand in for the middleware that would normally run first.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

func NewTestContext(t *testing.T) *TestContext {
	return NewTestContextWithRequest(t, httptest.NewRequest(http.MethodGet, "/", nil))
}

func NewTestContextWithRequest(t *testing.T, req *http.Request) *TestContext {
	t.Helper()
	rec := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(rec)
	c.Request = req
	return &TestContext{Context: c, Recorder: rec, Engine: engine}
}

func (tc *TestContext) SetRequestID(id string) {
	tc.Context.Set(middleware.RequestIDKey, id)
	tc.SetHeader(middleware.RequestIDHeader, id)
}

// SetPrincipal signs the request in as userID
func (tc *TestContext) SetPrincipal(userID uuid.UUID, admin bool) *identityapp.Principal {
	p := &identityapp.Principal{
		UserID:  userID,
		Email:   userID.String()[:8] + "@styleco.test",
		IsAdmin: admin,
	}
	tc.Context.Set(middleware.PrincipalKey, p)
	return p
}

func (tc *TestContext) SetCartOwner(owner string) {
	tc.Context.Set(middleware.CartOwnerKey, owner)
}

func (tc *TestContext) SetHeader(key, value string) {
	tc.Context.Request.Header.Set(key, value)
}

func (tc *TestContext) ResponseBody() []byte { return tc.Recorder.Body.Bytes() }
func (tc *TestContext) ResponseCode() int    { return tc.Recorder.Code }

var seedSpace = uuid.MustParse("3f0d6a52-8c1e-4b8e-9a57-2f1c0e6d7b44")

// NewTestUUID derives a stable ID from seed
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(seedSpace, []byte(seed))
}

func TestAdminID() uuid.UUID { return NewTestUUID("admin") }

// ContextWithTimeout is cancelled when the test ends
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
