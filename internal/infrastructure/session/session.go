// Package session keeps the guest cart id in a signed cookie and guards
// cookie-authenticated routes against CSRF.
package session

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/styleco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

const cartIDKey = "cart_id"

// ErrMissingKey is returned when no cookie signing key is configured
var ErrMissingKey = errors.New("session: signing key is required")

// Manager issues and reads the guest cart cookie
type Manager struct {
	store    *sessions.CookieStore
	name     string
	secure   bool
	sameSite http.SameSite
	csrfKey  []byte
	trusted  []string
	logger   *zap.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithTrustedOrigins lets cross-origin storefront frontends pass the CSRF
// origin check. Origins may be full URLs or bare hosts.
func WithTrustedOrigins(origins ...string) Option {
	return func(m *Manager) {
		for _, o := range origins {
			if o == "" || o == "*" {
				continue
			}
			if u, err := url.Parse(o); err == nil && u.Host != "" {
				o = u.Host
			}
			m.trusted = append(m.trusted, o)
		}
	}
}

// NewManager creates a cookie-backed session manager
func NewManager(cfg config.SessionConfig, logger *zap.Logger, opts ...Option) (*Manager, error) {
	if cfg.Key == "" {
		return nil, ErrMissingKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	name := cfg.Name
	if name == "" {
		name = "storefront_session"
	}

	sameSite := ParseSameSite(cfg.SameSite)
	store := sessions.NewCookieStore([]byte(cfg.Key))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.Secure
	store.Options.SameSite = sameSite
	if cfg.MaxAge > 0 {
		store.MaxAge(int(cfg.MaxAge.Seconds()))
	}

	m := &Manager{
		store:    store,
		name:     name,
		secure:   cfg.Secure,
		sameSite: sameSite,
		logger:   logger,
	}
	if cfg.CSRFEnabled {
		m.csrfKey = []byte(cfg.CSRFKey)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// ParseSameSite maps strict, lax and none to cookie modes; anything else is lax
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// CartID returns the guest cart id from the cookie, issuing a new one when
// the cookie is missing or fails verification
func (m *Manager) CartID(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		// a tampered or stale cookie yields a fresh session
		m.logger.Debug("Discarding invalid session cookie", zap.Error(err))
	}
	if id, ok := cartID(sess); ok {
		return id, nil
	}

	id := uuid.New()
	sess.Values[cartIDKey] = id.String()
	if err := sess.Save(r, w); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// PeekCartID reads the guest cart id without issuing one
func (m *Manager) PeekCartID(r *http.Request) (uuid.UUID, bool) {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		return uuid.Nil, false
	}
	return cartID(sess)
}

func cartID(sess *sessions.Session) (uuid.UUID, bool) {
	raw, ok := sess.Values[cartIDKey].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// CSRFEnabled reports whether Protect enforces tokens
func (m *Manager) CSRFEnabled() bool {
	return len(m.csrfKey) > 0
}

// Protect wraps next with gorilla/csrf. Requests that carry a bearer token
// are not cookie-authenticated and skip the check. onError answers rejected
// requests. When CSRF is disabled next is returned unchanged.
func (m *Manager) Protect(next, onError http.Handler) http.Handler {
	if !m.CSRFEnabled() {
		return next
	}
	opts := []csrf.Option{
		csrf.Secure(m.secure),
		csrf.Path("/"),
		csrf.SameSite(csrfSameSite(m.sameSite)),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.CookieName(m.name + "_csrf"),
	}
	if len(m.trusted) > 0 {
		opts = append(opts, csrf.TrustedOrigins(m.trusted))
	}
	if onError != nil {
		opts = append(opts, csrf.ErrorHandler(onError))
	}
	protected := csrf.Protect(m.csrfKey, opts...)(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			r = csrf.UnsafeSkipCheck(r)
		}
		if !m.secure {
			r = csrf.PlaintextHTTPRequest(r)
		}
		protected.ServeHTTP(w, r)
	})
}

// Token returns the CSRF token for r, or "" outside Protect
func Token(r *http.Request) string {
	return csrf.Token(r)
}

// FailureReason explains why Protect rejected r
func FailureReason(r *http.Request) error {
	return csrf.FailureReason(r)
}

func csrfSameSite(s http.SameSite) csrf.SameSiteMode {
	switch s {
	case http.SameSiteStrictMode:
		return csrf.SameSiteStrictMode
	case http.SameSiteNoneMode:
		return csrf.SameSiteNoneMode
	default:
		return csrf.SameSiteLaxMode
	}
}
