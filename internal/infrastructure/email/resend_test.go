package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/application/notification"
	"github.com/styleco/storefront/internal/infrastructure/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *ResendClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewResendClient(config.EmailConfig{APIKey: "re_test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return c
}

func testMessage() notification.Message {
	return notification.Message{
		From:    "StyleCo <onboarding@resend.dev>",
		To:      []string{"owner@styleco.test"},
		Subject: "New Order #abcd1234 - StyleCo",
		HTML:    "<p>order</p>",
	}
}

func TestNewResendClient_RequiresKey(t *testing.T) {
	_, err := NewResendClient(config.EmailConfig{})
	assert.Error(t, err)
}

func TestResendClient_Send(t *testing.T) {
	t.Run("posts the message with bearer auth", func(t *testing.T) {
		var got notification.Message
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/emails", r.URL.Path)
			assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
		})

		id, err := c.Send(context.Background(), testMessage())
		require.NoError(t, err)
		assert.Equal(t, "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794", id)
		assert.Equal(t, testMessage(), got)
	})

	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field wins", http.StatusBadRequest, `{"message":"Domain not verified","error":"validation_error"}`, "Domain not verified"},
		{"error field", http.StatusBadRequest, `{"error":"validation_error"}`, "validation_error"},
		{"unauthorized", http.StatusUnauthorized, ``, "Invalid API key"},
		{"unprocessable", http.StatusUnprocessableEntity, `not json`, "Invalid email format or missing required fields"},
		{"unknown", http.StatusInternalServerError, `{}`, "Unknown error"},
		{"ok without id", http.StatusOK, `{}`, "Unknown error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Send(context.Background(), testMessage())
			var sendErr *SendError
			require.ErrorAs(t, err, &sendErr)
			assert.Equal(t, tt.status, sendErr.StatusCode)
			assert.Equal(t, tt.message, sendErr.Message)
		})
	}

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c, err := NewResendClient(config.EmailConfig{APIKey: "re_test", BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = c.Send(context.Background(), testMessage())
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
