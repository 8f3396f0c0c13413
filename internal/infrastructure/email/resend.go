// Package email sends transactional email through the Resend HTTP API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/styleco/storefront/internal/application/notification"
	"github.com/styleco/storefront/internal/infrastructure/config"
)

const (
	defaultBaseURL     = "https://api.resend.com"
	maxResponseSize    = 64 * 1024
	defaultHTTPTimeout = 10 * time.Second
)

// ErrUnavailable wraps transport failures
var ErrUnavailable = errors.New("email: provider unavailable")

// SendError is a rejection reported by the provider
type SendError struct {
	StatusCode int
	Message    string
}

func (e *SendError) Error() string {
	return e.Message
}

// ResendClient posts emails to Resend
type ResendClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewResendClient creates a client from the email config
func NewResendClient(cfg config.EmailConfig) (*ResendClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("email: api key is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &ResendClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Send posts msg and returns the provider message id. A response only counts
// as delivered when it is 2xx and carries an id.
func (c *ResendClient) Send(ctx context.Context, msg notification.Message) (string, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("email: failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("email: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("email: failed to read response: %w", err)
	}

	var result sendResponse
	// A body that is not JSON leaves result empty and falls through to the status checks
	_ = json.Unmarshal(raw, &result)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok && result.ID != "" {
		return result.ID, nil
	}
	return "", &SendError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, result)}
}

func errorMessage(status int, r sendResponse) string {
	switch {
	case r.Message != "":
		return r.Message
	case r.Error != "":
		return r.Error
	case status == http.StatusUnauthorized:
		return "Invalid API key"
	case status == http.StatusUnprocessableEntity:
		return "Invalid email format or missing required fields"
	default:
		return "Unknown error"
	}
}

var _ notification.Sender = (*ResendClient)(nil)
