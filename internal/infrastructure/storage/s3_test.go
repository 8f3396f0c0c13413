package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/infrastructure/config"
	"go.uber.org/zap/zaptest"
)

func testConfig(endpoint string) *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:          "styleco-images",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Region:          "eu-central-1",
		Endpoint:        endpoint,
		UsePathStyle:    true,
	}
}

func TestNewS3ImageStore_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr string
	}{
		{name: "nil config", cfg: nil, wantErr: "configuration is required"},
		{name: "missing bucket", cfg: &config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"}, wantErr: "bucket is required"},
		{name: "missing access key", cfg: &config.StorageConfig{Bucket: "b", SecretAccessKey: "s"}, wantErr: "credentials are required"},
		{name: "missing secret", cfg: &config.StorageConfig{Bucket: "b", AccessKeyID: "k"}, wantErr: "credentials are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ImageStore(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewS3ImageStore_Defaults(t *testing.T) {
	s, err := NewS3ImageStore(testConfig("http://localhost:9000"), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, "styleco-images", s.Bucket())
	assert.Equal(t, 15*time.Minute, s.presign)

	s, err = NewS3ImageStore(testConfig("http://localhost:9000"), WithPresignExpiration(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, s.presign)
}

func TestS3ImageStore_PublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  func() *config.StorageConfig
		want string
	}{
		{
			name: "explicit public url",
			cfg: func() *config.StorageConfig {
				c := testConfig("http://localhost:9000")
				c.PublicURL = "https://cdn.styleco.example/"
				return c
			},
			want: "https://cdn.styleco.example/products/a.png",
		},
		{
			name: "path style endpoint",
			cfg:  func() *config.StorageConfig { return testConfig("http://localhost:9000") },
			want: "http://localhost:9000/styleco-images/products/a.png",
		},
		{
			name: "virtual host endpoint",
			cfg: func() *config.StorageConfig {
				c := testConfig("https://r2.example.com")
				c.UsePathStyle = false
				return c
			},
			want: "https://styleco-images.r2.example.com/products/a.png",
		},
		{
			name: "aws default",
			cfg:  func() *config.StorageConfig { return testConfig("") },
			want: "https://styleco-images.s3.eu-central-1.amazonaws.com/products/a.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewS3ImageStore(tt.cfg())
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.PublicURL("products/a.png"))
		})
	}
}

func TestS3ImageStore_GenerateUploadURL(t *testing.T) {
	s, err := NewS3ImageStore(testConfig("http://localhost:9000"))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("empty key", func(t *testing.T) {
		url, _, err := s.GenerateUploadURL(ctx, "", "image/png", time.Minute)
		require.Error(t, err)
		assert.Empty(t, url)
	})

	t.Run("presigned put", func(t *testing.T) {
		url, expiresAt, err := s.GenerateUploadURL(ctx, "products/a.png", "image/png", 0)
		require.NoError(t, err)
		assert.Contains(t, url, "localhost:9000/styleco-images/products/a.png")
		assert.Contains(t, url, "X-Amz-Signature=")
		assert.True(t, expiresAt.After(time.Now().Add(14*time.Minute)))
	})
}

func TestS3ImageStore_Upload(t *testing.T) {
	var (
		mu          sync.Mutex
		method      string
		path        string
		contentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, path, contentType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewS3ImageStore(testConfig(srv.URL))
	require.NoError(t, err)

	err = s.Upload(context.Background(), "products/a.png", []byte("\x89PNG\r\n\x1a\n"), "image/png")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/styleco-images/products/a.png", path)
	assert.Equal(t, "image/png", contentType)
}

func TestS3ImageStore_EmptyKey(t *testing.T) {
	s, err := NewS3ImageStore(testConfig("http://localhost:9000"))
	require.NoError(t, err)

	assert.ErrorIs(t, s.Upload(context.Background(), "", []byte("x"), "image/png"), errMissingKey)
	assert.ErrorIs(t, s.DeleteObject(context.Background(), ""), errMissingKey)
}

func TestS3ImageStore_DeleteObject_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	defer srv.Close()

	s, err := NewS3ImageStore(testConfig(srv.URL))
	require.NoError(t, err)

	err = s.DeleteObject(context.Background(), "products/a.png")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "delete products/a.png"))
}
