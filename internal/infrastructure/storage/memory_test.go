package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryImageStore(t *testing.T) {
	s := NewMemoryImageStore("http://localhost:8080/static/")
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "products/a.png", []byte("img"), "image/png"))
	data, ok := s.Object("products/a.png")
	require.True(t, ok)
	assert.Equal(t, []byte("img"), data)
	assert.Equal(t, "http://localhost:8080/static/products/a.png", s.PublicURL("products/a.png"))

	url, expiresAt, err := s.GenerateUploadURL(ctx, "products/b.png", "image/png", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "/upload/products/b.png?expires=")
	assert.True(t, expiresAt.After(time.Now()))

	require.NoError(t, s.DeleteObject(ctx, "products/a.png"))
	_, ok = s.Object("products/a.png")
	assert.False(t, ok)
	require.NoError(t, s.DeleteObject(ctx, "products/missing.png"))

	assert.ErrorIs(t, s.Upload(ctx, "", nil, ""), errMissingKey)
	_, _, err = s.GenerateUploadURL(ctx, "", "", 0)
	assert.ErrorIs(t, err, errMissingKey)
}

func TestNewMemoryImageStore_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/static", NewMemoryImageStore("").BaseURL)
}
