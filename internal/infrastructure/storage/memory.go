package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	catalogapp "github.com/styleco/storefront/internal/application/catalog"
)

var _ catalogapp.ImageStorage = (*MemoryImageStore)(nil)

// MemoryImageStore keeps uploads in memory. It is used when object storage
// is disabled so the admin image flow still works in development.
type MemoryImageStore struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryImageStore creates a new MemoryImageStore
func NewMemoryImageStore(baseURL string) *MemoryImageStore {
	if baseURL == "" {
		baseURL = "http://localhost:8080/static"
	}
	return &MemoryImageStore{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

// Upload stores a copy of data
func (s *MemoryImageStore) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	if storageKey == "" {
		return errMissingKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = append([]byte(nil), data...)
	return nil
}

// GenerateUploadURL returns a fake URL carrying the expiry
func (s *MemoryImageStore) GenerateUploadURL(
	_ context.Context,
	storageKey, _ string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errMissingKey
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey + "?expires=" + expiresAt.UTC().Format(time.RFC3339), expiresAt, nil
}

// DeleteObject forgets the object; deleting a missing key succeeds
func (s *MemoryImageStore) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errMissingKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// PublicURL returns BaseURL joined with the key
func (s *MemoryImageStore) PublicURL(storageKey string) string {
	return s.BaseURL + "/" + strings.TrimPrefix(storageKey, "/")
}

// Object returns the stored bytes for a key
func (s *MemoryImageStore) Object(storageKey string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[storageKey]
	return data, ok
}
