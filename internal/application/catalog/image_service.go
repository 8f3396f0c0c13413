package catalog

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultMaxImageSize caps direct product image uploads
const DefaultMaxImageSize int64 = 5 << 20

// ImageStorage is the object store holding product images
type ImageStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	PublicURL(storageKey string) string
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageUploadResponse is returned after a product image is stored
type ImageUploadResponse struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// PresignImageRequest asks for a direct browser upload URL
type PresignImageRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignImageResponse carries the presigned PUT URL and the final public URL
type PresignImageResponse struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ImageService stores product images in object storage
type ImageService struct {
	storage ImageStorage
	maxSize int64
	logger  *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(storage ImageStorage, maxSize int64, logger *zap.Logger) *ImageService {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{storage: storage, maxSize: maxSize, logger: logger}
}

// MaxSize returns the upload size limit in bytes
func (s *ImageService) MaxSize() int64 {
	return s.maxSize
}

// Upload validates and stores an image, returning its public URL.
// The content type is sniffed from the bytes, not trusted from the client.
func (s *ImageService) Upload(ctx context.Context, data []byte) (*ImageUploadResponse, error) {
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "Image file is empty")
	}
	if int64(len(data)) > s.maxSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("Image exceeds the %d MB limit", s.maxSize>>20))
	}
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, unsupportedType()
	}

	key := newImageKey(ext)
	if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		s.logger.Error("Failed to upload product image", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to upload image")
	}

	return &ImageUploadResponse{
		Key:         key,
		URL:         s.storage.PublicURL(key),
		ContentType: contentType,
		Size:        len(data),
	}, nil
}

// Presign returns a URL the admin UI can PUT an image to directly
func (s *ImageService) Presign(ctx context.Context, req PresignImageRequest) (*PresignImageResponse, error) {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, unsupportedType()
	}
	if fileExt := strings.ToLower(path.Ext(req.FileName)); fileExt == ".jpeg" || fileExt == ".jpg" {
		ext = fileExt
	}

	key := newImageKey(ext)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, 0)
	if err != nil {
		s.logger.Error("Failed to presign product image upload", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to prepare image upload")
	}
	return &PresignImageResponse{
		Key:       key,
		UploadURL: uploadURL,
		PublicURL: s.storage.PublicURL(key),
		ExpiresAt: expiresAt,
	}, nil
}

// Delete removes a stored image by key
func (s *ImageService) Delete(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, "products/") {
		return shared.NewDomainError("INVALID_KEY", "Not a product image key")
	}
	return s.storage.DeleteObject(ctx, key)
}

func newImageKey(ext string) string {
	return "products/" + uuid.New().String() + ext
}

func unsupportedType() error {
	return shared.NewDomainError("UNSUPPORTED_FILE_TYPE", "Only JPEG, PNG, WebP and GIF images are allowed")
}
