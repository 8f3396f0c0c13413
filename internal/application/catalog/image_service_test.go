package catalog

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockImageStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockImageStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestImageService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores png under products prefix", func(t *testing.T) {
		storage := new(MockImageStorage)
		storage.On("Upload", ctx, mock.MatchedBy(func(k string) bool {
			return strings.HasPrefix(k, "products/") && strings.HasSuffix(k, ".png")
		}), pngHeader, "image/png").Return(nil)
		svc := NewImageService(storage, 0, nil)

		resp, err := svc.Upload(ctx, pngHeader)
		require.NoError(t, err)
		assert.Equal(t, "image/png", resp.ContentType)
		assert.Equal(t, "https://cdn.test/"+resp.Key, resp.URL)
		assert.Equal(t, DefaultMaxImageSize, svc.MaxSize())
		storage.AssertExpectations(t)
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name string
			data []byte
			code string
		}{
			{name: "empty", data: nil, code: "EMPTY_FILE"},
			{name: "too large", data: append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2048)...), code: "FILE_TOO_LARGE"},
			{name: "not an image", data: []byte("<html><body>hi</body></html>"), code: "UNSUPPORTED_FILE_TYPE"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				storage := new(MockImageStorage)
				svc := NewImageService(storage, 1024, nil)
				_, err := svc.Upload(ctx, tt.data)
				assertCode(t, err, tt.code)
				storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("storage failure is logged", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		storage := new(MockImageStorage)
		storage.On("Upload", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone"))
		svc := NewImageService(storage, 0, zap.New(core))

		_, err := svc.Upload(ctx, pngHeader)
		assertCode(t, err, "UPLOAD_FAILED")
		assert.Equal(t, 1, logs.FilterMessage("Failed to upload product image").Len())
	})
}

func TestImageService_Presign(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().Add(15 * time.Minute)
	storage := new(MockImageStorage)
	storage.On("GenerateUploadURL", ctx, mock.MatchedBy(func(k string) bool {
		return strings.HasSuffix(k, ".jpeg")
	}), "image/jpeg", time.Duration(0)).Return("https://s3.test/put", expires, nil)
	svc := NewImageService(storage, 0, nil)

	resp, err := svc.Presign(ctx, PresignImageRequest{FileName: "Model.JPEG", ContentType: "Image/JPEG"})
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/put", resp.UploadURL)
	assert.Equal(t, "https://cdn.test/"+resp.Key, resp.PublicURL)
	assert.Equal(t, expires, resp.ExpiresAt)

	_, err = svc.Presign(ctx, PresignImageRequest{FileName: "doc.pdf", ContentType: "application/pdf"})
	assertCode(t, err, "UNSUPPORTED_FILE_TYPE")
}

func TestImageService_Delete(t *testing.T) {
	ctx := context.Background()
	storage := new(MockImageStorage)
	storage.On("DeleteObject", ctx, "products/a.png").Return(nil)
	svc := NewImageService(storage, 0, nil)

	require.NoError(t, svc.Delete(ctx, "products/a.png"))
	assertCode(t, svc.Delete(ctx, "../secrets.txt"), "INVALID_KEY")
	storage.AssertExpectations(t)
}
