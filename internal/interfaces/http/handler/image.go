package handler

import (
	"net/http"

	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/styleco/storefront/internal/application/catalog"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
)

// ImageHandler uploads product images to object storage
type ImageHandler struct {
	BaseHandler
	imageService *catalogapp.ImageService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(imageService *catalogapp.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// Upload godoc
// @Summary      Upload a product image
// @Description  Multipart upload in the "file" field. JPEG, PNG, WebP and GIF are accepted; the type is detected from the content.
// @Tags         admin-images
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Image"
// @Success      201 {object} APIResponse[catalogapp.ImageUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/images [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.Fail(c, dto.ErrCodeValidation, "An image file is required in the \"file\" field")
		return
	}
	maxSize := h.imageService.MaxSize()
	if header.Size > maxSize {
		h.Fail(c, dto.ErrCodeTooLarge,
			fmt.Sprintf("Image exceeds the %d MB limit", maxSize>>20))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.Fail(c, dto.ErrCodeBadRequest, "Failed to read the uploaded file")
		return
	}
	defer file.Close()

	// one byte over the limit is enough for the service to reject it
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		h.Fail(c, dto.ErrCodeBadRequest, "Failed to read the uploaded file")
		return
	}

	resp, err := h.imageService.Upload(c.Request.Context(), data)
	h.respond(c, http.StatusCreated, resp, err)
}

// Presign godoc
// @Summary      Presign a direct image upload
// @Description  Returns a URL the browser can PUT the image to, and the public URL it will have
// @Tags         admin-images
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.PresignImageRequest true "File to upload"
// @Success      200 {object} APIResponse[catalogapp.PresignImageResponse]
// @Failure      415 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/images/presign [post]
func (h *ImageHandler) Presign(c *gin.Context) {
	var req catalogapp.PresignImageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.imageService.Presign(c.Request.Context(), req)
	h.respond(c, http.StatusOK, resp, err)
}

// Delete godoc
// @Summary      Delete a product image
// @Tags         admin-images
// @Param        key query string true "Storage key returned by upload"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/images [delete]
func (h *ImageHandler) Delete(c *gin.Context) {
	h.respond(c, http.StatusNoContent, nil, h.imageService.Delete(c.Request.Context(), c.Query("key")))
}
