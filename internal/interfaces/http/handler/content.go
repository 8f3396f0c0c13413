package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	contentapp "github.com/styleco/storefront/internal/application/content"
)

// ContentHandler serves the editable storefront hero section
type ContentHandler struct {
	BaseHandler
	contentService *contentapp.Service
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService *contentapp.Service) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// Hero godoc
// @Summary      Home page hero
// @Description  Falls back to the built-in copy until an admin saves one
// @Tags         content
// @Produce      json
// @Success      200 {object} APIResponse[contentapp.HeroResponse]
// @Router       /hero [get]
func (h *ContentHandler) Hero(c *gin.Context) {
	hero, err := h.contentService.Hero(c.Request.Context())
	h.respond(c, http.StatusOK, hero, err)
}

// SaveHero godoc
// @Summary      Save the home page hero
// @Tags         admin-content
// @Accept       json
// @Produce      json
// @Param        request body contentapp.HeroRequest true "Hero section"
// @Success      200 {object} APIResponse[contentapp.HeroResponse]
// @Security     BearerAuth
// @Router       /admin/hero [put]
func (h *ContentHandler) SaveHero(c *gin.Context) {
	var req contentapp.HeroRequest
	if !h.bindJSON(c, &req) {
		return
	}
	hero, err := h.contentService.SaveHero(c.Request.Context(), req)
	h.respond(c, http.StatusOK, hero, err)
}
