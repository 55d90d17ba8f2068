package handler

import (
	"github.com/gin-gonic/gin"
	customizationapp "github.com/storefront/backend/internal/application/customization"
)

// LogoHandler handles custom logo endpoints
type LogoHandler struct {
	BaseHandler
	logoService *customizationapp.LogoService
}

// NewLogoHandler creates a new LogoHandler
func NewLogoHandler(logoService *customizationapp.LogoService) *LogoHandler {
	return &LogoHandler{logoService: logoService}
}

// List handles GET /api/logos
func (h *LogoHandler) List(c *gin.Context) {
	logos, err := h.logoService.ListLogos(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logos)
}

// Get handles GET /api/logos/:id
func (h *LogoHandler) Get(c *gin.Context) {
	logo, err := h.logoService.GetLogo(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logo)
}

// Approve handles POST /api/logos/:id/complete
func (h *LogoHandler) Approve(c *gin.Context) {
	if err := h.logoService.ApproveLogo(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Logo approved")
}
