package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"navid/server/models"
	"navid/server/service"
)

// SettingsHandler exposes profile and preference mutations.
type SettingsHandler struct {
	settings *service.SettingsService
	log      *zap.Logger
}

func NewSettingsHandler(settings *service.SettingsService, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, log: log}
}

// Register mounts the settings routes on rg. rg must already enforce
// sessions.
func (h *SettingsHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/settings/profile", h.getProfile)
	rg.PATCH("/settings/profile", h.updateProfile)
	rg.GET("/settings/preferences", h.getPreferences)
	rg.PATCH("/settings/preferences", h.updatePreferences)
	rg.POST("/settings/onboarding/complete", h.completeOnboarding)
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

func (h *SettingsHandler) getProfile(c *gin.Context) {
	profile, err := h.settings.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *SettingsHandler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.settings.UpdateProfile(c.Request.Context(), currentUserID(c), req.Name); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SettingsHandler) getPreferences(c *gin.Context) {
	prefs, err := h.settings.GetPreferences(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *SettingsHandler) updatePreferences(c *gin.Context) {
	var req models.Preferences
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.settings.UpdatePreferences(c.Request.Context(), currentUserID(c), req); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SettingsHandler) completeOnboarding(c *gin.Context) {
	if err := h.settings.CompleteOnboarding(c.Request.Context(), currentUserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
