package api

import (
	"fmt"
	"net/http"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// --- Request/Response Structs ---

type SettingsRequest struct {
	Theme                string `json:"theme" binding:"required"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	Locale               string `json:"locale"`
}

type SettingsResponse struct {
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	Locale               string `json:"locale,omitempty"`
}

func MapSettingsToResponse(s *domain.UserSettings) SettingsResponse {
	return SettingsResponse{
		Theme:                s.Theme,
		NotificationsEnabled: s.NotificationsEnabled,
		Locale:               s.Locale,
	}
}

// --- Handler Methods ---

// Get godoc
// @Summary Get the caller's settings
// @Description Returns defaults on first access.
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SettingsResponse
// @Router /settings/me [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, _, ok := callerFromContext(c)
	if !ok {
		return
	}

	settings, err := h.settingsService.Get(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSettingsToResponse(settings))
}

// Update godoc
// @Summary Update the caller's settings
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param settings body SettingsRequest true "Settings"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /settings/me [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), userID, service.SettingsInput{
		Theme:                req.Theme,
		NotificationsEnabled: req.NotificationsEnabled,
		Locale:               req.Locale,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSettingsToResponse(settings))
}
