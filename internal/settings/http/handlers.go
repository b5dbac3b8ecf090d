package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avan-studio/avan-backend/internal/auth"
	"github.com/avan-studio/avan-backend/internal/settings/domain"
	"github.com/avan-studio/avan-backend/internal/settings/service"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/settings", h.getSettings)
	rg.PUT("/settings", h.updateSettings)
	rg.POST("/settings/accessibility/reset", h.resetAccessibility)
	rg.GET("/preferences", h.getPreferences)
	rg.PUT("/preferences", h.updatePreferences)
}

func (h *Handler) getSettings(c *gin.Context) {
	s, err := h.svc.Load(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": s})
}

func (h *Handler) updateSettings(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	s, err := h.svc.Update(c.Request.Context(), auth.UserFirebaseUID(c), body)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTheme) || errors.Is(err, domain.ErrInvalidSettings) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": s})
}

func (h *Handler) resetAccessibility(c *gin.Context) {
	s, err := h.svc.ResetAccessibility(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": s})
}

func (h *Handler) getPreferences(c *gin.Context) {
	p, err := h.svc.Preferences(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "preferences": p})
}

func (h *Handler) updatePreferences(c *gin.Context) {
	var req service.PreferencesUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.UpdatePreferences(c.Request.Context(), auth.UserFirebaseUID(c), req)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedLanguage) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "preferences": p})
}
