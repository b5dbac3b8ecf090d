package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avan-studio/avan-backend/internal/auth"
	"github.com/avan-studio/avan-backend/internal/i18n"
	"github.com/avan-studio/avan-backend/internal/logger"
	"github.com/avan-studio/avan-backend/internal/projects/domain"
)

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.chat.CreateProject(c.Request.Context(), auth.UserFirebaseUID(c), req.Input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) listSaved(c *gin.Context) {
	items, err := h.chat.ListSaved(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.chat.Get(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) start(c *gin.Context) {
	var req startReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}
	}

	res, err := h.chat.Start(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"), h.language(c, req.Language))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "turn": res})
}

func (h *Handler) postMessage(c *gin.Context) {
	var req postMsgReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.chat.Submit(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"), req.Message, h.language(c, req.Language))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "turn": res})
}

func (h *Handler) save(c *gin.Context) {
	var req saveReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}
	}

	p, err := h.chat.Save(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"project": p,
		"message": i18n.ProjectSaved(h.language(c, "")),
	})
}

func (h *Handler) downloadCode(c *gin.Context) {
	code, err := h.chat.Code(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="index.html"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(code))
}

// language prefers the explicit value, then the request, then the stored preference.
func (h *Handler) language(c *gin.Context, explicit string) string {
	if explicit = strings.ToLower(strings.TrimSpace(explicit)); i18n.IsSupported(explicit) {
		return explicit
	}
	if lang, ok := i18n.FromRequest(c.Request); ok {
		return lang
	}
	if h.langs != nil {
		return h.langs.Language(c.Request.Context(), auth.UserFirebaseUID(c))
	}
	return string(i18n.Default)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.Is(err, domain.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrGenerationInProgress):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNoCode):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	default:
		logger.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("project request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
