package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avan-studio/avan-backend/internal/auth"
	"github.com/avan-studio/avan-backend/internal/auth/domain"
	"github.com/avan-studio/avan-backend/internal/i18n"
	"github.com/avan-studio/avan-backend/internal/logger"
)

func (h *Handler) SignUp(c *gin.Context) {
	var req signUpReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	sess, err := h.authService.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "session": sess})
}

func (h *Handler) SignIn(c *gin.Context) {
	var req signInReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	sess, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) SignOut(c *gin.Context) {
	if err := h.authService.SignOut(c.Request.Context(), auth.UserFirebaseUID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.authService.Me(c.Request.Context(), auth.IDToken(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	u, err := h.authService.UpdateProfile(c.Request.Context(), auth.IDToken(c), domain.ProfileUpdate{
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req passwordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	sess, err := h.authService.ChangePassword(c.Request.Context(),
		auth.UserFirebaseUID(c), auth.UserEmail(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	var req deleteAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	err := h.authService.DeleteAccount(c.Request.Context(), auth.UserFirebaseUID(c), auth.UserEmail(c), req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) fail(c *gin.Context, err error) {
	logger.Ctx(c.Request.Context()).Warn().Err(err).Str("path", c.FullPath()).Msg("auth request failed")

	var ue *domain.UserError
	if errors.As(err, &ue) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ue.Message})
		return
	}

	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		lang, _ := i18n.FromRequest(c.Request)
		c.JSON(statusFor(pe.Code), gin.H{"ok": false, "error": domain.MessageFor(pe.Code, lang), "code": pe.Code})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}

func statusFor(code string) int {
	switch code {
	case domain.CodeInvalidCredential, domain.CodeWrongPassword, domain.CodeUserNotFound,
		domain.CodeInvalidUserToken, domain.CodeUserMismatch:
		return http.StatusUnauthorized
	case domain.CodeEmailAlreadyInUse:
		return http.StatusConflict
	case domain.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case domain.CodeNetworkRequest:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
