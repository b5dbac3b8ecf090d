package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avan-studio/avan-backend/internal/logger"
	"github.com/avan-studio/avan-backend/internal/users"
)

type UserDirectory interface {
	EnsureUser(ctx context.Context, u users.UpsertUser) (string, error)
}

// WithUser mirrors the verified caller into the user directory. It must run
// after FirebaseAuthMiddleware.
func WithUser(dir UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuid := UserFirebaseUID(c)
		if fuid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthenticated"})
			c.Abort()
			return
		}

		id, err := dir.EnsureUser(c.Request.Context(), users.UpsertUser{
			FirebaseUID: fuid,
			Email:       UserEmail(c),
		})
		if err != nil {
			logger.Ctx(c.Request.Context()).Error().Err(err).Str("firebase_uid", fuid).Msg("ensure user failed")
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "ensure user: " + err.Error()})
			c.Abort()
			return
		}

		c.Set(CtxUserDBID, id)
		c.Next()
	}
}
