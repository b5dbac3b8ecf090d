package bootstrap

import (
	"github.com/gin-gonic/gin"

	"github.com/avan-studio/avan-backend/internal/logger"
)

func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DebugPrintRouteFunc = func(method, path, handler string, _ int) {
		logger.Debug().Str("method", method).Str("path", path).Str("handler", handler).Msg("route")
	}
}
