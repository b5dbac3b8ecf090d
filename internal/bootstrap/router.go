package bootstrap

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/avan-studio/avan-backend/internal/api/http"
	reqid "github.com/avan-studio/avan-backend/internal/api/http/middleware"
	"github.com/avan-studio/avan-backend/internal/auth"
	authhttp "github.com/avan-studio/avan-backend/internal/auth/http"
	"github.com/avan-studio/avan-backend/internal/auth/identity"
	authmw "github.com/avan-studio/avan-backend/internal/auth/middleware"
	authsvc "github.com/avan-studio/avan-backend/internal/auth/service"
	"github.com/avan-studio/avan-backend/internal/logger"
	"github.com/avan-studio/avan-backend/internal/metrics"
	projectshttp "github.com/avan-studio/avan-backend/internal/projects/http"
	projectssvc "github.com/avan-studio/avan-backend/internal/projects/service"
	settingshttp "github.com/avan-studio/avan-backend/internal/settings/http"
	settingssvc "github.com/avan-studio/avan-backend/internal/settings/service"
	"github.com/avan-studio/avan-backend/internal/storage/kv"
	"github.com/avan-studio/avan-backend/internal/userdata"
	"github.com/avan-studio/avan-backend/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string

	// DB is optional; without it accounts are not mirrored to Postgres.
	DB    *pgxpool.Pool
	Redis *redis.Client

	Store     kv.Backend
	Guard     projectssvc.TurnGuard
	Generator projectssvc.CodeGenerator
	Verifier  authmw.TokenVerifier
	Identity  identity.Provider
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqid.RequestIDMiddleware())
	r.Use(logger.GinLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", reqid.HeaderRequestID},
		ExposeHeaders:    []string{reqid.HeaderRequestID, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	var dbPing, redisPing httpapi.Pinger
	if dep.DB != nil {
		dbPing = dep.DB
	}
	if dep.Redis != nil {
		rc := dep.Redis
		redisPing = httpapi.PingFunc(func(ctx context.Context) error { return rc.Ping(ctx).Err() })
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dbPing, redisPing)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", metrics.Handler())

	settingsService := settingssvc.New(dep.Store)
	dataService := userdata.New(dep.Store)
	chatService := projectssvc.NewChatService(dep.Store, dep.Generator, dep.Guard)

	erasers := []authsvc.DataEraser{dataService}
	api := r.Group("/api/v1")
	protected := api.Group("")
	protected.Use(authmw.FirebaseAuthMiddleware(dep.Verifier))
	if dep.DB != nil {
		userRepo := users.NewRepo(dep.DB)
		protected.Use(auth.WithUser(userRepo))
		erasers = append(erasers, userRepo)
	}

	authHandler := authhttp.New(authsvc.NewAuthService(dep.Identity, erasers...))
	authHandler.Register(api.Group("/auth"), protected.Group("/auth"))

	projectshttp.New(chatService, settingsService).Register(protected.Group("/projects"))
	settingshttp.New(settingsService).Register(protected)
	userdata.NewHandler(dataService).Register(protected)

	return r
}
