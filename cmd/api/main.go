package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avan-studio/avan-backend/config"
	"github.com/avan-studio/avan-backend/internal/auth"
	"github.com/avan-studio/avan-backend/internal/auth/identity"
	"github.com/avan-studio/avan-backend/internal/bootstrap"
	"github.com/avan-studio/avan-backend/internal/cronjob"
	"github.com/avan-studio/avan-backend/internal/logger"
	projectssvc "github.com/avan-studio/avan-backend/internal/projects/service"
	"github.com/avan-studio/avan-backend/internal/storage/kv"
	"github.com/avan-studio/avan-backend/internal/users"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.ValidateServer(); err != nil {
		logger.Fatal().Err(err).Msg("invalid server config")
	}

	logger.Setup(cfg.App.Environment, cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	var db *pgxpool.Pool
	if cfg.Database.DSN != "" {
		db, err = bootstrap.OpenDB(ctx, bootstrap.DBOptions{
			DSN:      cfg.Database.DSN,
			MaxConns: int32(cfg.Database.MaxConns),
			MinConns: int32(cfg.Database.MinConns),
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("open database")
		}
		defer db.Close()

		if err := users.NewRepo(db).Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("migrate database")
		}
	} else {
		logger.Info().Msg("DB_DSN not set, user directory disabled")
	}

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("open redis")
	}
	store := kv.NewRedisBackend(rdb)
	defer store.Close()

	authClient, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		logger.Fatal().Err(err).Msg("init firebase")
	}
	idp, err := identity.NewFirebase(ctx, cfg.Firebase.APIKey, authClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("init identity provider")
	}

	gen, closeGen, err := bootstrap.NewGenerator(ctx, cfg.Generator)
	if err != nil {
		logger.Fatal().Err(err).Msg("init generator")
	}
	defer closeGen()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "avan-backend",
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		DB:          db,
		Redis:       rdb,
		Store:       store,
		Guard:       projectssvc.NewRedisGuard(rdb, cfg.Chat.TurnLeaseTTL),
		Generator:   gen,
		Verifier:    authClient,
		Identity:    idp,
	})

	scheduler := cronjob.NewScheduler(store, cfg.App.StoreReportCron)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("store report disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.StdLogger(),
	}

	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.App.Environment).
			Str("generator", cfg.Generator.Provider).
			Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}

	logger.Info().Msg("server stopped")
}
