package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storyboard-backend/api/routes"
	"github.com/angelmondragon/storyboard-backend/internal/auth"
	"github.com/angelmondragon/storyboard-backend/internal/export"
	"github.com/angelmondragon/storyboard-backend/internal/media"
	"github.com/angelmondragon/storyboard-backend/internal/projects"
	"github.com/angelmondragon/storyboard-backend/internal/sharing"
	"github.com/angelmondragon/storyboard-backend/internal/store"
	"github.com/angelmondragon/storyboard-backend/pkg/config"
	"github.com/angelmondragon/storyboard-backend/pkg/logger"
	"github.com/angelmondragon/storyboard-backend/pkg/metrics"
	"github.com/angelmondragon/storyboard-backend/pkg/migrate"
	"github.com/angelmondragon/storyboard-backend/pkg/redis"
	"github.com/angelmondragon/storyboard-backend/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := store.Open(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open store", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.Close(closeCtx); err != nil {
			logg.Error(closeCtx, "error closing store", err)
		}
	}()

	if err := migrate.MaybeRun(ctx, cfg, logg, backend); err != nil {
		logg.Error(ctx, "failed to prepare store schema", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Info(ctx, "redis not configured, auth rate limiting disabled")
	}

	blob, err := openBlobStorage(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open media storage", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svcs, err := buildServices(cfg, logg, backend, blob, metrics.NewExportMetrics(registry))
	if err != nil {
		logg.Error(ctx, "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"store":  backend.Driver(),
		"media":  cfg.Media.Driver,
		"expiry": cfg.Share.EnforceExpiry,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, backend, blob, redisClient, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), svcs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(serverCtx, "graceful shutdown failed", err)
	}
	logg.Info(serverCtx, "api server stopped")
}

func buildServices(cfg *config.Config, logg *logger.Logger, backend *store.Backend, blob storage.Blob, exportMetrics *metrics.ExportMetrics) (routes.Services, error) {
	authSvc, err := auth.NewService(auth.ServiceParams{
		Users:          backend.Users,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	projectSvc, err := projects.NewService(projects.ServiceParams{Projects: backend.Projects})
	if err != nil {
		return routes.Services{}, err
	}

	mediaSvc, err := media.NewService(media.ServiceParams{
		Media:          backend.Media,
		Blob:           blob,
		MaxUploadBytes: cfg.Media.MaxUploadBytes(),
	})
	if err != nil {
		return routes.Services{}, err
	}

	shareSvc, err := sharing.NewService(sharing.ServiceParams{
		Links:    backend.ShareLinks,
		Projects: backend.Projects,
		Config:   cfg.Share,
	})
	if err != nil {
		return routes.Services{}, err
	}

	exportSvc, err := export.NewService(export.ServiceParams{
		Projects: backend.Projects,
		Metrics:  exportMetrics,
		Logger:   logg,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:     authSvc,
		Projects: projectSvc,
		Media:    mediaSvc,
		Sharing:  shareSvc,
		Export:   exportSvc,
	}, nil
}
