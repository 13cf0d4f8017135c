package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bryanwahyu/boardroom-ai/internal/application"
	appai "github.com/bryanwahyu/boardroom-ai/internal/application/ai"
	"github.com/bryanwahyu/boardroom-ai/internal/config"
	"github.com/bryanwahyu/boardroom-ai/internal/domain/analyst"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/ai/fallback"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/ai/invoker"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/ai/provider"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/cache"
	mysqlp "github.com/bryanwahyu/boardroom-ai/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/boardroom-ai/internal/infra/db/postgres"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/httpserver"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/metrics"
	minioStore "github.com/bryanwahyu/boardroom-ai/internal/infra/storage"
	"github.com/bryanwahyu/boardroom-ai/internal/logger"
	"github.com/bryanwahyu/boardroom-ai/internal/middleware"
)

// analysisRepo is what both database backends provide.
type analysisRepo interface {
	analyst.Repository
	EnsureSchema(ctx context.Context) error
}

func main() {
	// .env untuk credential provider AI
	if err := config.LoadEnvFile(); err != nil {
		log.Fatalf("env load error: %v", err)
	}

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zl := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx := context.Background()
	clock := application.SystemClock{}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pipeline := metrics.NewPipeline(reg)

	registry := provider.NewRegistry(config.OSEnv{}, cfg.AI.Provider, provider.Settings{
		Model:     cfg.AI.Model,
		MaxTokens: cfg.AI.MaxTokens,
	})
	available := registry.ListAvailable()
	if len(available) == 0 {
		zl.Warn("no ai provider credentials found, analyze requests will fail until one is configured")
	} else {
		zl.Info("ai providers available", zap.Strings("available", available), zap.String("default", registry.Default()))
	}

	inv := invoker.New(
		invoker.RetryConfig{MaxAttempts: cfg.AI.Retry.MaxAttempts, BaseDelay: cfg.AI.Retry.BaseDelay},
		invoker.WithLogger(zl.Named("invoker")),
		invoker.WithObserver(pipeline),
	)

	svc := &appai.Service{
		Registry:     registry,
		Invoker:      inv,
		Fallback:     fallback.New(clock.Now),
		Metrics:      pipeline,
		Log:          zl.Named("ai"),
		Clock:        clock,
		Timeout:      cfg.AI.Timeout,
		SurfaceQuota: cfg.AI.SurfaceQuotaErrors,
	}

	checkers := map[string]middleware.HealthChecker{
		"providers": &middleware.ProviderHealthChecker{Available: registry.ListAvailable},
	}

	// database opsional, tanpa host berarti analisa tidak disimpan
	if cfg.Database.Host != "" {
		db, repo, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		svc.Repo = repo
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
		zl.Info("analysis storage enabled", zap.String("driver", cfg.Database.Driver))
	}

	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		svc.Reports = store
		checkers["minio"] = middleware.CheckFunc(store.Ping)
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		rc := cache.New(rdb, cfg.Redis.TTL)
		if err := rc.Ping(ctx); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		svc.Cache = rc
		checkers["redis"] = middleware.CheckFunc(rc.Ping)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSecond)
	defer limiter.Close()

	if len(cfg.Auth.APIKeys) == 0 {
		zl.Warn("auth.apiKeys is empty, /v1 routes are not authenticated")
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Log:         zl.Named("http"),
		APIKeys:     cfg.Auth.APIKeys,
		RateLimiter: limiter,
		Metrics:     middleware.NewHTTPMetrics(reg),
		Gatherer:    reg,
		Checkers:    checkers,
	})

	// analisa AI bisa lama (timeout + backoff)
	writeTimeout := cfg.AI.Timeout + 30*time.Second

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	zl.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		zl.Error("shutdown error", zap.Error(err))
	}
	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, analysisRepo, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		return db, pgp.NewAnalystRepository(db), nil
	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("mysql connect: %w", err)
		}
		return db, mysqlp.NewAnalystRepository(db), nil
	}
}
