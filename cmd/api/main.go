package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/devjobs/internal/auth"
	"github.com/justsurfingit/devjobs/internal/config"
	"github.com/justsurfingit/devjobs/internal/database"
	"github.com/justsurfingit/devjobs/internal/filestorage"
	"github.com/justsurfingit/devjobs/internal/handlers"
	"github.com/justsurfingit/devjobs/internal/middleware"
	"github.com/justsurfingit/devjobs/internal/repository"
	"github.com/justsurfingit/devjobs/internal/services"
	"github.com/justsurfingit/devjobs/internal/upload"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := middleware.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Vacancy store
	store, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open store", slog.String("driver", cfg.Store.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 3. Résumé storage and upload intake
	storage, err := openFileStorage(ctx, cfg.Upload)
	if err != nil {
		logger.Error("failed to open file storage", slog.String("backend", cfg.Upload.Backend), slog.String("error", err.Error()))
		os.Exit(1)
	}
	intake := upload.New(upload.DefaultPolicy(), storage)

	// 4. Services and handlers
	validator := services.NewValidator()
	vacancyService := services.NewVacancyService(store, validator, logger)
	candidateService := services.NewCandidateService(store, validator, logger)

	// 5. Router
	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.RouterConfig{
		Vacancies:      handlers.NewVacancyHandler(vacancyService),
		Candidates:     handlers.NewCandidateHandler(vacancyService, candidateService, intake, logger),
		Verifier:       auth.NewJWTVerifier(cfg.Auth.JWTSecret),
		Logger:         logger,
		Limiter:        openLimiter(cfg.RateLimit, logger),
		SubmitLimit:    cfg.RateLimit.Requests,
		SubmitWindow:   cfg.RateLimit.Window(),
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: cfg.Server.RequestTimeout(),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server starting", slog.String("addr", srv.Addr), slog.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", slog.String("error", err.Error()))
	}
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (repository.VacancyStore, error) {
	switch cfg.Driver {
	case "mongo":
		db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB, logger)
		if err != nil {
			return nil, err
		}
		store := repository.NewMongoStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		logger.Warn("using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), nil
	default:
		db, err := database.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		store := repository.NewPostgresStore(db)
		logger.Info("running migrations")
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
}

func openFileStorage(ctx context.Context, cfg config.UploadConfig) (filestorage.FileStorage, error) {
	if cfg.Backend == "s3" {
		return filestorage.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix)
	}
	return filestorage.NewLocalStorage(cfg.Dir), nil
}

// openLimiter prefers Redis so limits hold across instances, and falls back
// to a per-process limiter when Redis is not configured or unreachable.
func openLimiter(cfg config.RateLimitConfig, logger *slog.Logger) middleware.Limiter {
	if cfg.RedisURL == "" {
		return middleware.NewMemoryLimiter()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, using in-process rate limiter", slog.String("error", err.Error()))
		return middleware.NewMemoryLimiter()
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-process rate limiter", slog.String("error", err.Error()))
		_ = client.Close()
		return middleware.NewMemoryLimiter()
	}
	return middleware.NewRedisLimiter(client)
}
