package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/trippix/mediavault/internal/api/handler"
	"github.com/trippix/mediavault/internal/api/middleware"
	"github.com/trippix/mediavault/internal/config"
	"github.com/trippix/mediavault/internal/infrastructure/cache"
	"github.com/trippix/mediavault/internal/infrastructure/postgres"
	"github.com/trippix/mediavault/internal/infrastructure/queue"
	"github.com/trippix/mediavault/internal/infrastructure/storage"
	"github.com/trippix/mediavault/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Infrastructure clients
	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:       cfg.MinIO.Endpoint,
		PublicEndpoint: cfg.MinIO.PublicEndpoint,
		AccessKey:      cfg.MinIO.AccessKey,
		SecretKey:      cfg.MinIO.SecretKey,
		Bucket:         cfg.MinIO.Bucket,
		UseSSL:         cfg.MinIO.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO", slog.String("bucket", storageClient.Bucket()))

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	// Repositories and services
	pool := pgClient.Pool()
	assetIndex := postgres.NewAssetIndex(pool)
	assetCache := cache.NewRedisAssetCache(redisClient)

	assetSvc := usecase.NewAssetService(assetIndex, storageClient, queueClient, usecase.AssetServiceConfig{
		StorageTimeout: cfg.Asset.StorageTimeout,
		IndexTimeout:   cfg.Asset.IndexTimeout,
	})
	assetSvc = usecase.NewCachedAssetService(assetSvc, assetCache, usecase.CachedAssetServiceConfig{
		CacheTTL: cfg.Redis.CacheTTL,
	})

	catalogSvc := usecase.NewCatalogService(
		postgres.NewProvinceRepository(pool),
		postgres.NewCityRepository(pool),
		postgres.NewPlaceRepository(pool),
		postgres.NewTagRepository(pool),
	)

	backends := map[string]handler.Pinger{
		"postgres": pgClient,
		"minio":    storageClient,
		"redis": pingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	}

	r := setupRouter(logger, assetSvc, catalogSvc, backends, cfg.Server.MaxUploadBytes)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// pingerFunc adapts a plain function to the handler.Pinger interface.
type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func setupRouter(logger *slog.Logger, assetSvc usecase.AssetService, catalogSvc usecase.CatalogService, backends map[string]handler.Pinger, maxUploadBytes int64) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Readiness(backends))
	r.Handle("/metrics", promhttp.Handler())

	assetHandler := handler.NewAssetHandler(assetSvc, maxUploadBytes)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/images", func(r chi.Router) {
			r.Post("/", assetHandler.Save)
			r.Get("/", assetHandler.List)
			r.Get("/file/*", assetHandler.GetFile)
			r.Get("/{id}", assetHandler.Describe)
			r.Put("/{id}", assetHandler.Update)
			r.Delete("/{id}", assetHandler.Delete)
		})

		r.Route("/provinces", func(r chi.Router) {
			r.Post("/", catalogHandler.CreateProvince)
			r.Get("/", catalogHandler.ListProvinces)
			r.Get("/{id}", catalogHandler.GetProvince)
			r.Put("/{id}", catalogHandler.UpdateProvince)
			r.Delete("/{id}", catalogHandler.DeleteProvince)
		})

		r.Route("/cities", func(r chi.Router) {
			r.Post("/", catalogHandler.CreateCity)
			r.Get("/", catalogHandler.ListCities)
			r.Get("/{id}", catalogHandler.GetCity)
			r.Put("/{id}", catalogHandler.UpdateCity)
			r.Delete("/{id}", catalogHandler.DeleteCity)
		})

		r.Route("/places", func(r chi.Router) {
			r.Post("/", catalogHandler.CreatePlace)
			r.Get("/", catalogHandler.ListPlaces)
			r.Get("/{id}", catalogHandler.GetPlace)
			r.Put("/{id}", catalogHandler.UpdatePlace)
			r.Delete("/{id}", catalogHandler.DeletePlace)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Post("/", catalogHandler.CreateTag)
			r.Get("/", catalogHandler.ListTags)
			r.Put("/{id}", catalogHandler.UpdateTag)
			r.Delete("/{id}", catalogHandler.DeleteTag)
		})
	})

	return r
}
