package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pawtrail/rescue/internal/blob"
	"github.com/pawtrail/rescue/internal/config"
	"github.com/pawtrail/rescue/internal/domain"
	"github.com/pawtrail/rescue/internal/handler"
	"github.com/pawtrail/rescue/internal/repository/sqlite"
	"github.com/pawtrail/rescue/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// A missing .env file is fine; the environment may be set directly.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	users := sqlite.NewUserRepository(db)
	animals := sqlite.NewAnimalRepository(db)
	images := sqlite.NewAnimalImageRepository(db)

	// The blob client is constructed once here and injected; nothing
	// downstream builds its own storage clients.
	var blobs domain.BlobStore
	var blobHandler *handler.BlobHandler
	switch cfg.Blob.Backend {
	case "s3":
		store, err := blob.NewMinioStore(blob.Config{
			Endpoint:      cfg.Blob.Endpoint,
			AccessKey:     cfg.Blob.AccessKey,
			SecretKey:     cfg.Blob.SecretKey,
			Bucket:        cfg.Blob.Bucket,
			Region:        cfg.Blob.Region,
			UseSSL:        cfg.Blob.UseSSL,
			PublicBaseURL: cfg.Blob.PublicBaseURL,
		})
		if err != nil {
			slog.Error("failed to create blob store", "error", err)
			os.Exit(1)
		}
		blobs = store
		slog.Info("using s3 blob backend", "endpoint", cfg.Blob.Endpoint, "bucket", cfg.Blob.Bucket)
	default:
		store := sqlite.NewBlobStore(db, "/blobs")
		blobs = store
		blobHandler = handler.NewBlobHandler(store)
		slog.Info("using sqlite blob backend")
	}

	authService := service.NewAuthService(users, cfg.JWTSecret, cfg.BcryptCost)
	processor := service.NewImageProcessor(cfg.Upload.MaxBytes, cfg.Upload.MaxEdge)
	imageService := service.NewImageService(images, blobs, animals, processor)
	animalService := service.NewAnimalService(animals, images, blobs)
	geoService := service.NewGeoService(animals)
	limiter := service.NewUploadLimiter(cfg.Upload.RatePerMinute/60, cfg.Upload.Burst)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, animalService, geoService, imageService, limiter, blobHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
