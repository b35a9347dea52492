package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type (
	// Config holds every runtime setting, parsed from the environment.
	Config struct {
		Port         string `env:"PORT" envDefault:"8080"`
		DatabasePath string `env:"DATABASE_PATH" envDefault:"rescue.db"`
		JWTSecret    string `env:"JWT_SECRET"`
		BcryptCost   int    `env:"BCRYPT_COST" envDefault:"12"`

		Blob   BlobConfig   `envPrefix:"BLOB_"`
		Upload UploadConfig `envPrefix:"UPLOAD_"`
	}

	// BlobConfig selects and configures the image byte storage backend.
	// Backend "sqlite" keeps blobs in the main database (local/dev);
	// "s3" targets an S3-compatible object store via minio.
	BlobConfig struct {
		Backend       string `env:"BACKEND" envDefault:"sqlite"`
		Endpoint      string `env:"ENDPOINT" envDefault:"s3.amazonaws.com"`
		AccessKey     string `env:"ACCESS_KEY"`
		SecretKey     string `env:"SECRET_KEY"`
		Bucket        string `env:"BUCKET" envDefault:"rescue-images"`
		Region        string `env:"REGION" envDefault:"eu-north-1"`
		UseSSL        bool   `env:"USE_SSL" envDefault:"true"`
		PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	}

	// UploadConfig tunes the image ingestion pipeline.
	UploadConfig struct {
		MaxBytes int64 `env:"MAX_BYTES" envDefault:"10485760"`
		MaxEdge  int   `env:"MAX_EDGE" envDefault:"1200"`
		// RatePerMinute bounds mutating requests per user.
		RatePerMinute float64 `env:"RATE_PER_MINUTE" envDefault:"30"`
		Burst         float64 `env:"BURST" envDefault:"10"`
	}
)

// Load parses the configuration from the environment and validates the
// settings that have no usable default.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 14 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cfg.BcryptCost)
	}
	if cfg.Blob.Backend != "sqlite" && cfg.Blob.Backend != "s3" {
		return nil, fmt.Errorf("BLOB_BACKEND must be sqlite or s3, got %q", cfg.Blob.Backend)
	}

	return cfg, nil
}
