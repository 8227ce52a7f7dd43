// Package storage holds the image file backends: local disk, S3 and MinIO.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/landmarket/backend/internal/domain/media"
	infraconfig "github.com/landmarket/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var errEmptyKey = errors.New("storage key is required")

// New builds the backend selected by cfg.Driver. Object store buckets are
// created on first use.
func New(ctx context.Context, cfg *infraconfig.StorageConfig, logger *zap.Logger) (media.FileStorage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.LocalRoot, cfg.PublicBaseURL)
	case "s3":
		s, err := NewS3Storage(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case "minio":
		s, err := NewMinioStorage(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// joinURL joins a base URL or path with a key using exactly one slash
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
