package app

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/config"
	"github.com/dmitrijs2005/blogkeeper/internal/kv"
	"github.com/dmitrijs2005/blogkeeper/internal/kv/memory"
	"github.com/dmitrijs2005/blogkeeper/internal/kv/postgres"
	"github.com/dmitrijs2005/blogkeeper/internal/kv/s3kv"
	"github.com/dmitrijs2005/blogkeeper/internal/kv/sqlite"
)

// Seams for tests.
var (
	openSQLite   = sqlite.Open
	openPostgres = postgres.Open
	openS3       = s3kv.NewFromConfig
)

// OpenBackend opens the kv.Repository named by cfg.Backend.
func OpenBackend(ctx context.Context, cfg *config.Config) (kv.Repository, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil

	case config.BackendSQLite, "":
		repo, err := openSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return repo, nil

	case config.BackendPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("%w: postgres backend needs a DSN", common.ErrValidation)
		}
		repo, err := openPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return repo, nil

	case config.BackendS3:
		repo, err := openS3(ctx, s3kv.Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open s3: %w", err)
		}
		return repo, nil

	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownBackend, cfg.Backend)
	}
}
