// Package config builds sitepub services and routers from environment
// configuration. It is used by cmd/server but can also be embedded in
// other programs that want the same wiring.
package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webpress/sitepub/pkg/sitepub"
	fsassets "github.com/webpress/sitepub/pkg/sitepub/assetstore/fs"
	memoryassets "github.com/webpress/sitepub/pkg/sitepub/assetstore/memory"
	s3assets "github.com/webpress/sitepub/pkg/sitepub/assetstore/s3"
	"github.com/webpress/sitepub/pkg/sitepub/repo/memory"
	repopg "github.com/webpress/sitepub/pkg/sitepub/repo/postgres"
)

// ServerConfig holds everything needed to run the publication server.
// Fields carry cleanenv tags so the whole struct can be populated from
// the environment with cleanenv.ReadEnv.
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseType string `env:"DATABASE_TYPE" env-default:"memory"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DBSchema     string `env:"SITEPUB_DB_SCHEMA" env-default:"sitepub"`
	AutoMigrate  bool   `env:"AUTO_MIGRATE" env-default:"false"`

	AssetStoreType string `env:"ASSET_STORE_TYPE" env-default:"memory"`
	FSBaseDir      string `env:"FS_BASE_DIR" env-default:"./data/assets"`

	S3Region          string `env:"S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	S3KeyPrefix       string `env:"S3_KEY_PREFIX"`

	StorageTimeout time.Duration `env:"STORAGE_TIMEOUT" env-default:"5s"`
	StorageRetries int           `env:"STORAGE_RETRIES" env-default:"2"`
}

// Validate checks the configuration for internal consistency.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.DatabaseType {
	case "memory", "postgres":
	default:
		return fmt.Errorf("database_type must be 'memory' or 'postgres', got %q", c.DatabaseType)
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.AssetStoreType {
	case "memory", "fs", "s3":
	default:
		return fmt.Errorf("asset_store_type must be 'memory', 'fs' or 's3', got %q", c.AssetStoreType)
	}

	if c.AssetStoreType == "s3" && c.S3Bucket == "" {
		return errors.New("s3_bucket is required when using the s3 asset store")
	}

	return nil
}

// BuildService assembles a Service from the configuration.
func (c *ServerConfig) BuildService(ctx context.Context) (sitepub.Service, error) {
	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	assets, err := c.buildAssetStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build asset store: %w", err)
	}

	return sitepub.New(
		sitepub.WithRepository(repo),
		sitepub.WithAssetStore(assets),
		sitepub.WithStorageTimeout(c.StorageTimeout),
		sitepub.WithStorageRetries(c.StorageRetries),
	)
}

func (c *ServerConfig) buildRepository(ctx context.Context) (sitepub.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		pool, err := c.connectPostgres(ctx)
		if err != nil {
			return nil, err
		}
		if c.AutoMigrate {
			if err := repopg.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func (c *ServerConfig) connectPostgres(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	schema := c.DBSchema
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if schema == "" {
			return nil
		}
		_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", schema))
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

func (c *ServerConfig) buildAssetStore() (sitepub.AssetStore, error) {
	switch c.AssetStoreType {
	case "memory":
		return memoryassets.New(), nil
	case "fs":
		return fsassets.New(fsassets.Config{BaseDir: c.FSBaseDir})
	case "s3":
		return s3assets.New(s3assets.Config{
			Region:          c.S3Region,
			Bucket:          c.S3Bucket,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			Endpoint:        c.S3Endpoint,
			UsePathStyle:    c.S3UsePathStyle,
			KeyPrefix:       c.S3KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unsupported asset store type: %s", c.AssetStoreType)
	}
}

// PingPostgres verifies connectivity to Postgres, optionally pinning the
// session search_path to the given schema.
func PingPostgres(databaseURL, schema string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", schema))
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
