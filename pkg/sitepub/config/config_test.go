package config_test

import (
	"context"
	"testing"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webpress/sitepub/pkg/sitepub/config"
)

func TestReadEnvDefaults(t *testing.T) {
	var cfg config.ServerConfig
	require.NoError(t, cleanenv.ReadEnv(&cfg))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, "memory", cfg.AssetStoreType)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mod     func(*config.ServerConfig)
		wantErr bool
	}{
		{"defaults ok", func(c *config.ServerConfig) {}, false},
		{"missing port", func(c *config.ServerConfig) { c.Port = "" }, true},
		{"unknown database type", func(c *config.ServerConfig) { c.DatabaseType = "sqlite" }, true},
		{"postgres without url", func(c *config.ServerConfig) { c.DatabaseType = "postgres" }, true},
		{
			"postgres with url",
			func(c *config.ServerConfig) {
				c.DatabaseType = "postgres"
				c.DatabaseURL = "postgres://localhost/sitepub"
			},
			false,
		},
		{"unknown asset store", func(c *config.ServerConfig) { c.AssetStoreType = "gcs" }, true},
		{"s3 without bucket", func(c *config.ServerConfig) { c.AssetStoreType = "s3" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.ServerConfig
			require.NoError(t, cleanenv.ReadEnv(&cfg))
			tt.mod(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildServiceMemory(t *testing.T) {
	var cfg config.ServerConfig
	require.NoError(t, cleanenv.ReadEnv(&cfg))
	cfg.FSBaseDir = t.TempDir()
	cfg.AssetStoreType = "fs"

	svc, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
