package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.True(t, cfg.Store.Seed)
	assert.Equal(t, 15*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, PagingConfig{DefaultPageSize: 10, MaxPageSize: 20}, cfg.Paging)
	assert.Equal(t, 60, cfg.HTTPCache.MaxAge)
	assert.Equal(t, 1000, cfg.HTTPCache.CourseMaxAge)
	assert.Empty(t, cfg.App.TrustedProxies)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,127.0.0.1 ")
	t.Setenv("APP_ENV", "staging")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.App.TrustedProxies)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("DB_RESET_ON_START", "true")
	t.Setenv("PAGE_SIZE_MAX", "50")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.ResetOnStart)
	assert.Equal(t, 50, cfg.Paging.MaxPageSize)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}},
		{"default above max", map[string]string{"PAGE_SIZE_DEFAULT": "30", "PAGE_SIZE_MAX": "20"}},
		{"bad ttl", map[string]string{"CACHE_TTL": "soon"}},
		{"reset in production", map[string]string{"APP_ENV": "production", "DB_RESET_ON_START": "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_MAX_CONN_LIFETIME", "10m")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.MaxConnLifetime)
	assert.Equal(t, "disable", cfg.SSLMode)

	t.Setenv("DB_MIN_CONNECTIONS", "40")
	_, err = LoadDatabaseConfig()
	assert.Error(t, err)

	t.Setenv("DB_MIN_CONNECTIONS", "2")
	t.Setenv("DB_RETRY_DELAY", "later")
	_, err = LoadDatabaseConfig()
	assert.Error(t, err)
}
