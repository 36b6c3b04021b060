package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func TestDefaultPoolConfig(t *testing.T) {
	config := DefaultPoolConfig()

	assert.Equal(t, 1, config.MaxOpenConns)
	assert.Equal(t, 1, config.MaxIdleConns)
	assert.Zero(t, config.ConnMaxLifetime)
	assert.Zero(t, config.ConnMaxIdleTime)
	assert.Equal(t, logger.Silent, config.LogLevel)
	assert.Empty(t, config.Path)
}

func TestNewDatabasePool_WithNilConfig(t *testing.T) {
	_, err := NewDatabasePool(nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is empty")
}

func TestNewDatabasePool_MissingDirectory(t *testing.T) {
	config := DefaultPoolConfig()
	config.Path = filepath.Join(t.TempDir(), "missing", "dir", "todo.db")

	_, err := NewDatabasePool(config)

	assert.Error(t, err)
}

func TestNewDatabasePool_CreatesFile(t *testing.T) {
	config := DefaultPoolConfig()
	config.Path = filepath.Join(t.TempDir(), "todo.db")
	config.Logger = zap.NewNop()
	config.LogLevel = logger.Info

	pool, err := NewDatabasePool(config)
	require.NoError(t, err)
	defer pool.Close()

	assert.NoError(t, pool.Health())
	assert.Equal(t, config.Path, pool.Path())

	stats := pool.Stats()
	assert.Equal(t, 1, stats["max_open_connections"])
	assert.NotContains(t, stats, "error")
}

func TestDatabasePool_CloseTwice(t *testing.T) {
	config := DefaultPoolConfig()
	config.Path = filepath.Join(t.TempDir(), "todo.db")

	pool, err := NewDatabasePool(config)
	require.NoError(t, err)

	assert.NoError(t, pool.Close())
	assert.NoError(t, pool.Close())
	assert.Error(t, pool.Health())
}

func TestDatabasePool_Stats_WithoutConnection(t *testing.T) {
	pool := &DatabasePool{
		DB: nil,
		config: &PoolConfig{
			MaxOpenConns: 1,
		},
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Stats() should handle nil DB gracefully, but got panic: %v", r)
		}
	}()

	stats := pool.Stats()

	assert.Contains(t, stats, "error")
}

func TestDatabasePool_Health_WithoutConnection(t *testing.T) {
	pool := &DatabasePool{DB: nil}

	assert.Error(t, pool.Health())
}

func TestDatabasePool_Close_WithoutConnection(t *testing.T) {
	pool := &DatabasePool{DB: nil}

	assert.NoError(t, pool.Close())
}

func TestPoolConfig_Validation(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		config   *PoolConfig
		expected bool
	}{
		{
			name: "Valid configuration",
			config: &PoolConfig{
				Path:         filepath.Join(dir, "valid.db"),
				MaxOpenConns: 1,
				MaxIdleConns: 1,
				LogLevel:     logger.Silent,
			},
			expected: true,
		},
		{
			name: "Zero values configuration",
			config: &PoolConfig{
				Path:     "",
				LogLevel: logger.Silent,
			},
			expected: false,
		},
		{
			name: "Negative values configuration",
			config: &PoolConfig{
				Path:            filepath.Join(dir, "negative.db"),
				MaxOpenConns:    -1,
				MaxIdleConns:    -1,
				ConnMaxLifetime: -time.Hour,
				ConnMaxIdleTime: -time.Minute,
				LogLevel:        logger.Info,
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewDatabasePool(tt.config)

			if tt.expected {
				require.NoError(t, err)
				assert.NoError(t, pool.Close())
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func BenchmarkDefaultPoolConfig(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = DefaultPoolConfig()
	}
}
