package cache

import (
	"testing"
	"time"

	"reviflow/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisOptions(t *testing.T) {
	opt, err := NewRedisOptions(config.RedisConfig{
		Address:     "redis:6379",
		Password:    "secret",
		DB:          2,
		PoolSize:    20,
		DialTimeout: 3 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", opt.Addr)
	assert.Equal(t, "secret", opt.Password)
	assert.Equal(t, 2, opt.DB)
	assert.Equal(t, 20, opt.PoolSize)
	assert.Equal(t, 3*time.Second, opt.DialTimeout)
	assert.Equal(t, 3*time.Second, opt.ReadTimeout)
}

func TestNewRedisOptions_MissingAddress(t *testing.T) {
	_, err := NewRedisOptions(config.RedisConfig{})
	assert.Error(t, err)

	_, err = NewRedisClient(config.RedisConfig{})
	assert.Error(t, err)
}
