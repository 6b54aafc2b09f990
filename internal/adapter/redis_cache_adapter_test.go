package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"reviflow/internal/cache"
	"reviflow/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := cache.MasteryKey("learner-1")

	t.Run("Hit", func(t *testing.T) {
		mock.ExpectGet(key).SetVal(`[{"topic":"Fractions"}]`)
		val, err := adapter.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, `[{"topic":"Fractions"}]`, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss", func(t *testing.T) {
		mock.ExpectGet(key).SetErr(redis.Nil)
		val, err := adapter.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection refused")
		mock.ExpectGet(key).SetErr(redisErr)
		_, err := adapter.Get(ctx, key)
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := cache.APIKeyValidationKey("sk-or-v1-test")

	mock.ExpectSet(key, `{"valid":true}`, 10*time.Minute).SetVal("OK")
	assert.NoError(t, adapter.Set(ctx, key, `{"valid":true}`, 10*time.Minute))

	redisErr := errors.New("readonly replica")
	mock.ExpectSet(key, `{"valid":true}`, 10*time.Minute).SetErr(redisErr)
	assert.ErrorIs(t, adapter.Set(ctx, key, `{"valid":true}`, 10*time.Minute), redisErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	keys := cache.StatsKeys("learner-1")

	t.Run("StatsKeys", func(t *testing.T) {
		mock.ExpectDel(keys...).SetVal(2)
		assert.NoError(t, adapter.Delete(ctx, keys...))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingKeysAreFine", func(t *testing.T) {
		mock.ExpectDel(keys...).SetVal(0)
		assert.NoError(t, adapter.Delete(ctx, keys...))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoKeys", func(t *testing.T) {
		assert.NoError(t, adapter.Delete(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_IncrWindow(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := cache.ParentalGateAttemptsKey("u1")

	t.Run("Counts", func(t *testing.T) {
		mock.ExpectTxPipeline()
		mock.ExpectIncr(key).SetVal(3)
		mock.ExpectExpireNX(key, 15*time.Minute).SetVal(false)
		mock.ExpectTxPipelineExec()

		n, err := adapter.IncrWindow(ctx, key, 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		mock.ExpectTxPipeline()
		mock.ExpectIncr(key).SetErr(errors.New("OOM"))
		mock.ExpectExpireNX(key, 15*time.Minute).SetVal(true)
		mock.ExpectTxPipelineExec()

		_, err := adapter.IncrWindow(ctx, key, 15*time.Minute)
		assert.Error(t, err)
	})
}

func TestRedisCacheAdapter_TTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := cache.ParentalGateAttemptsKey("u1")

	t.Run("Remaining", func(t *testing.T) {
		mock.ExpectTTL(key).SetVal(90 * time.Second)
		ttl, err := adapter.TTL(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, 90*time.Second, ttl)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingKey", func(t *testing.T) {
		mock.ExpectTTL(key).SetVal(-2)
		_, err := adapter.TTL(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoExpiry", func(t *testing.T) {
		mock.ExpectTTL(key).SetVal(-1)
		ttl, err := adapter.TTL(ctx, key)
		assert.NoError(t, err)
		assert.Zero(t, ttl)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, adapter.Ping(context.Background()))

	mock.ExpectPing().SetErr(errors.New("down"))
	assert.Error(t, adapter.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
