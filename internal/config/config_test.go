package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env file", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, "6379", cfg.Redis.Port)
		assert.Equal(t, "rsmq:", cfg.Namespace)
		assert.False(t, cfg.Realtime)
	})

	t.Run("loads from environment variables", func(t *testing.T) {
		require.NoError(t, os.Setenv("REDIS_HOST", "redis.internal"))
		require.NoError(t, os.Setenv("RSMQ_NAMESPACE", "myapp:"))
		require.NoError(t, os.Setenv("RSMQ_REALTIME", "true"))
		defer func() {
			_ = os.Unsetenv("REDIS_HOST")
			_ = os.Unsetenv("RSMQ_NAMESPACE")
			_ = os.Unsetenv("RSMQ_REALTIME")
		}()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "redis.internal", cfg.Redis.Host)
		assert.Equal(t, "myapp:", cfg.Namespace)
		assert.True(t, cfg.Realtime)
	})
}

func TestConfigValidation(t *testing.T) {
	t.Run("requires a redis host", func(t *testing.T) {
		cfg := &Config{Redis: RedisConfig{Host: "", Port: "6379", PoolSize: 1}, Namespace: "rsmq:"}
		err := cfg.validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Redis host is required")
	})

	t.Run("requires a non-empty namespace", func(t *testing.T) {
		cfg := &Config{Redis: RedisConfig{Host: "localhost", Port: "6379", PoolSize: 1}, Namespace: ""}
		err := cfg.validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "namespace")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "localhost", Port: "6379"}
	assert.Equal(t, "localhost:6379", r.Addr())
}
