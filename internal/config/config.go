// Package config loads the settings rsmqcli needs to connect to Redis,
// using a getEnv-with-default convention rather than a struct-tag
// env-parsing library.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is rsmqcli's full runtime configuration.
type Config struct {
	Redis     RedisConfig
	Namespace string
	Realtime  bool
	LogLevel  string
	LogFormat string
}

// RedisConfig describes how to reach the backing Redis instance.
type RedisConfig struct {
	Host               string
	Port               string
	Password           string
	Database           int
	PoolSize           int
	MinIdleConnections int
	MaxRetries         int
	DialTimeout        time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
}

// Addr returns the host:port pair go-redis expects.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// Load reads configuration from the environment (optionally seeded by a
// .env file in the working directory), applying the same defaults a local
// development Redis would need.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Redis: RedisConfig{
			Host:               getEnv("REDIS_HOST", "localhost"),
			Port:               getEnv("REDIS_PORT", "6379"),
			Password:           getEnv("REDIS_PASSWORD", ""),
			Database:           getEnvInt("REDIS_DATABASE", 0),
			PoolSize:           getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConnections: getEnvInt("REDIS_MIN_IDLE_CONNECTIONS", 5),
			MaxRetries:         getEnvInt("REDIS_MAX_RETRIES", 3),
			DialTimeout:        getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:        getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:       getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Namespace: getEnv("RSMQ_NAMESPACE", "rsmq:"),
		Realtime:  getEnvBool("RSMQ_REALTIME", false),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Redis.Host == "" {
		return fmt.Errorf("Redis host is required")
	}
	if c.Redis.Port == "" {
		return fmt.Errorf("Redis port is required")
	}
	if c.Redis.PoolSize <= 0 {
		return fmt.Errorf("Redis pool size must be positive")
	}
	if c.Redis.MinIdleConnections < 0 {
		return fmt.Errorf("Redis min idle connections must be non-negative")
	}
	if c.Redis.MaxRetries < 0 {
		return fmt.Errorf("Redis max retries must be non-negative")
	}
	if c.Namespace == "" {
		return fmt.Errorf("RSMQ namespace must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
