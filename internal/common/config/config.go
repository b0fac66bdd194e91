// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Reranker RerankerConfig `mapstructure:"reranker"`
	Quota    QuotaConfig    `mapstructure:"quota"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls the rerank result cache.
type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	SweepBatch    int           `mapstructure:"sweep_batch"`
}

// RerankerConfig holds settings for the external ranking service call.
type RerankerConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	TopN       int           `mapstructure:"top_n"`       // candidates sent out
	MaxResults int           `mapstructure:"max_results"` // final list length
}

// QuotaConfig bounds external ranking calls per rolling window.
type QuotaConfig struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func (c *Config) Validate() error {
	if c.Quota.Limit <= 0 {
		return fmt.Errorf("quota.limit must be > 0 (got %d)", c.Quota.Limit)
	}
	if c.Quota.Window <= 0 {
		return fmt.Errorf("quota.window must be > 0 (got %s)", c.Quota.Window)
	}
	if c.Reranker.TopN <= 0 || c.Reranker.TopN > 100 {
		return fmt.Errorf("reranker.top_n must be in (0,100] (got %d)", c.Reranker.TopN)
	}
	if c.Reranker.MaxResults <= 0 {
		return fmt.Errorf("reranker.max_results must be > 0 (got %d)", c.Reranker.MaxResults)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0 (got %s)", c.Cache.TTL)
	}
	return nil
}
