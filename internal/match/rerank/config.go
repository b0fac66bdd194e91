// internal/match/rerank/config.go
package rerank

import "time"

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	TopN       int // candidates sent to the ranking service, max 100
	MaxResults int // final list length returned to callers
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:    20 * time.Second,
		MaxRetries: 2,
		TopN:       100,
		MaxResults: 25,
	}
}
