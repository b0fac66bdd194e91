// internal/match/rerank/client.go
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "scholarmatch/internal/common/http"
	"scholarmatch/internal/common/logger"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrRankTimeout = errors.New("RERANK_TIMEOUT")
	ErrRankFailed  = errors.New("RERANK_FAILED")
)

// responseSchema pins the only shape we accept from the ranking
// service; anything else is a parse failure and the caller falls back.
var responseSchema = gojsonschema.NewGoLoader(map[string]interface{}{
	"type":     "object",
	"required": []string{"rankings"},
	"properties": map[string]interface{}{
		"rankings": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []string{"id", "boost"},
				"properties": map[string]interface{}{
					"id":    map[string]interface{}{"type": "string"},
					"boost": map[string]interface{}{"type": "number"},
				},
			},
		},
	},
})

// RankService is the external ranking exchange. Implementations must
// honor ctx cancellation and return quickly on failure so the caller's
// fallback still makes the response deadline.
type RankService interface {
	Rank(ctx context.Context, profile ProfileSummary, candidates []Candidate) ([]BoostPair, error)
}

type Client struct {
	config *Config
	client *commonhttp.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		// No client-level timeout; each call is bounded by its context.
		client: commonhttp.NewClient(0),
		logger: log.WithFields(map[string]interface{}{"component": "rankClient"}),
	}
}

// Rank sends the profile summary and candidates and returns the boost
// list. Retries transient failures with exponential backoff inside the
// context deadline.
func (c *Client) Rank(ctx context.Context, profile ProfileSummary, candidates []Candidate) ([]BoostPair, error) {
	requestBody := map[string]interface{}{
		"profile":    profile,
		"candidates": candidates,
	}

	body, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRankFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrRankTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/rank", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRankFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, lastErr = c.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return nil, ErrRankTimeout
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrRankTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrRankFailed, lastErr)
	}

	if resp == nil {
		return nil, fmt.Errorf("%w: no successful response after retries", ErrRankFailed)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRankFailed, err)
	}

	if err := validateResponse(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRankFailed, err)
	}

	var parsed struct {
		Rankings []BoostPair `json:"rankings"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrRankFailed, err)
	}

	c.logger.Debug("ranking response received", map[string]interface{}{
		"pairs": len(parsed.Rankings),
	})

	return parsed.Rankings, nil
}

func validateResponse(raw []byte) error {
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(responseSchema, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %v", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("response validation failed: %v", errs)
	}

	return nil
}
