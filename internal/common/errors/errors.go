// Package errors provides standardized error handling for the match engine.
//
// Nothing in this taxonomy ever reaches an end user: every class is
// recovered locally (fallback ordering, cache-as-miss, skip-record)
// and surfaced only to logs and metrics.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"

	ErrCodeRerankUnavailable ErrorCode = "RERANK_SERVICE_UNAVAILABLE"
	ErrCodeRerankTimeout     ErrorCode = "RERANK_TIMEOUT"
	ErrCodeRerankBadResponse ErrorCode = "RERANK_BAD_RESPONSE"

	ErrCodeQuotaExceeded ErrorCode = "QUOTA_EXCEEDED"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewMalformedInputError marks input the matcher could not use: an
// undecodable request body, or a record missing fields required for
// scoring. Non-retryable; a bad record is skipped, never the batch.
func NewMalformedInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedInput,
		Message:   "Input could not be used for matching",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRerankUnavailableError wraps a network or status failure from the
// external ranking service. Retryable within the call's own budget.
func NewRerankUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRerankUnavailable,
		Message:   "External ranking service unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRerankTimeoutError marks an external ranking call that exceeded
// its deadline.
func NewRerankTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRerankTimeout,
		Message:   "External ranking call timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRerankBadResponseError marks an unparsable or schema-violating
// payload from the ranking service.
func NewRerankBadResponseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRerankBadResponse,
		Message:   "Ranking service response failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuotaExceededError marks a ranking call rejected by the guard
// before any network activity.
func NewQuotaExceededError(used, limit int, resetAt time.Time) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuotaExceeded,
		Message:   "Ranking call quota exhausted for the current window",
		Details:   fmt.Sprintf("used %d of %d", used, limit),
		Retryable: false,
		Metadata: map[string]interface{}{
			"used":    used,
			"limit":   limit,
			"resetAt": resetAt.UTC(),
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError wraps a cache backend failure; callers
// treat it as a miss.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Rerank cache backend unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
