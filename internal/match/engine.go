// internal/match/engine.go

// Package match runs the full matching pipeline: deterministic scoring
// of every record, fit-ordered shortlisting, and the quota-guarded AI
// rerank with its fallback. The engine always returns a best-effort
// ranked list; no failure inside it reaches the caller as an error.
package match

import (
	"context"
	"time"

	"scholarmatch/internal/common/logger"
	"scholarmatch/internal/common/metrics"
	"scholarmatch/internal/match/rerank"
	"scholarmatch/internal/match/scoring"
	"scholarmatch/internal/models"

	"github.com/google/uuid"
)

// Result is the engine's response to one matching request.
type Result struct {
	RequestID    string                     `json:"requestId"`
	Outcome      rerank.Outcome             `json:"outcome"`
	Scholarships []models.ScoredScholarship `json:"scholarships"`
}

type Engine struct {
	reranker *rerank.Reranker
	logger   logger.Logger
	now      func() time.Time
}

func NewEngine(reranker *rerank.Reranker, log logger.Logger) *Engine {
	return &Engine{
		reranker: reranker,
		logger:   log.WithFields(map[string]interface{}{"component": "engine"}),
		now:      time.Now,
	}
}

// Match scores every supplied record against the profile, ranks by fit
// score, and applies the rerank pass. Records the scorer cannot use
// are skipped individually; one bad record never aborts the batch.
func (e *Engine) Match(ctx context.Context, profile *models.UserProfile, records []models.ScholarshipRecord) *Result {
	requestID := uuid.NewString()
	start := time.Now()
	metrics.MatchRequests.Inc()

	log := e.logger.WithFields(map[string]interface{}{"requestId": requestID})

	if profile == nil {
		// fail-open: an absent profile scores like an empty one
		profile = &models.UserProfile{}
	}

	now := e.now()
	skipped := 0
	scored := make([]models.ScoredScholarship, 0, len(records))
	for i := range records {
		rec := &records[i]
		if rec.ID == "" {
			skipped++
			continue
		}
		scored = append(scored, scoring.Score(rec, profile, now))
	}

	if skipped > 0 {
		log.Warn("skipped records missing an id", map[string]interface{}{
			"skipped": skipped,
			"total":   len(records),
		})
	}

	scoring.SortByFit(scored)

	res := e.reranker.Rerank(ctx, profile, scored)

	metrics.MatchDuration.Observe(time.Since(start).Seconds())
	log.Info("matching request served", map[string]interface{}{
		"candidates": len(scored),
		"returned":   len(res.Ranked),
		"outcome":    string(res.Outcome),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return &Result{
		RequestID:    requestID,
		Outcome:      res.Outcome,
		Scholarships: res.Ranked,
	}
}
