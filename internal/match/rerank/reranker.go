// internal/match/rerank/reranker.go

// Package rerank applies the second-pass AI ranking to fit-scored
// candidates: cache lookup, quota check, external call, boost and
// resort, with a deterministic fallback whenever any step declines.
package rerank

import (
	"context"
	"errors"
	"sort"

	"scholarmatch/internal/common/logger"
	"scholarmatch/internal/common/metrics"
	"scholarmatch/internal/match/quota"
	"scholarmatch/internal/match/rerankcache"
	"scholarmatch/internal/models"
)

// Outcome names the path that produced a ranking, so callers and tests
// can tell them apart without error-based control flow.
type Outcome string

const (
	OutcomeCacheHit Outcome = "cache_hit"
	OutcomeFallback Outcome = "fallback"
	OutcomeReranked Outcome = "reranked"
)

// Result carries the ranked list and how it was obtained.
type Result struct {
	Ranked  []models.ScoredScholarship
	Outcome Outcome
}

type Reranker struct {
	config *Config
	cache  *rerankcache.Cache
	guard  *quota.Guard
	client RankService
	logger logger.Logger
}

func NewReranker(config *Config, cache *rerankcache.Cache, guard *quota.Guard, client RankService, log logger.Logger) *Reranker {
	return &Reranker{
		config: config,
		cache:  cache,
		guard:  guard,
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "reranker"}),
	}
}

// Rerank never fails: every path ends in a ranked list of at most
// MaxResults entries. The input must already be sorted by descending
// fit score; only the top TopN candidates are considered.
func (r *Reranker) Rerank(ctx context.Context, profile *models.UserProfile, candidates []models.ScoredScholarship) *Result {
	if len(candidates) > r.config.TopN {
		candidates = candidates[:r.config.TopN]
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	fingerprint := rerankcache.Fingerprint(profile, ids)

	if ranked, ok := r.cache.Get(ctx, fingerprint); ok {
		metrics.RerankOutcomes.WithLabelValues(string(OutcomeCacheHit)).Inc()
		return &Result{Ranked: ranked, Outcome: OutcomeCacheHit}
	}

	if !r.guard.Allow() {
		metrics.QuotaRejections.Inc()
		usage := r.guard.Usage()
		r.logger.Warn("ranking quota exhausted, using fallback ordering", map[string]interface{}{
			"used":    usage.Used,
			"limit":   usage.Limit,
			"resetAt": usage.ResetAt,
		})
		return r.fallback(candidates)
	}

	boosts, err := r.client.Rank(ctx, summarizeProfile(profile), buildCandidates(candidates))
	if err != nil {
		errorCode := "RERANK_FAILED"
		if errors.Is(err, ErrRankTimeout) {
			errorCode = "RERANK_TIMEOUT"
		}
		metrics.RerankCallFailures.WithLabelValues(errorCode).Inc()
		r.logger.Warn("ranking call failed, using fallback ordering", map[string]interface{}{
			"errorCode": errorCode,
			"error":     err.Error(),
		})
		return r.fallback(candidates)
	}

	ranked := applyBoosts(candidates, boosts)
	ranked = truncate(ranked, r.config.MaxResults)

	r.cache.Set(ctx, fingerprint, ranked)
	metrics.RerankOutcomes.WithLabelValues(string(OutcomeReranked)).Inc()

	return &Result{Ranked: ranked, Outcome: OutcomeReranked}
}

// fallback returns the candidates ordered strictly by descending fit
// score, ties broken by original input order.
func (r *Reranker) fallback(candidates []models.ScoredScholarship) *Result {
	ranked := make([]models.ScoredScholarship, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FitScore > ranked[j].FitScore
	})

	ranked = truncate(ranked, r.config.MaxResults)
	metrics.RerankOutcomes.WithLabelValues(string(OutcomeFallback)).Inc()

	return &Result{Ranked: ranked, Outcome: OutcomeFallback}
}

func applyBoosts(candidates []models.ScoredScholarship, boosts []BoostPair) []models.ScoredScholarship {
	boostByID := make(map[string]float64, len(boosts))
	for _, b := range boosts {
		boostByID[b.ID] = b.Boost
	}

	ranked := make([]models.ScoredScholarship, len(candidates))
	copy(ranked, candidates)

	// Candidates the service did not mention keep boost 0.
	for i := range ranked {
		ranked[i].FitScore += boostByID[ranked[i].ID]
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FitScore > ranked[j].FitScore
	})

	return ranked
}

func truncate(list []models.ScoredScholarship, max int) []models.ScoredScholarship {
	if max > 0 && len(list) > max {
		return list[:max]
	}
	return list
}
