// internal/match/rerank/reranker_test.go
package rerank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"scholarmatch/internal/common/logger"
	"scholarmatch/internal/match/quota"
	"scholarmatch/internal/match/rerankcache"
	"scholarmatch/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
		MaxRetries: 0,
		TopN:       100,
		MaxResults: 25,
	}
}

func testCache(t *testing.T) *rerankcache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return rerankcache.New(client, time.Hour, logger.NewTestLogger(t))
}

func testGuard(t *testing.T, limit int) *quota.Guard {
	t.Helper()
	guard, err := quota.NewGuard(quota.Config{Limit: limit, Window: time.Hour})
	require.NoError(t, err)
	return guard
}

func scoredCandidates(pairs ...interface{}) []models.ScoredScholarship {
	out := make([]models.ScoredScholarship, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, models.ScoredScholarship{
			ScholarshipRecord: models.ScholarshipRecord{ID: pairs[i].(string)},
			FitScore:          pairs[i+1].(float64),
		})
	}
	return out
}

func boostServer(t *testing.T, calls *int64, boosts []BoostPair) *httptest.Server {
	t.Helper()
	if boosts == nil {
		boosts = []BoostPair{}
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/rank", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"rankings": boosts})
	}))
}

func newReranker(t *testing.T, cfg *Config, guard *quota.Guard) *Reranker {
	t.Helper()
	log := logger.NewTestLogger(t)
	return NewReranker(cfg, testCache(t), guard, NewClient(cfg, log), log)
}

func TestRerank_SuccessAppliesBoosts(t *testing.T) {
	var calls int64
	server := boostServer(t, &calls, []BoostPair{
		{ID: "A", Boost: 0.1},
		{ID: "B", Boost: -0.1},
	})
	defer server.Close()

	r := newReranker(t, testConfig(server.URL), testGuard(t, 10))
	candidates := scoredCandidates("A", 0.8, "B", 0.75)

	res := r.Rerank(context.Background(), &models.UserProfile{}, candidates)

	assert.Equal(t, OutcomeReranked, res.Outcome)
	require.Len(t, res.Ranked, 2)
	assert.Equal(t, "A", res.Ranked[0].ID)
	assert.Equal(t, "B", res.Ranked[1].ID)
	assert.InDelta(t, 0.9, res.Ranked[0].FitScore, 1e-9)
	assert.InDelta(t, 0.65, res.Ranked[1].FitScore, 1e-9)
	assert.Greater(t, res.Ranked[0].FitScore, res.Ranked[1].FitScore)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestRerank_BoostsCanReorder(t *testing.T) {
	var calls int64
	server := boostServer(t, &calls, []BoostPair{
		{ID: "B", Boost: 0.5},
	})
	defer server.Close()

	r := newReranker(t, testConfig(server.URL), testGuard(t, 10))
	candidates := scoredCandidates("A", 0.8, "B", 0.75, "C", 0.6)

	res := r.Rerank(context.Background(), &models.UserProfile{}, candidates)

	require.Len(t, res.Ranked, 3)
	assert.Equal(t, "B", res.Ranked[0].ID)
	assert.Equal(t, "A", res.Ranked[1].ID)
	// Unmentioned candidates keep boost 0.
	assert.InDelta(t, 0.6, res.Ranked[2].FitScore, 1e-9)
}

func TestRerank_FailureFallsBackToFitOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	r := newReranker(t, testConfig(server.URL), testGuard(t, 10))
	// Equal scores exercise the stable tie-break on input order.
	candidates := scoredCandidates("C", 0.5, "A", 0.9, "B", 0.5)

	res := r.Rerank(context.Background(), &models.UserProfile{}, candidates)

	assert.Equal(t, OutcomeFallback, res.Outcome)
	require.Len(t, res.Ranked, 3)
	assert.Equal(t, "A", res.Ranked[0].ID)
	assert.Equal(t, "C", res.Ranked[1].ID)
	assert.Equal(t, "B", res.Ranked[2].ID)
}

func TestRerank_MalformedResponseFallsBack(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "{broken"},
		{"missing rankings key", `{"results": []}`},
		{"wrong item shape", `{"rankings": [{"id": 7, "boost": "high"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			r := newReranker(t, testConfig(server.URL), testGuard(t, 10))
			res := r.Rerank(context.Background(), &models.UserProfile{}, scoredCandidates("A", 0.9, "B", 0.5))

			assert.Equal(t, OutcomeFallback, res.Outcome)
			assert.Equal(t, "A", res.Ranked[0].ID)
		})
	}
}

func TestRerank_QuotaExhaustedSkipsExternalCall(t *testing.T) {
	var calls int64
	server := boostServer(t, &calls, nil)
	defer server.Close()

	r := newReranker(t, testConfig(server.URL), testGuard(t, 1))

	first := r.Rerank(context.Background(), &models.UserProfile{}, scoredCandidates("A", 0.9))
	assert.Equal(t, OutcomeReranked, first.Outcome)

	second := r.Rerank(context.Background(), &models.UserProfile{}, scoredCandidates("B", 0.8))
	assert.Equal(t, OutcomeFallback, second.Outcome)
	assert.Equal(t, "B", second.Ranked[0].ID)

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls), "rejected call must never reach the service")
}

func TestRerank_CacheHitSkipsEverything(t *testing.T) {
	var calls int64
	server := boostServer(t, &calls, []BoostPair{{ID: "A", Boost: 0.2}})
	defer server.Close()

	r := newReranker(t, testConfig(server.URL), testGuard(t, 10))
	profile := &models.UserProfile{Nationality: "Sudanese"}
	candidates := scoredCandidates("A", 0.8, "B", 0.7)

	first := r.Rerank(context.Background(), profile, candidates)
	assert.Equal(t, OutcomeReranked, first.Outcome)

	// Same profile and candidate set, different input order.
	reordered := scoredCandidates("B", 0.7, "A", 0.8)
	second := r.Rerank(context.Background(), profile, reordered)

	assert.Equal(t, OutcomeCacheHit, second.Outcome)
	assert.Equal(t, first.Ranked, second.Ranked)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestRerank_TimeoutFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond

	r := newReranker(t, cfg, testGuard(t, 10))
	res := r.Rerank(context.Background(), &models.UserProfile{}, scoredCandidates("A", 0.9))

	assert.Equal(t, OutcomeFallback, res.Outcome)
	assert.Equal(t, "A", res.Ranked[0].ID)
}

func TestRerank_CallerCancellationFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	r := newReranker(t, testConfig(server.URL), testGuard(t, 10))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	res := r.Rerank(ctx, &models.UserProfile{}, scoredCandidates("A", 0.9, "B", 0.3))

	assert.Equal(t, OutcomeFallback, res.Outcome)
	require.Len(t, res.Ranked, 2)
	assert.Equal(t, "A", res.Ranked[0].ID)
}

func TestRerank_TruncatesToMaxResults(t *testing.T) {
	var calls int64
	server := boostServer(t, &calls, nil)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxResults = 25

	r := newReranker(t, cfg, testGuard(t, 10))

	candidates := make([]models.ScoredScholarship, 40)
	for i := range candidates {
		candidates[i] = models.ScoredScholarship{
			ScholarshipRecord: models.ScholarshipRecord{ID: string(rune('a' + i%26)) + "-" + string(rune('0'+i/26))},
			FitScore:          1.0 - float64(i)*0.01,
		}
	}

	res := r.Rerank(context.Background(), &models.UserProfile{}, candidates)
	assert.Len(t, res.Ranked, 25)
}
