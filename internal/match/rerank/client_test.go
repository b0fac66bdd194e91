// internal/match/rerank/client_test.go
package rerank

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"scholarmatch/internal/common/logger"
	"scholarmatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RequestPayloadShape(t *testing.T) {
	var captured []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rankings": []}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.APIKey = "test-key"
	client := NewClient(cfg, logger.NewTestLogger(t))

	profile := summarizeProfile(&models.UserProfile{
		Nationality:   "Sudanese",
		DegreeTarget:  "masters",
		GPABand:       ">=90",
		LanguageCerts: []string{"IELTS 7.0"},
	})
	candidates := buildCandidates([]models.ScoredScholarship{
		{
			ScholarshipRecord: models.ScholarshipRecord{
				ID:                 "s1",
				Name:               "Test Scholarship",
				Country:            "Germany",
				EligibilitySummary: "free text that must not leave the process",
				SourceURL:          "https://example.org/s1",
			},
			FitScore: 0.8,
		},
	})

	_, err := client.Rank(context.Background(), profile, candidates)
	require.NoError(t, err)

	var body struct {
		Profile    map[string]interface{}   `json:"profile"`
		Candidates []map[string]interface{} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(captured, &body))

	allowedProfileKeys := map[string]bool{
		"nationality": true, "degreeTarget": true, "fieldsOfStudy": true,
		"gpa": true, "workYears": true, "specialStatuses": true,
		"languageProofs": true, "deadlineWindow": true,
	}
	for key := range body.Profile {
		assert.True(t, allowedProfileKeys[key], "unexpected profile field %q in payload", key)
	}

	require.Len(t, body.Candidates, 1)
	assert.Equal(t, "s1", body.Candidates[0]["id"])
	assert.Equal(t, "https://example.org/s1", body.Candidates[0]["link"])
	assert.NotContains(t, body.Candidates[0], "eligibilitySummary")
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rankings": [{"id": "s1", "boost": 0.25}]}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxRetries = 3
	client := NewClient(cfg, logger.NewTestLogger(t))

	boosts, err := client.Rank(context.Background(), ProfileSummary{}, nil)
	require.NoError(t, err)
	require.Len(t, boosts, 1)
	assert.Equal(t, "s1", boosts[0].ID)
	assert.InDelta(t, 0.25, boosts[0].Boost, 1e-9)
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestClient_ExhaustedRetriesReturnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxRetries = 1
	client := NewClient(cfg, logger.NewTestLogger(t))

	_, err := client.Rank(context.Background(), ProfileSummary{}, nil)
	assert.ErrorIs(t, err, ErrRankFailed)
}

func TestClient_TimeoutReturnsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	client := NewClient(cfg, logger.NewTestLogger(t))

	_, err := client.Rank(context.Background(), ProfileSummary{}, nil)
	assert.ErrorIs(t, err, ErrRankTimeout)
}
