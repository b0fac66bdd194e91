// internal/match/scoring/composer.go
package scoring

import (
	"sort"
	"time"

	"scholarmatch/internal/models"
)

// Fixed composition policy. Applied identically to every candidate in
// a request so relative order, not absolute value, is the contract.
const (
	acceptanceWeight = 0.60
	fundingWeight    = 0.25
	urgencyWeight    = 0.15
)

// ComposeFit combines the three signals into a single fit score.
func ComposeFit(acceptance, funding, urgency float64) float64 {
	return acceptanceWeight*acceptance + fundingWeight*funding + urgencyWeight*urgency
}

// Score computes all per-scholarship signals for one record.
func Score(s *models.ScholarshipRecord, p *models.UserProfile, now time.Time) models.ScoredScholarship {
	acceptance := AcceptanceScore(s, p)
	urgency := DeadlineUrgency(s, now)
	funding := FundingStrength(s)

	return models.ScoredScholarship{
		ScholarshipRecord: *s,
		AcceptanceScore:   acceptance,
		DeadlineUrgency:   urgency,
		FundingStrength:   funding,
		FitScore:          ComposeFit(acceptance, funding, urgency),
	}
}

// SortByFit orders candidates by descending fit score. The sort is
// stable so ties keep their input order across reruns.
func SortByFit(scored []models.ScoredScholarship) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FitScore > scored[j].FitScore
	})
}
