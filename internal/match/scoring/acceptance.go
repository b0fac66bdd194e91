// internal/match/scoring/acceptance.go

// Package scoring computes the deterministic per-scholarship signals:
// acceptance score, deadline urgency, funding strength, and the
// composed fit score.
package scoring

import (
	"scholarmatch/internal/match/rules"
	"scholarmatch/internal/models"
)

const (
	baseScore = 0.5

	degreeWeight      = 0.25
	fieldWeight       = 0.25
	nationalityWeight = 0.20
	workYearsWeight   = 0.10
	gpaWeight         = 0.10
	languageWeight    = 0.10

	conflictPenalty = 0.15
)

// Single hardcoded conflict case: US-based scholarships penalize
// non-American applicants. This is a stand-in, not a general
// conflict-rule system; do not extend it without one.
const (
	conflictCountry     = "United States"
	conflictNationality = "American"
)

// AcceptanceScore estimates eligibility match in [0,1]. Missing rules
// and missing profile fields are fail-open: they either pass or simply
// contribute nothing, but never abort scoring.
func AcceptanceScore(s *models.ScholarshipRecord, p *models.UserProfile) float64 {
	score := baseScore

	if containsString(s.DegreeLevels, p.DegreeTarget) {
		score += degreeWeight
	}
	if intersects(p.Fields, s.Fields) {
		score += fieldWeight
	}

	if rules.KindSatisfied(s.Rules, models.RuleNationalityAllowlist, p) {
		score += nationalityWeight
	}
	if rules.KindSatisfied(s.Rules, models.RuleMinWorkYears, p) {
		score += workYearsWeight
	}
	if rules.KindSatisfied(s.Rules, models.RuleMinGPA, p) {
		score += gpaWeight
	}
	if rules.KindSatisfied(s.Rules, models.RuleLanguageCerts, p) {
		score += languageWeight
	}

	score -= conflictPenalty * float64(conflictPenalties(s, p))

	return clamp01(score)
}

func conflictPenalties(s *models.ScholarshipRecord, p *models.UserProfile) int {
	penalties := 0
	if s.Country == conflictCountry && p.Nationality != conflictNationality {
		penalties++
	}
	return penalties
}

func containsString(set []string, v string) bool {
	if v == "" {
		return false
	}
	for _, item := range set {
		if item == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
