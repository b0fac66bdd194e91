// internal/match/rules/evaluator.go

// Package rules evaluates structured eligibility rules against a
// profile. Evaluation is pure and deterministic: the same (rule,
// profile) pair always yields the same answer.
//
// Unknown rule kinds evaluate to pass. That keeps newly ingested rule
// kinds from blocking previously eligible scholarships before this
// package learns about them, at the cost of under-filtering until it
// does.
package rules

import (
	"strconv"
	"strings"

	"scholarmatch/internal/models"
)

// Evaluate returns the pass/fail outcome for a single rule.
func Evaluate(rule models.EligibilityRule, profile *models.UserProfile) bool {
	switch rule.Kind {
	case models.RuleNationalityAllowlist:
		return nationalityPass(rule, profile)
	case models.RuleMinWorkYears:
		return float64(profile.WorkYears) >= rule.Value
	case models.RuleMinGPA:
		return GPABandValue(profile.GPABand) >= rule.Value
	case models.RuleLanguageCerts:
		return languagePass(rule, profile)
	default:
		// fail-open
		return true
	}
}

// KindSatisfied reports whether every rule of the given kind passes.
// A scholarship that carries no rule of the kind imposes nothing, so
// absence is a pass.
func KindSatisfied(ruleset []models.EligibilityRule, kind models.RuleKind, profile *models.UserProfile) bool {
	for _, rule := range ruleset {
		if rule.Kind != kind {
			continue
		}
		if !Evaluate(rule, profile) {
			return false
		}
	}
	return true
}

func nationalityPass(rule models.EligibilityRule, profile *models.UserProfile) bool {
	for _, allowed := range rule.Allowed {
		if profile.Nationality == allowed {
			return true
		}
	}
	return false
}

func languagePass(rule models.EligibilityRule, profile *models.UserProfile) bool {
	for _, cert := range profile.LanguageCerts {
		for _, accepted := range rule.Values {
			if cert == accepted {
				return true
			}
		}
	}
	if rule.Optional && len(profile.LanguageCerts) == 0 {
		return true
	}
	return false
}

// GPABandValue converts an ordered categorical GPA band to a
// representative number: ">=90" maps to 90, a "lo-hi" range to its
// midpoint, "<70" to 69, and anything else is parsed as a literal
// number. Unparsable bands map to 0 so they contribute nothing.
func GPABandValue(band string) float64 {
	band = strings.TrimSpace(band)
	switch {
	case band == "":
		return 0
	case strings.HasPrefix(band, ">="):
		if v, err := strconv.ParseFloat(strings.TrimSpace(band[2:]), 64); err == nil {
			return v
		}
		return 0
	case strings.HasPrefix(band, "<"):
		if v, err := strconv.ParseFloat(strings.TrimSpace(band[1:]), 64); err == nil {
			return v - 1
		}
		return 0
	case strings.Contains(band, "-"):
		parts := strings.SplitN(band, "-", 2)
		lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLo != nil || errHi != nil {
			return 0
		}
		return (lo + hi) / 2
	default:
		if v, err := strconv.ParseFloat(band, 64); err == nil {
			return v
		}
		return 0
	}
}
