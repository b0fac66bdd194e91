// internal/models/scholarship.go
package models

import "time"

// DeadlineRolling is the sentinel value for scholarships with no fixed
// application deadline.
const DeadlineRolling = "rolling"

// RuleKind discriminates the structured eligibility rule variants.
type RuleKind string

const (
	RuleNationalityAllowlist RuleKind = "nationality_allowlist"
	RuleMinWorkYears         RuleKind = "min_work_years"
	RuleMinGPA               RuleKind = "min_gpa"
	RuleLanguageCerts        RuleKind = "language_certifications"
)

// EligibilityRule is a kind-tagged variant. Only the fields relevant to
// its Kind are populated; everything else stays at the zero value.
// Records carrying kinds this engine does not know about are kept as-is
// and evaluate fail-open.
type EligibilityRule struct {
	Kind     RuleKind `json:"kind"`
	Allowed  []string `json:"allowed,omitempty"`  // nationality_allowlist
	Value    float64  `json:"value,omitempty"`    // min_work_years, min_gpa
	Values   []string `json:"values,omitempty"`   // language_certifications
	Optional bool     `json:"optional,omitempty"` // language_certifications
}

// ScholarshipRecord is a normalized scholarship as supplied by the
// catalog collaborator. Deadline is either an ISO date (YYYY-MM-DD or
// RFC3339) or the DeadlineRolling sentinel.
type ScholarshipRecord struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Country            string            `json:"country"`
	DegreeLevels       []string          `json:"degreeLevels"`
	Fields             []string          `json:"fields"`
	Deadline           string            `json:"deadline"`
	TuitionCovered     bool              `json:"tuitionCovered"`
	Stipend            string            `json:"stipend,omitempty"`
	EligibilitySummary string            `json:"eligibilitySummary,omitempty"`
	Rules              []EligibilityRule `json:"rules,omitempty"`
	SourceURL          string            `json:"sourceUrl,omitempty"`
}

// IsRolling reports whether the record has no fixed deadline.
func (s *ScholarshipRecord) IsRolling() bool {
	return s.Deadline == "" || s.Deadline == DeadlineRolling
}

// DeadlineTime parses the deadline. The boolean is false for rolling
// deadlines and unparsable dates.
func (s *ScholarshipRecord) DeadlineTime() (time.Time, bool) {
	if s.IsRolling() {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", s.Deadline); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s.Deadline); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// HasStipend reports whether the record advertises a stipend.
func (s *ScholarshipRecord) HasStipend() bool {
	return s.Stipend != ""
}
