// internal/models/scored.go
package models

// ScoredScholarship augments a record with the per-request scoring
// signals. FitScore starts as the composed score and may move past
// [0,1] once rerank boosts are applied; the three component signals
// keep their documented ranges.
type ScoredScholarship struct {
	ScholarshipRecord

	AcceptanceScore float64 `json:"acceptanceScore"` // [0,1]
	DeadlineUrgency float64 `json:"deadlineUrgency"` // {0, 0.1, 0.4, 0.7, 1.0}
	FundingStrength float64 `json:"fundingStrength"` // {0.5, 0.8, 1.0}
	FitScore        float64 `json:"fitScore"`
}
