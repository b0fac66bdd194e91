// internal/match/scoring/signals.go
package scoring

import (
	"math"
	"time"

	"scholarmatch/internal/models"
)

// DeadlineUrgency maps days remaining until the deadline onto the
// fixed urgency scale. Rolling deadlines (and dates the ingesting
// collaborator left unparsable) carry no urgency at all.
func DeadlineUrgency(s *models.ScholarshipRecord, now time.Time) float64 {
	deadline, ok := s.DeadlineTime()
	if !ok {
		return 0
	}

	days := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	switch {
	case days <= 30:
		return 1.0
	case days <= 60:
		return 0.7
	case days <= 120:
		return 0.4
	default:
		return 0.1
	}
}

// FundingStrength scores the funding attributes: 1.0 when tuition is
// covered and a stipend exists, 0.8 for exactly one of the two, 0.5
// for neither.
func FundingStrength(s *models.ScholarshipRecord) float64 {
	switch {
	case s.TuitionCovered && s.HasStipend():
		return 1.0
	case s.TuitionCovered || s.HasStipend():
		return 0.8
	default:
		return 0.5
	}
}
