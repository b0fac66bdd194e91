// internal/match/rerankcache/fingerprint.go
package rerankcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"scholarmatch/internal/models"
)

// fingerprintPayload is the canonical serialization input: only the
// profile fields that influence ranking, with every set sorted so
// input order never changes the key.
type fingerprintPayload struct {
	Nationality     string   `json:"nationality"`
	DegreeTarget    string   `json:"degreeTarget"`
	Fields          []string `json:"fields"`
	GPABand         string   `json:"gpa"`
	WorkYears       int      `json:"workYears"`
	SpecialStatuses []string `json:"specialStatuses"`
	LanguageCerts   []string `json:"languageCerts"`
	DeadlineWindow  string   `json:"deadlineWindow"`
	Candidates      []string `json:"candidates"`
}

// Fingerprint derives the cache key material for a (profile,
// candidate-set) pair. Permuting the candidate list or any profile set
// yields the same fingerprint.
func Fingerprint(p *models.UserProfile, candidateIDs []string) string {
	payload := fingerprintPayload{
		Nationality:     p.Nationality,
		DegreeTarget:    p.DegreeTarget,
		Fields:          sortedCopy(p.Fields),
		GPABand:         p.GPABand,
		WorkYears:       p.WorkYears,
		SpecialStatuses: sortedCopy(p.SpecialStatuses),
		LanguageCerts:   sortedCopy(p.LanguageCerts),
		DeadlineWindow:  p.DeadlineWindow,
		Candidates:      sortedCopy(candidateIDs),
	}

	// Struct marshaling emits keys in declaration order, so the
	// serialization is canonical once the sets are sorted.
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
