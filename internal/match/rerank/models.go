// internal/match/rerank/models.go
package rerank

import "scholarmatch/internal/models"

// ProfileSummary is what leaves the process: the categorical fields
// ranking needs and nothing else. Free-text profile data never goes
// into the payload.
type ProfileSummary struct {
	Nationality     string   `json:"nationality"`
	DegreeTarget    string   `json:"degreeTarget"`
	Fields          []string `json:"fieldsOfStudy"`
	GPABand         string   `json:"gpa"`
	WorkYears       int      `json:"workYears"`
	SpecialStatuses []string `json:"specialStatuses,omitempty"`
	LanguageCerts   []string `json:"languageProofs,omitempty"`
	DeadlineWindow  string   `json:"deadlineWindow,omitempty"`
}

// Candidate is the whitelisted scholarship view sent to the ranking
// service.
type Candidate struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	Country        string                   `json:"country"`
	DegreeLevels   []string                 `json:"degreeLevels"`
	Fields         []string                 `json:"fields"`
	TuitionCovered bool                     `json:"tuitionCovered"`
	Stipend        string                   `json:"stipend,omitempty"`
	Rules          []models.EligibilityRule `json:"rules,omitempty"`
	Deadline       string                   `json:"deadline"`
	FitScore       float64                  `json:"fitScore"`
	Link           string                   `json:"link,omitempty"`
}

// BoostPair is one (candidate, boost) adjustment from the service.
// Boost is an unconstrained addend applied to the fit score.
type BoostPair struct {
	ID    string  `json:"id"`
	Boost float64 `json:"boost"`
}

func summarizeProfile(p *models.UserProfile) ProfileSummary {
	return ProfileSummary{
		Nationality:     p.Nationality,
		DegreeTarget:    p.DegreeTarget,
		Fields:          p.Fields,
		GPABand:         p.GPABand,
		WorkYears:       p.WorkYears,
		SpecialStatuses: p.SpecialStatuses,
		LanguageCerts:   p.LanguageCerts,
		DeadlineWindow:  p.DeadlineWindow,
	}
}

func buildCandidates(scored []models.ScoredScholarship) []Candidate {
	out := make([]Candidate, 0, len(scored))
	for _, s := range scored {
		out = append(out, Candidate{
			ID:             s.ID,
			Name:           s.Name,
			Country:        s.Country,
			DegreeLevels:   s.DegreeLevels,
			Fields:         s.Fields,
			TuitionCovered: s.TuitionCovered,
			Stipend:        s.Stipend,
			Rules:          s.Rules,
			Deadline:       s.Deadline,
			FitScore:       s.FitScore,
			Link:           s.SourceURL,
		})
	}
	return out
}
