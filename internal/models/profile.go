// internal/models/profile.go
package models

// UserProfile is the normalized student profile supplied per request.
// GPA is an ordered categorical band (">=90", "80-89", "<70", or a
// literal number), never a raw transcript value.
type UserProfile struct {
	Nationality     string   `json:"nationality"`
	DegreeTarget    string   `json:"degreeTarget"`
	Fields          []string `json:"fieldsOfStudy"`
	GPABand         string   `json:"gpa"`
	WorkYears       int      `json:"workYears"`
	SpecialStatuses []string `json:"specialStatuses,omitempty"`
	LanguageCerts   []string `json:"languageProofs,omitempty"`
	DeadlineWindow  string   `json:"deadlineWindow,omitempty"`
}
