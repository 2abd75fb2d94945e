// Package models defines the domain types for Cairn.
package models

// Hike is the sole persisted entity: one logged hike.
//
// Every field is stored as text, including length, rating, and dates.
// Parsing is deferred to consumers; the storage layer never interprets
// values beyond the ordering rule on Date.
type Hike struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Date        string `json:"date"` // ISO-8601 date, e.g. 2024-05-01
	Parking     string `json:"parking"`
	Length      string `json:"length"`
	Difficulty  string `json:"difficulty"`
	Description string `json:"description"`
	Weather     string `json:"weather"`
	Rating      string `json:"rating"`
	Companions  string `json:"companions"`
	CreatedAt   string `json:"createdAt"` // ISO-8601 timestamp, set once on create
}

// Difficulty levels accepted at the input boundary.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
	DifficultyExpert = "Expert"
)
