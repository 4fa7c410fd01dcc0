package models

// Skill is one entry of a user's offered or learning list. ID is a stable
// identifier assigned at creation; clients may remove by ID instead of the
// legacy positional index.
type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"skill"`
	Category    string `json:"category"`
	Level       string `json:"level"`
	Description string `json:"description"`
}
