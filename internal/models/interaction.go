package models

// Interaction is a single customer touchpoint from the interaction store.
// Only the projected attributes are populated; interactions are read-only
// from this system's perspective.
type Interaction struct {
	Date  string `json:"date" dynamodbav:"date"`
	Notes string `json:"notes" dynamodbav:"notes"`
}
