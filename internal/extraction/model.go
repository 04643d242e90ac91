package extraction

import "time"

// Result is one persisted extraction outcome for a document/field pair.
// ExtractedValue is nil when the provider could not find the field in the
// document.
type Result struct {
	ID                string
	DocumentID        string
	ExtractionFieldID string
	ExtractedValue    *string
	ConfidenceScore   *float64
	ExtractedAt       time.Time
}

// FieldResult is a single field outcome returned by a provider call.
type FieldResult struct {
	ExtractionFieldID string
	ExtractedValue    *string
	ConfidenceScore   *float64
}
