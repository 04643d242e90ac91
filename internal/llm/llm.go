package llm

import (
	"context"
	"errors"
)

// Client abstracts LLM providers for document field extraction.
type Client interface {
	ExtractFields(ctx context.Context, input ExtractInput) ([]FieldResult, error)
}

// FieldSpec describes one field the provider should extract.
type FieldSpec struct {
	ID          string
	Name        string
	DataType    string
	Description string
}

// ExtractInput captures the inputs for one extraction call.
type ExtractInput struct {
	DocumentName string
	DocumentText string
	Fields       []FieldSpec
}

// FieldResult is the provider's answer for a single field. Value is nil
// when the field was not found in the document.
type FieldResult struct {
	FieldID    string   `json:"fieldId"`
	Value      *string  `json:"value"`
	Confidence *float64 `json:"confidence"`
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// ExtractFields returns ErrNotImplemented.
func (PlaceholderClient) ExtractFields(ctx context.Context, input ExtractInput) ([]FieldResult, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
