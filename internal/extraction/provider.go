package extraction

import "context"

// Provider invokes the extraction backend for one document. A call either
// fails as a whole or returns a result for each requested field; there are
// no partial responses within a document.
type Provider interface {
	Invoke(ctx context.Context, documentID string, fieldIDs []string) ([]FieldResult, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, documentID string, fieldIDs []string) ([]FieldResult, error)

func (f ProviderFunc) Invoke(ctx context.Context, documentID string, fieldIDs []string) ([]FieldResult, error) {
	return f(ctx, documentID, fieldIDs)
}
