package extraction

import (
	"context"
	"time"
)

// ResultStore defines the persistence boundary for extraction results.
type ResultStore interface {
	// SaveResult upserts a result keyed by (document, field) and returns
	// the stored row ID. Re-running extraction overwrites the prior value
	// instead of accumulating duplicates.
	SaveResult(ctx context.Context, res Result) (string, error)
	// MarkAnalyzed records the document's last successful extraction time.
	MarkAnalyzed(ctx context.Context, documentID string, at time.Time) error
	ListByDocument(ctx context.Context, documentID string) ([]Result, error)
	ListByDocuments(ctx context.Context, documentIDs []string) ([]Result, error)
	DeleteByDocument(ctx context.Context, documentID string) error
	DeleteByField(ctx context.Context, fieldID string) error
}
