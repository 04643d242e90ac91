package extraction

import (
	"context"
	"sort"
	"sync"
	"time"
)

// AnalyzedMarker propagates last-analyzed timestamps to the document
// store. In Postgres mode the result store updates the documents table
// directly; in memory mode this hook keeps the two stores consistent.
type AnalyzedMarker interface {
	MarkAnalyzed(ctx context.Context, documentID string, at time.Time) error
}

// MemoryStore is an in-memory ResultStore for dev mode and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[resultKey]Result
	Marker  AnalyzedMarker
}

type resultKey struct {
	documentID string
	fieldID    string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[resultKey]Result)}
}

func (s *MemoryStore) SaveResult(ctx context.Context, res Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := resultKey{res.DocumentID, res.ExtractionFieldID}
	if existing, ok := s.results[key]; ok {
		res.ID = existing.ID
	}
	s.results[key] = res
	return res.ID, nil
}

func (s *MemoryStore) MarkAnalyzed(ctx context.Context, documentID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Marker == nil {
		return nil
	}
	return s.Marker.MarkAnalyzed(ctx, documentID, at)
}

func (s *MemoryStore) ListByDocument(ctx context.Context, documentID string) ([]Result, error) {
	return s.ListByDocuments(ctx, []string{documentID})
}

func (s *MemoryStore) ListByDocuments(ctx context.Context, documentIDs []string) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(documentIDs))
	for _, id := range documentIDs {
		wanted[id] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Result
	for _, res := range s.results {
		if _, ok := wanted[res.DocumentID]; ok {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExtractedAt.Equal(out[j].ExtractedAt) {
			return out[i].ExtractedAt.After(out[j].ExtractedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.results {
		if key.documentID == documentID {
			delete(s.results, key)
		}
	}
	return nil
}

func (s *MemoryStore) DeleteByField(ctx context.Context, fieldID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.results {
		if key.fieldID == fieldID {
			delete(s.results, key)
		}
	}
	return nil
}

var _ ResultStore = (*MemoryStore)(nil)
