package extraction

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeProvider struct {
	failFor map[string]bool
	calls   []string
	perDoc  int
}

func (p *fakeProvider) Invoke(ctx context.Context, documentID string, fieldIDs []string) ([]FieldResult, error) {
	p.calls = append(p.calls, documentID)
	if p.failFor[documentID] {
		return nil, errors.New("provider blew up")
	}
	n := p.perDoc
	if n == 0 {
		n = len(fieldIDs)
	}
	out := make([]FieldResult, 0, n)
	for i := 0; i < n; i++ {
		value := fmt.Sprintf("%s-value-%d", documentID, i)
		score := 0.9
		out = append(out, FieldResult{
			ExtractionFieldID: fieldIDs[i%len(fieldIDs)],
			ExtractedValue:    &value,
			ConfidenceScore:   &score,
		})
	}
	return out, nil
}

type fakeStore struct {
	saved      []Result
	analyzed   []string
	saveErr    error
	markErr    error
	saveErrFor map[string]bool
}

func (s *fakeStore) SaveResult(ctx context.Context, res Result) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	if s.saveErrFor[res.DocumentID] {
		return "", errors.New("insert failed")
	}
	s.saved = append(s.saved, res)
	return res.ID, nil
}

func (s *fakeStore) MarkAnalyzed(ctx context.Context, documentID string, at time.Time) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.analyzed = append(s.analyzed, documentID)
	return nil
}

func (s *fakeStore) ListByDocument(ctx context.Context, documentID string) ([]Result, error) {
	return nil, nil
}

func (s *fakeStore) ListByDocuments(ctx context.Context, documentIDs []string) ([]Result, error) {
	return nil, nil
}

func (s *fakeStore) DeleteByDocument(ctx context.Context, documentID string) error { return nil }
func (s *fakeStore) DeleteByField(ctx context.Context, fieldID string) error       { return nil }

func docRefs(n int) []DocumentRef {
	out := make([]DocumentRef, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, DocumentRef{ID: fmt.Sprintf("doc-%d", i), Name: fmt.Sprintf("Doc %d", i)})
	}
	return out
}

func TestRunRejectsEmptyFieldSelection(t *testing.T) {
	orch := &Orchestrator{Provider: &fakeProvider{}, Store: &fakeStore{}}
	_, err := orch.Run(context.Background(), RunInput{Documents: docRefs(2)})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestRunRejectsEmptyDocumentList(t *testing.T) {
	orch := &Orchestrator{Provider: &fakeProvider{}, Store: &fakeStore{}}
	_, err := orch.Run(context.Background(), RunInput{FieldIDs: []string{"f1"}})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestRunContinuesPastFailingDocument(t *testing.T) {
	provider := &fakeProvider{failFor: map[string]bool{"doc-1": true}}
	store := &fakeStore{}
	orch := &Orchestrator{Provider: provider, Store: store}

	out, err := orch.Run(context.Background(), RunInput{
		Documents: docRefs(3),
		FieldIDs:  []string{"f1", "f2"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Attempted != 3 {
		t.Fatalf("attempted = %d, want 3", out.Attempted)
	}
	if out.Succeeded != 2 {
		t.Fatalf("succeeded = %d, want 2", out.Succeeded)
	}
	if len(provider.calls) != 3 {
		t.Fatalf("provider called %d times, want 3", len(provider.calls))
	}
	// 2 successful documents x 2 fields
	if len(store.saved) != 4 {
		t.Fatalf("saved %d results, want 4", len(store.saved))
	}
	for _, id := range store.analyzed {
		if id == "doc-1" {
			t.Fatal("failed document must not be marked analyzed")
		}
	}
}

func TestRunProgressMonotonicEndsAtHundred(t *testing.T) {
	var progress []float64
	orch := &Orchestrator{
		Provider:   &fakeProvider{failFor: map[string]bool{"doc-2": true}},
		Store:      &fakeStore{},
		OnProgress: func(p float64) { progress = append(progress, p) },
	}

	if _, err := orch.Run(context.Background(), RunInput{
		Documents: docRefs(4),
		FieldIDs:  []string{"f1"},
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(progress) != 4 {
		t.Fatalf("expected 4 progress reports, got %d", len(progress))
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] <= progress[i-1] {
			t.Fatalf("progress not strictly increasing: %v", progress)
		}
	}
	if progress[len(progress)-1] != 100 {
		t.Fatalf("final progress = %v, want 100", progress[len(progress)-1])
	}
}

func TestRunSurfacesPersistenceFailuresAsWarnings(t *testing.T) {
	store := &fakeStore{saveErrFor: map[string]bool{"doc-0": true}}
	orch := &Orchestrator{Provider: &fakeProvider{}, Store: store}

	out, err := orch.Run(context.Background(), RunInput{
		Documents: docRefs(2),
		FieldIDs:  []string{"f1"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Warnings) == 0 {
		t.Fatal("expected a persistence warning")
	}
	// The computed results are still returned even when saving failed.
	if len(out.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(out.Results))
	}
	if out.Succeeded != 2 {
		t.Fatalf("succeeded = %d, want 2 (extraction itself worked)", out.Succeeded)
	}
}

func TestRunMarkAnalyzedFailureDoesNotStopRun(t *testing.T) {
	store := &fakeStore{markErr: errors.New("update failed")}
	orch := &Orchestrator{Provider: &fakeProvider{}, Store: store}

	out, err := orch.Run(context.Background(), RunInput{
		Documents: docRefs(2),
		FieldIDs:  []string{"f1"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Succeeded != 2 {
		t.Fatalf("succeeded = %d, want 2", out.Succeeded)
	}
	if len(out.Warnings) != 2 {
		t.Fatalf("warnings = %d, want 2", len(out.Warnings))
	}
}

func TestRunStopsBetweenDocumentsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := &fakeProvider{}
	calls := 0
	wrapped := ProviderFunc(func(ctx context.Context, documentID string, fieldIDs []string) ([]FieldResult, error) {
		calls++
		if calls == 1 {
			cancel()
		}
		return provider.Invoke(ctx, documentID, fieldIDs)
	})
	orch := &Orchestrator{Provider: wrapped, Store: &fakeStore{}}

	_, err := orch.Run(ctx, RunInput{
		Documents: docRefs(3),
		FieldIDs:  []string{"f1"},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("provider called %d times after cancel, want 1", calls)
	}
}
