package extraction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docvault-backend/internal/shared/metrics"
	"docvault-backend/internal/shared/telemetry"
)

// DocumentRef identifies one document in an extraction run.
type DocumentRef struct {
	ID   string
	Name string
}

// RunInput describes an extraction run: which documents to process and
// which fields to extract from each.
type RunInput struct {
	Documents []DocumentRef
	FieldIDs  []string
}

// RunOutput summarizes a finished run. Attempted counts every document in
// the run; Succeeded counts documents that produced at least one result.
// Warnings carry persistence failures that did not stop the run.
type RunOutput struct {
	Results   []Result
	Attempted int
	Succeeded int
	Warnings  []string
}

// Orchestrator runs extraction over a set of documents sequentially. A
// failing document is logged and skipped; the rest of the run continues.
type Orchestrator struct {
	Provider    Provider
	Store       ResultStore
	CallTimeout time.Duration
	// OnProgress, when set, receives completion percentages. Values are
	// strictly increasing and end at exactly 100 for a finished run.
	OnProgress func(percent float64)
}

// Run processes every document in the input. It returns ErrInvalidRequest
// before doing any work when the field or document list is empty, and the
// context error when cancelled between documents.
func (o *Orchestrator) Run(ctx context.Context, in RunInput) (RunOutput, error) {
	if len(in.FieldIDs) == 0 {
		return RunOutput{}, fmt.Errorf("%w: no fields selected", ErrInvalidRequest)
	}
	if len(in.Documents) == 0 {
		return RunOutput{}, fmt.Errorf("%w: no documents to analyze", ErrInvalidRequest)
	}

	total := len(in.Documents)
	out := RunOutput{Attempted: total}
	metrics.IncRunStarted()
	started := time.Now()
	defer func() {
		metrics.ObserveRunDurationMs(float64(time.Since(started).Microseconds()) / 1000.0)
	}()

	for i, doc := range in.Documents {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		metrics.IncDocAttempted()

		fieldResults, err := o.invoke(ctx, doc.ID, in.FieldIDs)
		if err != nil {
			metrics.IncDocFailed()
			telemetry.Error("extraction.document_failed", map[string]any{
				"document_id":   doc.ID,
				"document_name": doc.Name,
				"field_count":   len(in.FieldIDs),
				"error":         err.Error(),
			})
			o.reportProgress(i+1, total)
			continue
		}

		now := time.Now().UTC()
		saved := 0
		for _, fr := range fieldResults {
			res := Result{
				ID:                uuid.NewString(),
				DocumentID:        doc.ID,
				ExtractionFieldID: fr.ExtractionFieldID,
				ExtractedValue:    fr.ExtractedValue,
				ConfidenceScore:   fr.ConfidenceScore,
				ExtractedAt:       now,
			}
			id, err := o.Store.SaveResult(ctx, res)
			if err != nil {
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("save result document=%s field=%s: %v", doc.ID, fr.ExtractionFieldID, err))
				telemetry.Warn("extraction.save_result_failed", map[string]any{
					"document_id": doc.ID,
					"field_id":    fr.ExtractionFieldID,
					"error":       err.Error(),
				})
			} else {
				res.ID = id
				saved++
			}
			out.Results = append(out.Results, res)
		}
		metrics.AddFieldsSaved(saved)

		if err := o.Store.MarkAnalyzed(ctx, doc.ID, now); err != nil {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("mark analyzed document=%s: %v", doc.ID, err))
			telemetry.Warn("extraction.mark_analyzed_failed", map[string]any{
				"document_id": doc.ID,
				"error":       err.Error(),
			})
		}

		if len(fieldResults) > 0 {
			metrics.IncDocSucceeded()
			out.Succeeded++
		}
		o.reportProgress(i+1, total)
	}

	return out, nil
}

func (o *Orchestrator) invoke(ctx context.Context, documentID string, fieldIDs []string) ([]FieldResult, error) {
	if o.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.CallTimeout)
		defer cancel()
	}
	return o.Provider.Invoke(ctx, documentID, fieldIDs)
}

func (o *Orchestrator) reportProgress(done, total int) {
	if o.OnProgress == nil {
		return
	}
	o.OnProgress(float64(done) / float64(total) * 100)
}
