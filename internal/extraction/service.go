package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault-backend/internal/documents"
	"docvault-backend/internal/extract"
	"docvault-backend/internal/fields"
	"docvault-backend/internal/folders"
	"docvault-backend/internal/llm"
	"docvault-backend/internal/queue"
	"docvault-backend/internal/shared/storage/object"
	"docvault-backend/internal/shared/telemetry"
)

// ErrJobQueueNotConfigured is returned by async endpoints when no queue
// backend is wired.
var ErrJobQueueNotConfigured = fmt.Errorf("job queue not configured")

// Service contains business logic for extraction runs and result views.
type Service struct {
	Store       ResultStore
	Fields      fields.Repo
	Docs        documents.Repo
	Folders     folders.Repo
	Objects     object.ObjectStore
	LLM         llm.Client
	JobQueue    queue.Client
	CallTimeout time.Duration
}

// ExtractDocument runs extraction for the selected fields over a single
// document. Every requested field must be applicable at the document's
// location.
func (s *Service) ExtractDocument(ctx context.Context, userID, documentID string, fieldIDs []string, onProgress func(float64)) (RunOutput, error) {
	doc, err := s.Docs.GetByID(ctx, userID, documentID)
	if err != nil {
		return RunOutput{}, err
	}

	target := fields.RootContext()
	if doc.FolderID != nil {
		target = fields.FolderContext(*doc.FolderID)
	}
	selected, err := s.selectFields(ctx, userID, doc.ProjectID, target, fieldIDs)
	if err != nil {
		return RunOutput{}, err
	}

	orch := &Orchestrator{
		Provider:    s.provider(userID, selected),
		Store:       s.Store,
		CallTimeout: s.CallTimeout,
		OnProgress:  onProgress,
	}
	return orch.Run(ctx, RunInput{
		Documents: []DocumentRef{{ID: doc.ID, Name: doc.Name}},
		FieldIDs:  fieldIDs,
	})
}

// ExtractFolder runs extraction for the selected fields over every
// document directly inside a folder, one document at a time.
func (s *Service) ExtractFolder(ctx context.Context, userID, folderID string, fieldIDs []string, onProgress func(float64)) (RunOutput, error) {
	folder, err := s.Folders.GetByID(ctx, userID, folderID)
	if err != nil {
		return RunOutput{}, err
	}

	selected, err := s.selectFields(ctx, userID, folder.ProjectID, fields.FolderContext(folder.ID), fieldIDs)
	if err != nil {
		return RunOutput{}, err
	}

	docs, err := s.Docs.ListByFolder(ctx, userID, folder.ProjectID, folder.ID)
	if err != nil {
		return RunOutput{}, err
	}
	refs := make([]DocumentRef, 0, len(docs))
	for _, doc := range docs {
		refs = append(refs, DocumentRef{ID: doc.ID, Name: doc.Name})
	}

	orch := &Orchestrator{
		Provider:    s.provider(userID, selected),
		Store:       s.Store,
		CallTimeout: s.CallTimeout,
		OnProgress:  onProgress,
	}
	return orch.Run(ctx, RunInput{Documents: refs, FieldIDs: fieldIDs})
}

// selectFields validates the requested field IDs against the fields
// applicable at the target location.
func (s *Service) selectFields(ctx context.Context, userID, projectID string, target fields.Context, fieldIDs []string) (map[string]fields.Field, error) {
	if len(fieldIDs) == 0 {
		return nil, fmt.Errorf("%w: no fields selected", ErrInvalidRequest)
	}
	all, err := s.Fields.ListByProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	applicable := make(map[string]fields.Field)
	for _, f := range fields.ResolveApplicable(all, target) {
		applicable[f.ID] = f
	}

	selected := make(map[string]fields.Field, len(fieldIDs))
	for _, id := range fieldIDs {
		f, ok := applicable[id]
		if !ok {
			return nil, fmt.Errorf("%w: field %s does not apply here", ErrInvalidRequest, id)
		}
		selected[id] = f
	}
	return selected, nil
}

// provider builds the per-run extraction backend: load the document, pull
// its text, and ask the LLM for every requested field in one call.
func (s *Service) provider(userID string, selected map[string]fields.Field) Provider {
	return ProviderFunc(func(ctx context.Context, documentID string, fieldIDs []string) ([]FieldResult, error) {
		doc, err := s.Docs.GetByID(ctx, userID, documentID)
		if err != nil {
			return nil, err
		}

		text, err := extract.Text(ctx, s.Objects, doc.FilePath, doc.FileType, doc.Name)
		if err != nil {
			return nil, err
		}

		specs := make([]llm.FieldSpec, 0, len(fieldIDs))
		for _, id := range fieldIDs {
			f, ok := selected[id]
			if !ok {
				return nil, fmt.Errorf("%w: field %s not selected", ErrInvalidRequest, id)
			}
			specs = append(specs, llm.FieldSpec{
				ID:          f.ID,
				Name:        f.Name,
				DataType:    string(f.DataType),
				Description: f.Description,
			})
		}

		answers, err := s.LLM.ExtractFields(ctx, llm.ExtractInput{
			DocumentName: doc.Name,
			DocumentText: text,
			Fields:       specs,
		})
		if err != nil {
			return nil, err
		}

		out := make([]FieldResult, 0, len(answers))
		for _, a := range answers {
			out = append(out, FieldResult{
				ExtractionFieldID: a.FieldID,
				ExtractedValue:    a.Value,
				ConfidenceScore:   clampConfidence(a.Confidence),
			})
		}
		return out, nil
	})
}

func clampConfidence(score *float64) *float64 {
	if score == nil {
		return nil
	}
	v := *score
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}

// EnqueueFolder hands a folder run to the background worker.
func (s *Service) EnqueueFolder(ctx context.Context, userID, folderID string, fieldIDs []string, requestID string) (string, error) {
	if s.JobQueue == nil {
		return "", ErrJobQueueNotConfigured
	}
	if len(fieldIDs) == 0 {
		return "", fmt.Errorf("%w: no fields selected", ErrInvalidRequest)
	}
	folder, err := s.Folders.GetByID(ctx, userID, folderID)
	if err != nil {
		return "", err
	}

	runID := uuid.NewString()
	msg := queue.Message{
		RunID:      runID,
		UserID:     userID,
		ProjectID:  folder.ProjectID,
		FolderID:   folder.ID,
		FieldIDs:   fieldIDs,
		RequestID:  requestID,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    1,
	}
	if err := s.JobQueue.Send(ctx, msg); err != nil {
		return "", err
	}
	telemetry.Info("extraction.enqueued", map[string]any{
		"run_id":     runID,
		"folder_id":  folder.ID,
		"project_id": folder.ProjectID,
		"user_id":    userID,
		"request_id": requestID,
	})
	return runID, nil
}

// ProcessMessage executes a queued extraction run.
func (s *Service) ProcessMessage(ctx context.Context, msg queue.Message) error {
	switch {
	case strings.TrimSpace(msg.FolderID) != "":
		_, err := s.ExtractFolder(ctx, msg.UserID, msg.FolderID, msg.FieldIDs, nil)
		return err
	case strings.TrimSpace(msg.DocumentID) != "":
		_, err := s.ExtractDocument(ctx, msg.UserID, msg.DocumentID, msg.FieldIDs, nil)
		return err
	default:
		return fmt.Errorf("%w: message names neither document nor folder", ErrInvalidRequest)
	}
}

// DocumentResults returns the display rows for one document.
func (s *Service) DocumentResults(ctx context.Context, userID, documentID string) ([]Row, error) {
	doc, err := s.Docs.GetByID(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	results, err := s.Store.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	info, err := s.fieldInfo(ctx, userID, doc.ProjectID)
	if err != nil {
		return nil, err
	}
	return Aggregate(results, info, nil), nil
}

// FolderResults returns the display rows and confidence summary for every
// document inside a folder.
func (s *Service) FolderResults(ctx context.Context, userID, folderID string) ([]Row, Summary, error) {
	folder, err := s.Folders.GetByID(ctx, userID, folderID)
	if err != nil {
		return nil, Summary{}, err
	}
	docs, err := s.Docs.ListByFolder(ctx, userID, folder.ProjectID, folder.ID)
	if err != nil {
		return nil, Summary{}, err
	}

	docIDs := make([]string, 0, len(docs))
	docNames := make(map[string]string, len(docs))
	for _, doc := range docs {
		docIDs = append(docIDs, doc.ID)
		docNames[doc.ID] = doc.Name
	}

	results, err := s.Store.ListByDocuments(ctx, docIDs)
	if err != nil {
		return nil, Summary{}, err
	}
	info, err := s.fieldInfo(ctx, userID, folder.ProjectID)
	if err != nil {
		return nil, Summary{}, err
	}

	rows := Aggregate(results, info, docNames)
	return rows, Summarize(rows), nil
}

func (s *Service) fieldInfo(ctx context.Context, userID, projectID string) (map[string]FieldInfo, error) {
	all, err := s.Fields.ListByProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	info := make(map[string]FieldInfo, len(all))
	for _, f := range all {
		info[f.ID] = FieldInfo{Name: f.Name, DataType: string(f.DataType)}
	}
	return info, nil
}
