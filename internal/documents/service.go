package documents

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault-backend/internal/shared/storage/object"
	"docvault-backend/internal/shared/telemetry"
)

// ResultsPurger removes persisted extraction results for a document.
// Results reference documents, so they go first on delete.
type ResultsPurger interface {
	DeleteByDocument(ctx context.Context, documentID string) error
}

// StorageQuota reserves and releases storage bytes for a user.
type StorageQuota interface {
	Reserve(ctx context.Context, userID string, n int64) error
	Release(ctx context.Context, userID string, n int64) error
}

// Service contains business logic for documents.
type Service struct {
	Store   object.ObjectStore
	Repo    Repo
	Results ResultsPurger
	Quota   StorageQuota
}

// Upload saves the file to object storage and records the document.
func (s *Service) Upload(ctx context.Context, userID, projectID, folderID, fileName string, r io.Reader) (Document, error) {
	if strings.TrimSpace(fileName) == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(projectID) == "" {
		return Document{}, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Document{}, err
	}

	if s.Quota != nil {
		if err := s.Quota.Reserve(ctx, userID, size); err != nil {
			if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
				telemetry.Warn("documents.orphan_object", map[string]any{
					"storage_key": storageKey,
					"error":       delErr.Error(),
				})
			}
			return Document{}, err
		}
	}

	doc := Document{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProjectID: projectID,
		Name:      fileName,
		FilePath:  storageKey,
		FileType:  mimeType,
		FileSize:  size,
		CreatedAt: time.Now().UTC(),
	}
	if folderID = strings.TrimSpace(folderID); folderID != "" {
		doc.FolderID = &folderID
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Get returns a single document.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if strings.TrimSpace(documentID) == "" {
		return Document{}, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// ListByProject lists every document in a project.
func (s *Service) ListByProject(ctx context.Context, userID, projectID string) ([]Document, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	return s.Repo.ListByProject(ctx, userID, projectID)
}

// ListByFolder lists the documents directly inside a folder, or the
// project root documents when folderID is empty.
func (s *Service) ListByFolder(ctx context.Context, userID, projectID, folderID string) ([]Document, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	return s.Repo.ListByFolder(ctx, userID, projectID, folderID)
}

// Rename changes the display name of a document.
func (s *Service) Rename(ctx context.Context, userID, documentID, name string) (Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Document{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return Document{}, err
	}
	doc.Name = name
	if err := s.Repo.Update(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Move places the document in a folder, or at the root when folderID is
// empty.
func (s *Service) Move(ctx context.Context, userID, documentID, folderID string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return Document{}, err
	}
	if folderID = strings.TrimSpace(folderID); folderID == "" {
		doc.FolderID = nil
	} else {
		doc.FolderID = &folderID
	}
	if err := s.Repo.Update(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Delete removes the document. Extraction results go first, then the row,
// then the stored object. A failed object delete is logged but does not
// fail the request; the row is already gone.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return err
	}
	if s.Results != nil {
		if err := s.Results.DeleteByDocument(ctx, doc.ID); err != nil {
			return fmt.Errorf("purge results for document %s: %w", doc.ID, err)
		}
	}
	if err := s.Repo.Delete(ctx, userID, doc.ID); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.FilePath); err != nil {
		telemetry.Warn("documents.object_delete_failed", map[string]any{
			"document_id": doc.ID,
			"storage_key": doc.FilePath,
			"error":       err.Error(),
		})
	}
	if s.Quota != nil {
		if err := s.Quota.Release(ctx, userID, doc.FileSize); err != nil {
			telemetry.Warn("documents.quota_release_failed", map[string]any{
				"document_id": doc.ID,
				"user_id":     userID,
				"error":       err.Error(),
			})
		}
	}
	return nil
}

// DownloadURL mints a short-lived URL when the store supports signing.
func (s *Service) DownloadURL(ctx context.Context, userID, documentID string, expiry time.Duration) (string, error) {
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return "", err
	}
	signer, ok := s.Store.(object.URLSigner)
	if !ok {
		return "", fmt.Errorf("%w: object store does not support signed URLs", ErrInvalidInput)
	}
	return signer.SignedURL(ctx, doc.FilePath, expiry)
}
