package folders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault-backend/internal/shared/telemetry"
)

// DocumentsMover detaches a deleted folder's documents so they land at
// the project root instead of dangling.
type DocumentsMover interface {
	MoveFolderDocumentsToRoot(ctx context.Context, folderID string) error
}

// ScopePurger drops a deleted folder from every field scope.
type ScopePurger interface {
	DeleteScopesByFolder(ctx context.Context, folderID string) error
}

// Service contains business logic for folders.
type Service struct {
	Repo      Repo
	Documents DocumentsMover
	Scopes    ScopePurger
}

// Create validates and persists a new folder.
func (s *Service) Create(ctx context.Context, userID, projectID, parentFolderID, name string) (Folder, error) {
	if strings.TrimSpace(projectID) == "" {
		return Folder{}, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	folder := Folder{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if parentFolderID = strings.TrimSpace(parentFolderID); parentFolderID != "" {
		parent, err := s.Repo.GetByID(ctx, userID, parentFolderID)
		if err != nil {
			return Folder{}, err
		}
		if parent.ProjectID != projectID {
			return Folder{}, fmt.Errorf("%w: parent folder belongs to a different project", ErrInvalidInput)
		}
		folder.ParentFolderID = &parent.ID
	}

	if err := s.Repo.Create(ctx, folder); err != nil {
		return Folder{}, err
	}
	return folder, nil
}

// Get returns a single folder.
func (s *Service) Get(ctx context.Context, userID, folderID string) (Folder, error) {
	if strings.TrimSpace(folderID) == "" {
		return Folder{}, fmt.Errorf("%w: folder id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, folderID)
}

// List returns the project's folders name-ascending.
func (s *Service) List(ctx context.Context, userID, projectID string) ([]Folder, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	return s.Repo.ListByProject(ctx, userID, projectID)
}

// Rename changes the folder's display name.
func (s *Service) Rename(ctx context.Context, userID, folderID, name string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	folder, err := s.Repo.GetByID(ctx, userID, folderID)
	if err != nil {
		return Folder{}, err
	}
	folder.Name = name
	if err := s.Repo.Update(ctx, folder); err != nil {
		return Folder{}, err
	}
	return s.Repo.GetByID(ctx, userID, folderID)
}

// Delete removes a folder. Contained documents move to the project root,
// field scopes referencing the folder are dropped, and child folders are
// reparented under the deleted folder's parent.
func (s *Service) Delete(ctx context.Context, userID, folderID string) error {
	folder, err := s.Repo.GetByID(ctx, userID, folderID)
	if err != nil {
		return err
	}
	if s.Documents != nil {
		if err := s.Documents.MoveFolderDocumentsToRoot(ctx, folder.ID); err != nil {
			return fmt.Errorf("detach documents from folder %s: %w", folder.ID, err)
		}
	}
	if s.Scopes != nil {
		if err := s.Scopes.DeleteScopesByFolder(ctx, folder.ID); err != nil {
			return fmt.Errorf("purge field scopes for folder %s: %w", folder.ID, err)
		}
	}
	if err := s.Repo.ReparentChildren(ctx, folder.ID, folder.ParentFolderID); err != nil {
		return fmt.Errorf("reparent children of folder %s: %w", folder.ID, err)
	}
	if err := s.Repo.Delete(ctx, userID, folder.ID); err != nil {
		return err
	}
	telemetry.Info("folders.deleted", map[string]any{
		"folder_id":  folder.ID,
		"project_id": folder.ProjectID,
		"user_id":    userID,
	})
	return nil
}
