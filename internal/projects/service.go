package projects

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault-backend/internal/documents"
	"docvault-backend/internal/shared/telemetry"
)

// DocumentsDeleter deletes a document end to end: results, row, and the
// stored object.
type DocumentsDeleter interface {
	ListByProject(ctx context.Context, userID, projectID string) ([]documents.Document, error)
	Delete(ctx context.Context, userID, documentID string) error
}

// FieldsPurger removes a project's fields together with their scope rows.
type FieldsPurger interface {
	DeleteByProject(ctx context.Context, projectID string) error
}

// FoldersPurger removes a project's folders.
type FoldersPurger interface {
	DeleteByProject(ctx context.Context, projectID string) error
}

// Service contains business logic for projects.
type Service struct {
	Repo      Repo
	Documents DocumentsDeleter
	Fields    FieldsPurger
	Folders   FoldersPurger
}

// Create validates and persists a new project.
func (s *Service) Create(ctx context.Context, userID, name, description string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	project := Project{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Get returns a single project.
func (s *Service) Get(ctx context.Context, userID, projectID string) (Project, error) {
	if strings.TrimSpace(projectID) == "" {
		return Project{}, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, projectID)
}

// List returns the user's projects newest-first.
func (s *Service) List(ctx context.Context, userID string) ([]Project, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Update replaces the project's name and description.
func (s *Service) Update(ctx context.Context, userID, projectID, name, description string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	project, err := s.Repo.GetByID(ctx, userID, projectID)
	if err != nil {
		return Project{}, err
	}
	project.Name = name
	project.Description = strings.TrimSpace(description)
	if err := s.Repo.Update(ctx, project); err != nil {
		return Project{}, err
	}
	return s.Repo.GetByID(ctx, userID, projectID)
}

// Delete removes a project and everything under it. Order matters:
// documents first so their results and stored objects are released, then
// fields with their scope rows, then folders, then the project itself.
func (s *Service) Delete(ctx context.Context, userID, projectID string) error {
	project, err := s.Repo.GetByID(ctx, userID, projectID)
	if err != nil {
		return err
	}

	if s.Documents != nil {
		docs, err := s.Documents.ListByProject(ctx, userID, project.ID)
		if err != nil {
			return fmt.Errorf("list documents for project %s: %w", project.ID, err)
		}
		for _, doc := range docs {
			if err := s.Documents.Delete(ctx, userID, doc.ID); err != nil {
				return fmt.Errorf("delete document %s: %w", doc.ID, err)
			}
		}
	}
	if s.Fields != nil {
		if err := s.Fields.DeleteByProject(ctx, project.ID); err != nil {
			return fmt.Errorf("delete fields for project %s: %w", project.ID, err)
		}
	}
	if s.Folders != nil {
		if err := s.Folders.DeleteByProject(ctx, project.ID); err != nil {
			return fmt.Errorf("delete folders for project %s: %w", project.ID, err)
		}
	}
	if err := s.Repo.Delete(ctx, userID, project.ID); err != nil {
		return err
	}
	telemetry.Info("projects.deleted", map[string]any{
		"project_id": project.ID,
		"user_id":    userID,
	})
	return nil
}
