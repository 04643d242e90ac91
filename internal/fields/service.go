package fields

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault-backend/internal/shared/telemetry"
)

// ResultsPurger removes persisted extraction results for a field. Results
// reference fields, so they go first when a field is deleted.
type ResultsPurger interface {
	DeleteByField(ctx context.Context, fieldID string) error
}

// Service contains business logic for extraction fields.
type Service struct {
	Repo    Repo
	Results ResultsPurger
}

// CreateInput carries the attributes for a new field.
type CreateInput struct {
	ProjectID   string
	Name        string
	DataType    string
	Description string
	FolderIDs   []string
}

// Create validates and persists a new extraction field.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Field, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(in.ProjectID) == "" {
		return Field{}, fmt.Errorf("%w: user and project are required", ErrInvalidInput)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Field{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	dataType, err := ParseDataType(in.DataType)
	if err != nil {
		return Field{}, err
	}

	field := Field{
		ID:          uuid.NewString(),
		ProjectID:   in.ProjectID,
		UserID:      userID,
		Name:        name,
		DataType:    dataType,
		Description: strings.TrimSpace(in.Description),
		Scope:       ScopedTo(in.FolderIDs),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, field); err != nil {
		return Field{}, err
	}
	return field, nil
}

// UpdateInput carries the replacement attributes for a field. FolderIDs
// replaces the entire scope set; an empty list makes the field global.
type UpdateInput struct {
	Name        string
	DataType    string
	Description string
	FolderIDs   []string
}

// Update replaces a field's attributes and scope.
func (s *Service) Update(ctx context.Context, userID, fieldID string, in UpdateInput) (Field, error) {
	existing, err := s.Repo.GetByID(ctx, userID, fieldID)
	if err != nil {
		return Field{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Field{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	dataType, err := ParseDataType(in.DataType)
	if err != nil {
		return Field{}, err
	}

	existing.Name = name
	existing.DataType = dataType
	existing.Description = strings.TrimSpace(in.Description)
	existing.Scope = ScopedTo(in.FolderIDs)
	if err := s.Repo.Update(ctx, existing); err != nil {
		return Field{}, err
	}
	return s.Repo.GetByID(ctx, userID, fieldID)
}

// Get returns a single field.
func (s *Service) Get(ctx context.Context, userID, fieldID string) (Field, error) {
	if strings.TrimSpace(fieldID) == "" {
		return Field{}, fmt.Errorf("%w: field id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, fieldID)
}

// List returns the project's fields name-ascending.
func (s *Service) List(ctx context.Context, userID, projectID string) ([]Field, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	return s.Repo.ListByProject(ctx, userID, projectID)
}

// ListApplicable returns the project's fields that apply in the given
// context, in the stored list order.
func (s *Service) ListApplicable(ctx context.Context, userID, projectID string, target Context) ([]Field, error) {
	all, err := s.List(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return ResolveApplicable(all, target), nil
}

// Delete removes a field. Results referencing it are purged first, then
// the field and its scope rows.
func (s *Service) Delete(ctx context.Context, userID, fieldID string) error {
	field, err := s.Repo.GetByID(ctx, userID, fieldID)
	if err != nil {
		return err
	}
	if s.Results != nil {
		if err := s.Results.DeleteByField(ctx, field.ID); err != nil {
			return fmt.Errorf("purge results for field %s: %w", field.ID, err)
		}
	}
	if err := s.Repo.Delete(ctx, userID, field.ID); err != nil {
		return err
	}
	telemetry.Info("fields.deleted", map[string]any{
		"field_id":   field.ID,
		"project_id": field.ProjectID,
		"user_id":    userID,
	})
	return nil
}
