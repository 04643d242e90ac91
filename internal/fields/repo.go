package fields

import "context"

// Repo defines persistence operations for extraction fields and their
// folder scopes.
type Repo interface {
	Create(ctx context.Context, field Field) error
	GetByID(ctx context.Context, userID, fieldID string) (Field, error)
	ListByProject(ctx context.Context, userID, projectID string) ([]Field, error)
	// Update replaces the stored field, including its full scope set.
	Update(ctx context.Context, field Field) error
	// Delete removes the field and its scope rows. Extraction results
	// referencing the field must already be gone.
	Delete(ctx context.Context, userID, fieldID string) error
	// DeleteScopesByFolder removes the folder from every field scope,
	// used when a folder is deleted.
	DeleteScopesByFolder(ctx context.Context, folderID string) error
	// DeleteByProject removes all fields and scope rows for a project.
	DeleteByProject(ctx context.Context, projectID string) error
}
