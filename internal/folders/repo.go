package folders

import "context"

// Repo defines persistence operations for folders.
type Repo interface {
	Create(ctx context.Context, folder Folder) error
	GetByID(ctx context.Context, userID, folderID string) (Folder, error)
	ListByProject(ctx context.Context, userID, projectID string) ([]Folder, error)
	Update(ctx context.Context, folder Folder) error
	Delete(ctx context.Context, userID, folderID string) error
	// ReparentChildren moves a deleted folder's children under its parent.
	ReparentChildren(ctx context.Context, folderID string, newParentID *string) error
	DeleteByProject(ctx context.Context, projectID string) error
}
