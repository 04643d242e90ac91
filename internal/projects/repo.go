package projects

import "context"

// Repo defines persistence operations for projects.
type Repo interface {
	Create(ctx context.Context, project Project) error
	GetByID(ctx context.Context, userID, projectID string) (Project, error)
	ListByUser(ctx context.Context, userID string) ([]Project, error)
	Update(ctx context.Context, project Project) error
	Delete(ctx context.Context, userID, projectID string) error
}
