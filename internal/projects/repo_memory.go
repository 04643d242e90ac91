package projects

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for dev mode and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	projects map[string]Project
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{projects: make(map[string]Project)}
}

func (r *MemoryRepo) Create(ctx context.Context, project Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = project
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, projectID string) (Project, error) {
	if err := ctx.Err(); err != nil {
		return Project{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.projects[projectID]
	if !ok || project.UserID != userID {
		return Project{}, ErrNotFound
	}
	return project, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Project
	for _, project := range r.projects {
		if project.UserID == userID {
			out = append(out, project)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, project Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.projects[project.ID]
	if !ok || existing.UserID != project.UserID {
		return ErrNotFound
	}
	existing.Name = project.Name
	existing.Description = project.Description
	now := time.Now().UTC()
	existing.UpdatedAt = &now
	r.projects[project.ID] = existing
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, projectID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[projectID]
	if !ok || project.UserID != userID {
		return ErrNotFound
	}
	delete(r.projects, projectID)
	return nil
}

// ClaimGuest reassigns projects owned by a guest user to an
// authenticated user.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, project := range r.projects {
		if project.UserID == guestUserID {
			project.UserID = authedUserID
			r.projects[id] = project
			count++
		}
	}
	return count, nil
}

var _ Repo = (*MemoryRepo)(nil)
