package fields

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for dev mode and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	fields map[string]Field
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{fields: make(map[string]Field)}
}

func (r *MemoryRepo) Create(ctx context.Context, field Field) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields[field.ID] = field
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, fieldID string) (Field, error) {
	if err := ctx.Err(); err != nil {
		return Field{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	field, ok := r.fields[fieldID]
	if !ok || field.UserID != userID {
		return Field{}, ErrNotFound
	}
	return field, nil
}

func (r *MemoryRepo) ListByProject(ctx context.Context, userID, projectID string) ([]Field, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Field
	for _, field := range r.fields {
		if field.UserID == userID && field.ProjectID == projectID {
			out = append(out, field)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, field Field) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.fields[field.ID]
	if !ok || existing.UserID != field.UserID {
		return ErrNotFound
	}
	field.CreatedAt = existing.CreatedAt
	now := time.Now().UTC()
	field.UpdatedAt = &now
	r.fields[field.ID] = field
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, fieldID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	field, ok := r.fields[fieldID]
	if !ok || field.UserID != userID {
		return ErrNotFound
	}
	delete(r.fields, fieldID)
	return nil
}

func (r *MemoryRepo) DeleteScopesByFolder(ctx context.Context, folderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, field := range r.fields {
		if !field.Scope.Contains(folderID) {
			continue
		}
		var remaining []string
		for _, fid := range field.Scope.FolderIDs() {
			if fid != folderID {
				remaining = append(remaining, fid)
			}
		}
		field.Scope = ScopedTo(remaining)
		r.fields[id] = field
	}
	return nil
}

func (r *MemoryRepo) DeleteByProject(ctx context.Context, projectID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, field := range r.fields {
		if field.ProjectID == projectID {
			delete(r.fields, id)
		}
	}
	return nil
}

// ClaimGuest reassigns fields owned by a guest user to an
// authenticated user.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, field := range r.fields {
		if field.UserID == guestUserID {
			field.UserID = authedUserID
			r.fields[id] = field
			count++
		}
	}
	return count, nil
}

var _ Repo = (*MemoryRepo)(nil)
