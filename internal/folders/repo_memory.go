package folders

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for dev mode and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	folders map[string]Folder
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{folders: make(map[string]Folder)}
}

func (r *MemoryRepo) Create(ctx context.Context, folder Folder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.folders[folder.ID] = folder
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, folderID string) (Folder, error) {
	if err := ctx.Err(); err != nil {
		return Folder{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	folder, ok := r.folders[folderID]
	if !ok || folder.UserID != userID {
		return Folder{}, ErrNotFound
	}
	return folder, nil
}

func (r *MemoryRepo) ListByProject(ctx context.Context, userID, projectID string) ([]Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Folder
	for _, folder := range r.folders {
		if folder.UserID == userID && folder.ProjectID == projectID {
			out = append(out, folder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, folder Folder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.folders[folder.ID]
	if !ok || existing.UserID != folder.UserID {
		return ErrNotFound
	}
	existing.Name = folder.Name
	existing.ParentFolderID = folder.ParentFolderID
	now := time.Now().UTC()
	existing.UpdatedAt = &now
	r.folders[folder.ID] = existing
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, folderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	folder, ok := r.folders[folderID]
	if !ok || folder.UserID != userID {
		return ErrNotFound
	}
	delete(r.folders, folderID)
	return nil
}

func (r *MemoryRepo) ReparentChildren(ctx context.Context, folderID string, newParentID *string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, folder := range r.folders {
		if folder.ParentFolderID != nil && *folder.ParentFolderID == folderID {
			folder.ParentFolderID = newParentID
			r.folders[id] = folder
		}
	}
	return nil
}

func (r *MemoryRepo) DeleteByProject(ctx context.Context, projectID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, folder := range r.folders {
		if folder.ProjectID == projectID {
			delete(r.folders, id)
		}
	}
	return nil
}

// ClaimGuest reassigns folders owned by a guest user to an
// authenticated user.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, folder := range r.folders {
		if folder.UserID == guestUserID {
			folder.UserID = authedUserID
			r.folders[id] = folder
			count++
		}
	}
	return count, nil
}

var _ Repo = (*MemoryRepo)(nil)
