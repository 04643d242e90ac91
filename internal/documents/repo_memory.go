package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for dev mode and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[documentID]
	if !ok || doc.UserID != userID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (r *MemoryRepo) ListByProject(ctx context.Context, userID, projectID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Document
	for _, doc := range r.docs {
		if doc.UserID == userID && doc.ProjectID == projectID {
			out = append(out, doc)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) ListByFolder(ctx context.Context, userID, projectID, folderID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Document
	for _, doc := range r.docs {
		if doc.UserID != userID || doc.ProjectID != projectID {
			continue
		}
		if folderID == "" {
			if doc.FolderID == nil {
				out = append(out, doc)
			}
			continue
		}
		if doc.FolderID != nil && *doc.FolderID == folderID {
			out = append(out, doc)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.docs[doc.ID]
	if !ok || existing.UserID != doc.UserID {
		return ErrNotFound
	}
	existing.Name = doc.Name
	existing.FolderID = doc.FolderID
	r.docs[doc.ID] = existing
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[documentID]
	if !ok || doc.UserID != userID {
		return ErrNotFound
	}
	delete(r.docs, documentID)
	return nil
}

func (r *MemoryRepo) MarkAnalyzed(ctx context.Context, documentID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return ErrNotFound
	}
	ts := at
	doc.LastAnalyzedAt = &ts
	r.docs[documentID] = doc
	return nil
}

func (r *MemoryRepo) MoveFolderDocumentsToRoot(ctx context.Context, folderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, doc := range r.docs {
		if doc.FolderID != nil && *doc.FolderID == folderID {
			doc.FolderID = nil
			r.docs[id] = doc
		}
	}
	return nil
}

// ClaimGuest reassigns documents owned by a guest user to an
// authenticated user.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, doc := range r.docs {
		if doc.UserID == guestUserID {
			doc.UserID = authedUserID
			r.docs[id] = doc
			count++
		}
	}
	return count, nil
}

func sortNewestFirst(docs []Document) {
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
}

var _ Repo = (*MemoryRepo)(nil)
