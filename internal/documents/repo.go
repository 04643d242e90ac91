package documents

import (
	"context"
	"time"
)

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	ListByProject(ctx context.Context, userID, projectID string) ([]Document, error)
	// ListByFolder returns the documents directly inside a folder, or the
	// project root documents when folderID is empty.
	ListByFolder(ctx context.Context, userID, projectID, folderID string) ([]Document, error)
	// Update persists a rename or a move between folders.
	Update(ctx context.Context, doc Document) error
	Delete(ctx context.Context, userID, documentID string) error
	// MarkAnalyzed records the time of the last successful extraction.
	MarkAnalyzed(ctx context.Context, documentID string, at time.Time) error
	// MoveFolderDocumentsToRoot detaches all documents from a folder.
	MoveFolderDocumentsToRoot(ctx context.Context, folderID string) error
}
