package documents

import "time"

// Document represents an uploaded file inside a project. FolderID is nil
// for documents that live at the project root.
type Document struct {
	ID             string
	UserID         string
	ProjectID      string
	FolderID       *string
	Name           string
	FilePath       string
	FileType       string
	FileSize       int64
	LastAnalyzedAt *time.Time
	CreatedAt      time.Time
}
