package folders

import "time"

// Folder is a named grouping of documents inside a project. Folders can
// nest via ParentFolderID; nil means the folder sits at the project root.
type Folder struct {
	ID             string
	ProjectID      string
	ParentFolderID *string
	UserID         string
	Name           string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
