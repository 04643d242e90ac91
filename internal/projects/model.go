package projects

import "time"

// Project is the top-level workspace owning folders, documents, and
// extraction fields.
type Project struct {
	ID          string
	UserID      string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
