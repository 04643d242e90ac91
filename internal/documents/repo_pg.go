package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const docColumns = `id, user_id, project_id, folder_id, name, file_path, file_type, file_size, last_analyzed_at, created_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, user_id, project_id, folder_id, name, file_path, file_type, file_size, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	var folderID any
	if doc.FolderID != nil && *doc.FolderID != "" {
		folderID = *doc.FolderID
	}
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.ProjectID,
		folderID,
		doc.Name,
		doc.FilePath,
		doc.FileType,
		doc.FileSize,
		doc.CreatedAt,
	)
	return err
}

// GetByID fetches a document by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	const query = `
SELECT ` + docColumns + `
FROM documents
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return scanDoc(r.DB.QueryRowContext(ctx, query, userID, documentID))
}

// ListByProject lists every document in a project newest-first.
func (r *PGRepo) ListByProject(ctx context.Context, userID, projectID string) ([]Document, error) {
	const query = `
SELECT ` + docColumns + `
FROM documents
WHERE user_id = $1 AND project_id = $2
ORDER BY created_at DESC`
	return r.queryDocs(ctx, query, userID, projectID)
}

// ListByFolder lists the documents directly inside a folder, or the root
// documents when folderID is empty.
func (r *PGRepo) ListByFolder(ctx context.Context, userID, projectID, folderID string) ([]Document, error) {
	if folderID == "" {
		const query = `
SELECT ` + docColumns + `
FROM documents
WHERE user_id = $1 AND project_id = $2 AND folder_id IS NULL
ORDER BY created_at DESC`
		return r.queryDocs(ctx, query, userID, projectID)
	}
	const query = `
SELECT ` + docColumns + `
FROM documents
WHERE user_id = $1 AND project_id = $2 AND folder_id = $3
ORDER BY created_at DESC`
	return r.queryDocs(ctx, query, userID, projectID, folderID)
}

// Update persists a rename or a move between folders.
func (r *PGRepo) Update(ctx context.Context, doc Document) error {
	const query = `
UPDATE documents
SET name = $1, folder_id = $2
WHERE user_id = $3 AND id = $4`
	var folderID any
	if doc.FolderID != nil && *doc.FolderID != "" {
		folderID = *doc.FolderID
	}
	res, err := r.DB.ExecContext(ctx, query, doc.Name, folderID, doc.UserID, doc.ID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the document row.
func (r *PGRepo) Delete(ctx context.Context, userID, documentID string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM documents WHERE user_id = $1 AND id = $2`, userID, documentID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAnalyzed records the last successful extraction time. Overwriting an
// earlier timestamp is fine; the column tracks the most recent run.
func (r *PGRepo) MarkAnalyzed(ctx context.Context, documentID string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE documents SET last_analyzed_at = $1 WHERE id = $2`, at, documentID)
	return err
}

// MoveFolderDocumentsToRoot detaches all documents from a folder.
func (r *PGRepo) MoveFolderDocumentsToRoot(ctx context.Context, folderID string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE documents SET folder_id = NULL WHERE folder_id = $1`, folderID)
	return err
}

func (r *PGRepo) queryDocs(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoc(row rowScanner) (Document, error) {
	var doc Document
	var folderID sql.NullString
	var lastAnalyzedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.ProjectID,
		&folderID,
		&doc.Name,
		&doc.FilePath,
		&doc.FileType,
		&doc.FileSize,
		&lastAnalyzedAt,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if folderID.Valid {
		doc.FolderID = &folderID.String
	}
	if lastAnalyzedAt.Valid {
		doc.LastAnalyzedAt = &lastAnalyzedAt.Time
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
