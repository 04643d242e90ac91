package folders

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const folderColumns = `id, project_id, parent_folder_id, user_id, name, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, folder Folder) error {
	const query = `
INSERT INTO folders (id, project_id, parent_folder_id, user_id, name, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	var parentID any
	if folder.ParentFolderID != nil && *folder.ParentFolderID != "" {
		parentID = *folder.ParentFolderID
	}
	_, err := r.DB.ExecContext(ctx, query,
		folder.ID,
		folder.ProjectID,
		parentID,
		folder.UserID,
		folder.Name,
		folder.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, folderID string) (Folder, error) {
	const query = `
SELECT ` + folderColumns + `
FROM folders
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return scanFolder(r.DB.QueryRowContext(ctx, query, userID, folderID))
}

func (r *PGRepo) ListByProject(ctx context.Context, userID, projectID string) ([]Folder, error) {
	const query = `
SELECT ` + folderColumns + `
FROM folders
WHERE user_id = $1 AND project_id = $2
ORDER BY name ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, folder)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, folder Folder) error {
	const query = `
UPDATE folders
SET name = $1, parent_folder_id = $2, updated_at = now()
WHERE user_id = $3 AND id = $4`
	var parentID any
	if folder.ParentFolderID != nil && *folder.ParentFolderID != "" {
		parentID = *folder.ParentFolderID
	}
	res, err := r.DB.ExecContext(ctx, query, folder.Name, parentID, folder.UserID, folder.ID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, userID, folderID string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM folders WHERE user_id = $1 AND id = $2`, userID, folderID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ReparentChildren(ctx context.Context, folderID string, newParentID *string) error {
	var parentID any
	if newParentID != nil && *newParentID != "" {
		parentID = *newParentID
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE folders SET parent_folder_id = $1 WHERE parent_folder_id = $2`, parentID, folderID)
	return err
}

func (r *PGRepo) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM folders WHERE project_id = $1`, projectID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (Folder, error) {
	var folder Folder
	var parentID sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&folder.ID,
		&folder.ProjectID,
		&parentID,
		&folder.UserID,
		&folder.Name,
		&folder.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Folder{}, ErrNotFound
		}
		return Folder{}, err
	}
	if parentID.Valid {
		folder.ParentFolderID = &parentID.String
	}
	if updatedAt.Valid {
		folder.UpdatedAt = &updatedAt.Time
	}
	return folder, nil
}

var _ Repo = (*PGRepo)(nil)
