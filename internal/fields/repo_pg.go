package fields

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts the field and its scope rows in one transaction.
func (r *PGRepo) Create(ctx context.Context, field Field) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const query = `
INSERT INTO extraction_fields (id, project_id, user_id, name, data_type, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err = tx.ExecContext(ctx, query,
		field.ID,
		field.ProjectID,
		field.UserID,
		field.Name,
		string(field.DataType),
		nullableString(field.Description),
		field.CreatedAt,
	); err != nil {
		return err
	}

	if err = insertScopes(ctx, tx, field.ID, field.Scope); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID fetches a field with its resolved scope.
func (r *PGRepo) GetByID(ctx context.Context, userID, fieldID string) (Field, error) {
	const query = `
SELECT id, project_id, user_id, name, data_type, description, created_at, updated_at
FROM extraction_fields
WHERE user_id = $1 AND id = $2
LIMIT 1`
	field, err := scanField(r.DB.QueryRowContext(ctx, query, userID, fieldID))
	if err != nil {
		return Field{}, err
	}
	scopes, err := r.loadScopes(ctx, []string{field.ID})
	if err != nil {
		return Field{}, err
	}
	field.Scope = ScopedTo(scopes[field.ID])
	return field, nil
}

// ListByProject returns the project's fields name-ascending with scopes
// resolved.
func (r *PGRepo) ListByProject(ctx context.Context, userID, projectID string) ([]Field, error) {
	const query = `
SELECT id, project_id, user_id, name, data_type, description, created_at, updated_at
FROM extraction_fields
WHERE user_id = $1 AND project_id = $2
ORDER BY name ASC, created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Field
	var ids []string
	for rows.Next() {
		field, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, field)
		ids = append(ids, field.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	scopes, err := r.loadScopes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Scope = ScopedTo(scopes[out[i].ID])
	}
	return out, nil
}

// Update rewrites the field row and replaces the scope set by deleting
// every scope row and reinserting the new ones.
func (r *PGRepo) Update(ctx context.Context, field Field) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const query = `
UPDATE extraction_fields
SET name = $1, data_type = $2, description = $3, updated_at = now()
WHERE user_id = $4 AND id = $5`
	res, err := tx.ExecContext(ctx, query,
		field.Name,
		string(field.DataType),
		nullableString(field.Description),
		field.UserID,
		field.ID,
	)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		err = ErrNotFound
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM extraction_field_folders WHERE extraction_field_id = $1`, field.ID); err != nil {
		return err
	}
	if err = insertScopes(ctx, tx, field.ID, field.Scope); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes the field and its scope rows in one transaction.
func (r *PGRepo) Delete(ctx context.Context, userID, fieldID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM extraction_field_folders WHERE extraction_field_id = $1`, fieldID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM extraction_fields WHERE user_id = $1 AND id = $2`, userID, fieldID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		err = ErrNotFound
		return err
	}

	return tx.Commit()
}

// DeleteScopesByFolder drops the folder from every field scope.
func (r *PGRepo) DeleteScopesByFolder(ctx context.Context, folderID string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM extraction_field_folders WHERE folder_id = $1`, folderID)
	return err
}

// DeleteByProject removes all fields and scope rows for a project.
func (r *PGRepo) DeleteByProject(ctx context.Context, projectID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
DELETE FROM extraction_field_folders
WHERE extraction_field_id IN (SELECT id FROM extraction_fields WHERE project_id = $1)`, projectID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM extraction_fields WHERE project_id = $1`, projectID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepo) loadScopes(ctx context.Context, fieldIDs []string) (map[string][]string, error) {
	const query = `
SELECT extraction_field_id, folder_id
FROM extraction_field_folders
WHERE extraction_field_id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, fieldIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var fieldID, folderID string
		if err := rows.Scan(&fieldID, &folderID); err != nil {
			return nil, err
		}
		out[fieldID] = append(out[fieldID], folderID)
	}
	return out, rows.Err()
}

func insertScopes(ctx context.Context, tx *sql.Tx, fieldID string, scope Scope) error {
	for _, folderID := range scope.FolderIDs() {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO extraction_field_folders (extraction_field_id, folder_id)
VALUES ($1, $2)`, fieldID, folderID); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanField(row rowScanner) (Field, error) {
	var field Field
	var dataType string
	var description sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&field.ID,
		&field.ProjectID,
		&field.UserID,
		&field.Name,
		&dataType,
		&description,
		&field.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Field{}, ErrNotFound
		}
		return Field{}, err
	}
	field.DataType = DataType(dataType)
	if description.Valid {
		field.Description = description.String
	}
	if updatedAt.Valid {
		field.UpdatedAt = &updatedAt.Time
	}
	return field, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
