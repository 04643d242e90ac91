package projects

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const projectColumns = `id, user_id, name, description, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, project Project) error {
	const query = `
INSERT INTO projects (id, user_id, name, description, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query,
		project.ID,
		project.UserID,
		project.Name,
		nullableString(project.Description),
		project.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, projectID string) (Project, error) {
	const query = `
SELECT ` + projectColumns + `
FROM projects
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return scanProject(r.DB.QueryRowContext(ctx, query, userID, projectID))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Project, error) {
	const query = `
SELECT ` + projectColumns + `
FROM projects
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, project)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, project Project) error {
	const query = `
UPDATE projects
SET name = $1, description = $2, updated_at = now()
WHERE user_id = $3 AND id = $4`
	res, err := r.DB.ExecContext(ctx, query,
		project.Name,
		nullableString(project.Description),
		project.UserID,
		project.ID,
	)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, userID, projectID string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM projects WHERE user_id = $1 AND id = $2`, userID, projectID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var project Project
	var description sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&project.ID,
		&project.UserID,
		&project.Name,
		&description,
		&project.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	if description.Valid {
		project.Description = description.String
	}
	if updatedAt.Valid {
		project.UpdatedAt = &updatedAt.Time
	}
	return project, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
