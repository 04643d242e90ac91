package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"docvault-backend/internal/documents"
	"docvault-backend/internal/fields"
	"docvault-backend/internal/folders"
	"docvault-backend/internal/projects"
)

// Service migrates guest-owned data to an authenticated account.
type Service struct {
	ProjectsRepo  projects.Repo
	FoldersRepo   folders.Repo
	DocumentsRepo documents.Repo
	FieldsRepo    fields.Repo
}

// ClaimResult reports how many rows moved to the authenticated user.
type ClaimResult struct {
	MigratedProjects  int `json:"migratedProjects"`
	MigratedFolders   int `json:"migratedFolders"`
	MigratedDocuments int `json:"migratedDocuments"`
	MigratedFields    int `json:"migratedFields"`
}

func NewService(projectsRepo projects.Repo, foldersRepo folders.Repo, documentsRepo documents.Repo, fieldsRepo fields.Repo) *Service {
	return &Service{
		ProjectsRepo:  projectsRepo,
		FoldersRepo:   foldersRepo,
		DocumentsRepo: documentsRepo,
		FieldsRepo:    fieldsRepo,
	}
}

// ClaimGuest reassigns everything the guest owns to the authenticated
// user. In Postgres mode the whole claim runs in one transaction.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	if db := s.sharedDB(); db != nil {
		return claimWithTx(ctx, db, guestUserID, authedUserID)
	}

	var result ClaimResult
	var err error
	if result.MigratedProjects, err = claim(ctx, s.ProjectsRepo, guestUserID, authedUserID); err != nil {
		return ClaimResult{}, err
	}
	if result.MigratedFolders, err = claim(ctx, s.FoldersRepo, guestUserID, authedUserID); err != nil {
		return ClaimResult{}, err
	}
	if result.MigratedDocuments, err = claim(ctx, s.DocumentsRepo, guestUserID, authedUserID); err != nil {
		return ClaimResult{}, err
	}
	if result.MigratedFields, err = claim(ctx, s.FieldsRepo, guestUserID, authedUserID); err != nil {
		return ClaimResult{}, err
	}
	return result, nil
}

// sharedDB returns the common database handle when every repo is
// Postgres-backed, nil otherwise.
func (s *Service) sharedDB() *sql.DB {
	projPG, ok := s.ProjectsRepo.(*projects.PGRepo)
	if !ok || projPG == nil || projPG.DB == nil {
		return nil
	}
	if _, ok := s.FoldersRepo.(*folders.PGRepo); !ok {
		return nil
	}
	if _, ok := s.DocumentsRepo.(*documents.PGRepo); !ok {
		return nil
	}
	if _, ok := s.FieldsRepo.(*fields.PGRepo); !ok {
		return nil
	}
	return projPG.DB
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, authedUserID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	var result ClaimResult
	if result.MigratedProjects, err = execClaim(ctx, tx,
		`UPDATE projects SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID); err != nil {
		return ClaimResult{}, err
	}
	if result.MigratedFolders, err = execClaim(ctx, tx,
		`UPDATE folders SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID); err != nil {
		return ClaimResult{}, err
	}
	if result.MigratedDocuments, err = execClaim(ctx, tx,
		`UPDATE documents SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID); err != nil {
		return ClaimResult{}, err
	}
	if result.MigratedFields, err = execClaim(ctx, tx,
		`UPDATE extraction_fields SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID); err != nil {
		return ClaimResult{}, err
	}

	// Move the guest's storage consumption onto the authed account so
	// quota accounting follows the claimed documents.
	if _, err = tx.ExecContext(ctx, `
INSERT INTO storage_usage (user_id, quota_bytes, used_bytes)
SELECT $1, quota_bytes, used_bytes FROM storage_usage WHERE user_id = $2
ON CONFLICT (user_id) DO UPDATE SET
  used_bytes = storage_usage.used_bytes + EXCLUDED.used_bytes,
  updated_at = now()`, authedUserID, guestUserID); err != nil {
		return ClaimResult{}, err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM storage_usage WHERE user_id = $1`, guestUserID); err != nil {
		return ClaimResult{}, err
	}

	if err = tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return result, nil
}

func execClaim(ctx context.Context, tx *sql.Tx, query, authedUserID, guestUserID string) (int, error) {
	res, err := tx.ExecContext(ctx, query, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

type guestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}

func claim(ctx context.Context, repo any, guestUserID, authedUserID string) (int, error) {
	claimer, ok := repo.(guestClaimer)
	if !ok {
		return 0, errors.New("repository does not support claim")
	}
	return claimer.ClaimGuest(ctx, guestUserID, authedUserID)
}
