package usage

import (
	"context"
	"database/sql"
	"errors"
)

type pgStore struct {
	DB         *sql.DB
	quotaBytes int64
}

// NewPGStore constructs a Postgres-backed usage store. New users get
// quotaBytes as their allowance.
func NewPGStore(db *sql.DB, quotaBytes int64) *pgStore {
	return &pgStore{DB: db, quotaBytes: quotaBytes}
}

func (s *pgStore) Get(ctx context.Context, userID string) (Usage, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	u, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Usage{}, err
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) Reserve(ctx context.Context, userID string, n int64) (Usage, error) {
	if n <= 0 {
		return s.Get(ctx, userID)
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	u, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Usage{}, err
	}
	if u.UsedBytes+n > u.QuotaBytes {
		err = ErrQuotaExceeded
		return Usage{}, err
	}
	u.UsedBytes += n
	if _, err = tx.ExecContext(ctx, `
UPDATE storage_usage SET used_bytes = $1, updated_at = now() WHERE user_id = $2`, u.UsedBytes, userID); err != nil {
		return Usage{}, err
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) Release(ctx context.Context, userID string, n int64) (Usage, error) {
	if n <= 0 {
		return s.Get(ctx, userID)
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	u, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Usage{}, err
	}
	u.UsedBytes -= n
	if u.UsedBytes < 0 {
		u.UsedBytes = 0
	}
	if _, err = tx.ExecContext(ctx, `
UPDATE storage_usage SET used_bytes = $1, updated_at = now() WHERE user_id = $2`, u.UsedBytes, userID); err != nil {
		return Usage{}, err
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) lockAndEnsure(ctx context.Context, tx *sql.Tx, userID string) (Usage, error) {
	var u Usage
	row := tx.QueryRowContext(ctx, `
SELECT quota_bytes, used_bytes FROM storage_usage WHERE user_id = $1 FOR UPDATE`, userID)
	err := row.Scan(&u.QuotaBytes, &u.UsedBytes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			u = Usage{QuotaBytes: s.quotaBytes}
			if _, err = tx.ExecContext(ctx, `
INSERT INTO storage_usage (user_id, quota_bytes, used_bytes) VALUES ($1, $2, $3)`,
				userID, u.QuotaBytes, u.UsedBytes); err != nil {
				return Usage{}, err
			}
			return u, nil
		}
		return Usage{}, err
	}
	return u, nil
}
