package extraction

import (
	"context"
	"database/sql"
	"time"
)

// PGStore implements ResultStore using Postgres.
type PGStore struct {
	DB *sql.DB
}

// SaveResult upserts on the (document, field) unique key so re-running
// extraction replaces the prior value.
func (s *PGStore) SaveResult(ctx context.Context, res Result) (string, error) {
	const query = `
INSERT INTO extraction_results (id, document_id, extraction_field_id, extracted_value, confidence_score, extracted_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (document_id, extraction_field_id) DO UPDATE SET
  extracted_value = EXCLUDED.extracted_value,
  confidence_score = EXCLUDED.confidence_score,
  extracted_at = EXCLUDED.extracted_at
RETURNING id`
	var id string
	err := s.DB.QueryRowContext(ctx, query,
		res.ID,
		res.DocumentID,
		res.ExtractionFieldID,
		res.ExtractedValue,
		res.ConfidenceScore,
		res.ExtractedAt,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// MarkAnalyzed stamps the document's last extraction time.
func (s *PGStore) MarkAnalyzed(ctx context.Context, documentID string, at time.Time) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE documents SET last_analyzed_at = $1 WHERE id = $2`, at, documentID)
	return err
}

const resultColumns = `id, document_id, extraction_field_id, extracted_value, confidence_score, extracted_at`

func (s *PGStore) ListByDocument(ctx context.Context, documentID string) ([]Result, error) {
	const query = `
SELECT ` + resultColumns + `
FROM extraction_results
WHERE document_id = $1
ORDER BY extracted_at DESC`
	return s.queryResults(ctx, query, documentID)
}

func (s *PGStore) ListByDocuments(ctx context.Context, documentIDs []string) ([]Result, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	const query = `
SELECT ` + resultColumns + `
FROM extraction_results
WHERE document_id = ANY($1)
ORDER BY extracted_at DESC`
	return s.queryResults(ctx, query, documentIDs)
}

func (s *PGStore) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM extraction_results WHERE document_id = $1`, documentID)
	return err
}

func (s *PGStore) DeleteByField(ctx context.Context, fieldID string) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM extraction_results WHERE extraction_field_id = $1`, fieldID)
	return err
}

func (s *PGStore) queryResults(ctx context.Context, query string, args ...any) ([]Result, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var res Result
		var value sql.NullString
		var score sql.NullFloat64
		if err := rows.Scan(
			&res.ID,
			&res.DocumentID,
			&res.ExtractionFieldID,
			&value,
			&score,
			&res.ExtractedAt,
		); err != nil {
			return nil, err
		}
		if value.Valid {
			res.ExtractedValue = &value.String
		}
		if score.Valid {
			res.ConfidenceScore = &score.Float64
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

var _ ResultStore = (*PGStore)(nil)
