package extraction

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreSaveResultUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}
	value := "Acme Corp"
	score := 0.92
	res := Result{
		ID:                "res-1",
		DocumentID:        "doc-1",
		ExtractionFieldID: "field-1",
		ExtractedValue:    &value,
		ConfidenceScore:   &score,
		ExtractedAt:       time.Now().UTC(),
	}

	mock.ExpectQuery("INSERT INTO extraction_results").
		WithArgs(res.ID, res.DocumentID, res.ExtractionFieldID, value, score, res.ExtractedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("res-existing"))

	id, err := store.SaveResult(context.Background(), res)
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	// On conflict the row keeps its original id.
	if id != "res-existing" {
		t.Fatalf("id = %q, want res-existing", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreMarkAnalyzed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE documents SET last_analyzed_at").
		WithArgs(at, "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.MarkAnalyzed(context.Background(), "doc-1", at); err != nil {
		t.Fatalf("MarkAnalyzed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreDeleteByField(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}

	mock.ExpectExec("DELETE FROM extraction_results").
		WithArgs("field-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := store.DeleteByField(context.Background(), "field-1"); err != nil {
		t.Fatalf("DeleteByField: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
