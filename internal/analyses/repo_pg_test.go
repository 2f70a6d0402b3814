package analyses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"vetlab-backend/internal/catalog"
	"vetlab-backend/internal/values"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateWritesFlatValueMap(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	rec := Record{
		ID:           "rec-1",
		OwnerID:      "owner-1",
		AnalysisType: catalog.TypeHemogram,
		Language:     "en",
		Status:       StatusPendingReview,
		Patient:      Patient{Name: "Rex", Species: "dog"},
		SourceKey:    "objects/owner-1/cbc.png",
		Values:       values.Map{"erythrocytes": {Value: "6.2", Unit: "10^12/L"}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			rec.ID,
			rec.OwnerID,
			"hemogram",
			rec.Language,
			rec.Status,
			[]byte(`{"name":"Rex","species":"dog"}`),
			rec.SourceKey,
			rec.SourceURL,
			sqlmock.AnyArg(), // lab_values
			sqlmock.AnyArg(), // interpretation
			rec.CreatedAt,
			rec.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScopesToOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "analysis_type", "language", "status", "patient",
		"source_key", "source_url", "lab_values", "interpretation",
		"created_at", "updated_at", "reviewed_at", "completed_at",
	}).AddRow(
		"rec-1", "owner-1", "biochemistry", "en", StatusReviewed,
		`{"name":"Rex","species":"dog"}`,
		"objects/owner-1/panel.png", nil,
		`{"glucose": {"value": "98", "unit": "mg/dL"}}`, nil,
		now, now, now, nil,
	)

	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs("rec-1", "owner-1").
		WillReturnRows(rows)

	rec, err := repo.GetByID(context.Background(), "owner-1", "rec-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rec.AnalysisType != catalog.TypeBiochemistry {
		t.Fatalf("analysis type = %q", rec.AnalysisType)
	}
	if got := rec.Values["glucose"].Value; got != "98" {
		t.Fatalf("glucose value = %q, want 98", got)
	}
	if rec.Patient.Name != "Rex" {
		t.Fatalf("patient name = %q, want Rex", rec.Patient.Name)
	}
	if rec.ReviewedAt == nil {
		t.Fatal("reviewedAt must be decoded")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs("rec-1", "owner-2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "owner-2", "rec-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoGetByIDDecodesLegacyWrappedValues(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "analysis_type", "language", "status", "patient",
		"source_key", "source_url", "lab_values", "interpretation",
		"created_at", "updated_at", "reviewed_at", "completed_at",
	}).AddRow(
		"rec-1", "owner-1", "hemogram", "en", StatusPendingReview,
		nil, nil, nil,
		`{"values": {"hemoglobin": {"value": "14.1"}}}`, nil,
		now, now, nil, nil,
	)

	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs("rec-1", "owner-1").
		WillReturnRows(rows)

	rec, err := repo.GetByID(context.Background(), "owner-1", "rec-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got := rec.Values["hemoglobin"].Value; got != "14.1" {
		t.Fatalf("hemoglobin value = %q, want 14.1 unwrapped from the legacy shape", got)
	}
}

func TestPGRepoSaveValuesClearsInterpretation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`(?s)UPDATE analyses.*interpretation = NULL.*completed_at = NULL`).
		WithArgs(sqlmock.AnyArg(), StatusReviewed, sqlmock.AnyArg(), "rec-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now().UTC()
	err := repo.SaveValues(context.Background(), "owner-1", "rec-1", values.Map{"glucose": {Value: "98"}}, StatusReviewed, &now)
	if err != nil {
		t.Fatalf("SaveValues: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveValuesNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE analyses").
		WithArgs(sqlmock.AnyArg(), StatusReviewed, sqlmock.AnyArg(), "rec-missing", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	now := time.Now().UTC()
	err := repo.SaveValues(context.Background(), "owner-1", "rec-missing", values.Map{"ph": {Value: "6.5"}}, StatusReviewed, &now)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoCompleteWritesInterpretation(t *testing.T) {
	repo, mock := newMockRepo(t)

	completedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE analyses").
		WithArgs(sqlmock.AnyArg(), StatusCompleted, completedAt, "rec-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Complete(context.Background(), "owner-1", "rec-1", map[string]any{"summary": "fine"}, completedAt)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
