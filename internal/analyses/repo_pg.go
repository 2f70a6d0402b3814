package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"vetlab-backend/internal/catalog"
	"vetlab-backend/internal/values"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

const recordColumns = `id, owner_id, analysis_type, language, status, patient, source_key, source_url,
       lab_values, interpretation, created_at, updated_at, reviewed_at, completed_at`

// Create inserts a new analysis record.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO analyses (
	id, owner_id, analysis_type, language, status, patient, source_key, source_url,
	lab_values, interpretation, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	patientPayload, err := json.Marshal(rec.Patient)
	if err != nil {
		return err
	}
	valuesPayload, err := marshalJSONB(values.Denormalize(rec.Values))
	if err != nil {
		return err
	}
	// interpretation stays NULL until the record completes.
	var interpPayload []byte
	if rec.Interpretation != nil {
		interpPayload, err = json.Marshal(rec.Interpretation)
		if err != nil {
			return err
		}
	}

	_, err = r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.OwnerID,
		string(rec.AnalysisType),
		rec.Language,
		rec.Status,
		patientPayload,
		rec.SourceKey,
		rec.SourceURL,
		valuesPayload,
		interpPayload,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return err
}

// GetByID returns a record scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, ownerID, recordID string) (Record, error) {
	query := `
SELECT ` + recordColumns + `
FROM analyses
WHERE id = $1 AND owner_id = $2
LIMIT 1`

	row := r.DB.QueryRowContext(ctx, query, recordID, ownerID)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// ListByOwner lists records for an owner ordered newest-first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
SELECT ` + recordColumns + `
FROM analyses
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveValues persists the value map and status in one statement.
func (r *PGRepo) SaveValues(ctx context.Context, ownerID, recordID string, vals values.Map, status string, reviewedAt *time.Time) error {
	const query = `
UPDATE analyses
SET lab_values = $1::jsonb,
    status = $2,
    reviewed_at = COALESCE($3::timestamptz, reviewed_at),
    interpretation = NULL,
    completed_at = NULL,
    updated_at = now()
WHERE id = $4 AND owner_id = $5`

	payload, err := marshalJSONB(values.Denormalize(vals))
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, payload, status, reviewedAt, recordID, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus changes only the record status.
func (r *PGRepo) SetStatus(ctx context.Context, ownerID, recordID, status string) error {
	const query = `
UPDATE analyses
SET status = $1,
    updated_at = now()
WHERE id = $2 AND owner_id = $3`

	res, err := r.DB.ExecContext(ctx, query, status, recordID, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Complete persists interpretation, Completed status, and timestamp together.
func (r *PGRepo) Complete(ctx context.Context, ownerID, recordID string, interpretation map[string]any, completedAt time.Time) error {
	const query = `
UPDATE analyses
SET interpretation = $1::jsonb,
    status = $2,
    completed_at = $3::timestamptz,
    updated_at = now()
WHERE id = $4 AND owner_id = $5`

	payload, err := marshalJSONB(interpretation)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, payload, StatusCompleted, completedAt, recordID, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var analysisType string
	var patient sql.NullString
	var sourceKey sql.NullString
	var sourceURL sql.NullString
	var labValues sql.NullString
	var interpretation sql.NullString
	var reviewedAt sql.NullTime
	var completedAt sql.NullTime

	err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&analysisType,
		&rec.Language,
		&rec.Status,
		&patient,
		&sourceKey,
		&sourceURL,
		&labValues,
		&interpretation,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&reviewedAt,
		&completedAt,
	)
	if err != nil {
		return Record{}, err
	}

	rec.AnalysisType = catalog.AnalysisType(analysisType)
	if patient.Valid {
		_ = json.Unmarshal([]byte(patient.String), &rec.Patient)
	}
	if sourceKey.Valid {
		rec.SourceKey = sourceKey.String
	}
	if sourceURL.Valid {
		rec.SourceURL = sourceURL.String
	}
	if labValues.Valid {
		raw := map[string]any{}
		if err := json.Unmarshal([]byte(labValues.String), &raw); err == nil {
			rec.Values = values.Normalize(raw)
		}
	}
	if interpretation.Valid {
		parsed := map[string]any{}
		if err := json.Unmarshal([]byte(interpretation.String), &parsed); err == nil && len(parsed) > 0 {
			rec.Interpretation = parsed
		}
	}
	if reviewedAt.Valid {
		rec.ReviewedAt = &reviewedAt.Time
	}
	if completedAt.Valid {
		rec.CompletedAt = &completedAt.Time
	}
	return rec, nil
}

func marshalJSONB(value any) ([]byte, error) {
	if value == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(value)
}
