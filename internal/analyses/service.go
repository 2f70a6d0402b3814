package analyses

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"vetlab-backend/internal/catalog"
	"vetlab-backend/internal/extraction"
	"vetlab-backend/internal/interpret"
	"vetlab-backend/internal/shared/metrics"
	"vetlab-backend/internal/shared/storage/object"
	"vetlab-backend/internal/shared/telemetry"
	"vetlab-backend/internal/usage"
	"vetlab-backend/internal/values"
)

const defaultLanguage = "en"

// SubmitInput carries everything needed to start a new analysis.
type SubmitInput struct {
	AnalysisType string
	Language     string
	Patient      Patient
	FileName     string
	MIMEType     string
	Data         []byte
}

// Service contains business logic for analysis records.
type Service struct {
	Repo      Repo
	Usage     *usage.Service
	Store     object.ObjectStore
	Extractor *extraction.Extractor
	Interp    *interpret.Interpreter

	guard *inflightGuard
	now   func() time.Time
}

// NewService wires the analysis pipeline service.
func NewService(repo Repo, usageSvc *usage.Service, store object.ObjectStore, extractor *extraction.Extractor, interp *interpret.Interpreter) *Service {
	return &Service{
		Repo:      repo,
		Usage:     usageSvc,
		Store:     store,
		Extractor: extractor,
		Interp:    interp,
		guard:     newInflightGuard(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SubmitAnalysis uploads the report file, extracts lab values from it, and
// persists a new record awaiting review. Nothing is persisted if extraction
// fails; a file already uploaded to the object store is not cleaned up.
func (s *Service) SubmitAnalysis(ctx context.Context, ownerID string, in SubmitInput) (Record, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Record{}, &ValidationError{Field: "owner_id", Reason: "required"}
	}
	analysisType, ok := catalog.ParseType(in.AnalysisType)
	if !ok {
		return Record{}, &ValidationError{Field: "analysis_type", Reason: "unknown analysis type"}
	}
	if strings.TrimSpace(in.Patient.Name) == "" {
		return Record{}, &ValidationError{Field: "patient_name", Reason: "required"}
	}
	if strings.TrimSpace(in.Patient.Species) == "" {
		return Record{}, &ValidationError{Field: "patient_species", Reason: "required"}
	}
	language := strings.TrimSpace(in.Language)
	if language == "" {
		language = defaultLanguage
	}
	if err := extraction.ValidateFile(in.MIMEType, int64(len(in.Data))); err != nil {
		return Record{}, err
	}

	if err := s.Usage.CheckQuota(ctx, ownerID); err != nil {
		return Record{}, err
	}

	// Submission is single-flight per owner; the record does not exist yet,
	// so the actor is the only stable key.
	release, err := s.guard.acquire(ownerID, stageExtraction)
	if err != nil {
		return Record{}, err
	}
	defer release()

	recordID := uuid.NewString()
	fileName := in.FileName
	if fileName == "" {
		fileName = recordID
	}
	sourceKey, _, _, err := s.Store.Save(ctx, ownerID, fileName, bytes.NewReader(in.Data))
	if err != nil {
		return Record{}, &PersistenceError{Op: "upload source file", Err: err}
	}

	metrics.IncExtractionStarted()
	started := metrics.NowMillis()
	vals, err := s.Extractor.Extract(ctx, in.Data, in.MIMEType, analysisType, language)
	metrics.ObserveExtractionDurationMs(metrics.NowMillis() - started)
	if err != nil {
		metrics.IncExtractionFailed()
		telemetry.Error("extraction failed", map[string]any{
			"owner_id":      ownerID,
			"analysis_type": string(analysisType),
			"error":         err.Error(),
		})
		return Record{}, err
	}
	metrics.IncExtractionCompleted()

	now := s.now()
	rec := Record{
		ID:           recordID,
		OwnerID:      ownerID,
		AnalysisType: analysisType,
		Language:     language,
		Status:       StatusPendingReview,
		Patient:      in.Patient,
		SourceKey:    sourceKey,
		Values:       vals,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return Record{}, &PersistenceError{Op: "create record", Err: err}
	}

	// The record exists at this point so the counter update is best effort.
	if _, err := s.Usage.Consume(ctx, ownerID); err != nil {
		telemetry.Error("usage increment failed", map[string]any{
			"owner_id":  ownerID,
			"record_id": rec.ID,
			"error":     err.Error(),
		})
	}

	telemetry.Info("analysis submitted", map[string]any{
		"owner_id":      ownerID,
		"record_id":     rec.ID,
		"analysis_type": string(analysisType),
		"status":        rec.Status,
	})
	return rec, nil
}

// SaveReview stores a reviewer-edited value map and moves the record to
// Reviewed. A Completed record may be reopened; concurrent saves are
// last write wins.
func (s *Service) SaveReview(ctx context.Context, ownerID, recordID string, raw map[string]any) (Record, error) {
	rec, err := s.Repo.GetByID(ctx, ownerID, recordID)
	if err != nil {
		return Record{}, err
	}
	switch rec.Status {
	case StatusPendingReview, StatusReviewed, StatusCompleted:
	default:
		return Record{}, &StateError{Op: "save review", Status: rec.Status}
	}

	vals := values.Normalize(raw)
	if len(vals) == 0 {
		return Record{}, &ValidationError{Field: "values", Reason: "at least one value is required"}
	}

	reviewedAt := s.now()
	if err := s.Repo.SaveValues(ctx, ownerID, recordID, vals, StatusReviewed, &reviewedAt); err != nil {
		return Record{}, &PersistenceError{Op: "save review", Err: err}
	}

	telemetry.Info("review saved", map[string]any{
		"owner_id":  ownerID,
		"record_id": recordID,
		"status":    StatusReviewed,
	})
	return s.Repo.GetByID(ctx, ownerID, recordID)
}

// ConfirmAndInterpret confirms the reviewed values and runs clinical
// interpretation. The Interpreting status and the confirmed values are
// persisted before the model call; a failed call reverts the record to
// Reviewed and surfaces the original error.
func (s *Service) ConfirmAndInterpret(ctx context.Context, ownerID, recordID string) (Record, error) {
	release, err := s.guard.acquire(recordID, stageInterpretation)
	if err != nil {
		return Record{}, err
	}
	defer release()

	rec, err := s.Repo.GetByID(ctx, ownerID, recordID)
	if err != nil {
		return Record{}, err
	}
	switch rec.Status {
	case StatusPendingReview, StatusReviewed:
	default:
		return Record{}, &StateError{Op: "confirm and interpret", Status: rec.Status}
	}
	if len(rec.Values) == 0 {
		return Record{}, &ValidationError{Field: "values", Reason: "no values to interpret"}
	}

	if err := s.Repo.SaveValues(ctx, ownerID, recordID, rec.Values, StatusInterpreting, nil); err != nil {
		return Record{}, &PersistenceError{Op: "mark interpreting", Err: err}
	}

	metrics.IncInterpretationStarted()
	started := metrics.NowMillis()
	interpretation, err := s.interpret(ctx, rec)
	metrics.ObserveInterpretationDurationMs(metrics.NowMillis() - started)
	if err != nil {
		metrics.IncInterpretationFailed()
		telemetry.Error("interpretation failed", map[string]any{
			"owner_id":  ownerID,
			"record_id": recordID,
			"error":     err.Error(),
		})
		if revertErr := s.Repo.SetStatus(ctx, ownerID, recordID, StatusReviewed); revertErr != nil {
			telemetry.Error("revert to reviewed failed", map[string]any{
				"owner_id":  ownerID,
				"record_id": recordID,
				"error":     revertErr.Error(),
			})
		}
		return Record{}, err
	}
	metrics.IncInterpretationCompleted()

	completedAt := s.now()
	if err := s.Repo.Complete(ctx, ownerID, recordID, interpretation, completedAt); err != nil {
		return Record{}, &PersistenceError{Op: "complete record", Err: err}
	}

	telemetry.Info("analysis completed", map[string]any{
		"owner_id":  ownerID,
		"record_id": recordID,
		"status":    StatusCompleted,
	})
	return s.Repo.GetByID(ctx, ownerID, recordID)
}

// Get returns a single record scoped to its owner.
func (s *Service) Get(ctx context.Context, ownerID, recordID string) (Record, error) {
	return s.Repo.GetByID(ctx, ownerID, recordID)
}

// List returns the owner's records, newest first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]Record, error) {
	return s.Repo.ListByOwner(ctx, ownerID, limit, offset)
}

// interpret runs the model-backed interpreter when one is configured and
// falls back to the deterministic threshold engine otherwise.
func (s *Service) interpret(ctx context.Context, rec Record) (map[string]any, error) {
	if s.Interp == nil {
		return interpret.Fallback(rec.Values, rec.AnalysisType), nil
	}
	patient := interpret.PatientContext{
		Name:       rec.Patient.Name,
		Species:    rec.Patient.Species,
		Breed:      rec.Patient.Breed,
		Age:        rec.Patient.Age,
		Sex:        rec.Patient.Sex,
		Weight:     rec.Patient.Weight,
		Identifier: rec.Patient.Identifier,
		Anamnesis:  rec.Patient.Anamnesis,
	}
	return s.Interp.Interpret(ctx, rec.Values, rec.AnalysisType, rec.Language, patient)
}
