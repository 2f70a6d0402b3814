package analyses

import (
	"time"

	"vetlab-backend/internal/values"
)

type saveReviewRequest struct {
	Values map[string]any `json:"values" binding:"required"`
}

type recordResponse struct {
	ID             string         `json:"id"`
	AnalysisType   string         `json:"analysisType"`
	Language       string         `json:"language"`
	Status         string         `json:"status"`
	Patient        Patient        `json:"patient"`
	SourceKey      string         `json:"sourceKey,omitempty"`
	Values         map[string]any `json:"values"`
	Interpretation map[string]any `json:"interpretation,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	ReviewedAt     *time.Time     `json:"reviewedAt,omitempty"`
	CompletedAt    *time.Time     `json:"completedAt,omitempty"`
}

func toRecordResponse(rec Record) recordResponse {
	return recordResponse{
		ID:             rec.ID,
		AnalysisType:   string(rec.AnalysisType),
		Language:       rec.Language,
		Status:         rec.Status,
		Patient:        rec.Patient,
		SourceKey:      rec.SourceKey,
		Values:         values.Denormalize(rec.Values),
		Interpretation: rec.Interpretation,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
		ReviewedAt:     rec.ReviewedAt,
		CompletedAt:    rec.CompletedAt,
	}
}
