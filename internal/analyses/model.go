package analyses

import (
	"time"

	"vetlab-backend/internal/catalog"
	"vetlab-backend/internal/values"
)

// Lifecycle states. PendingReview and Reviewed accept edits; Interpreting is
// the durable marker of an in-flight interpretation attempt; Completed is
// terminal for the automatic flow.
const (
	StatusPendingReview = "pending_review"
	StatusReviewed      = "reviewed"
	StatusInterpreting  = "interpreting"
	StatusCompleted     = "completed"
)

// Patient holds the free-form patient attributes attached at submission.
type Patient struct {
	Name       string `json:"name"`
	Species    string `json:"species"`
	Breed      string `json:"breed,omitempty"`
	Age        string `json:"age,omitempty"`
	Sex        string `json:"sex,omitempty"`
	Weight     string `json:"weight,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Anamnesis  string `json:"anamnesis,omitempty"`
}

// Record tracks one lab-report submission through extraction, review, and
// interpretation. Records are strictly owner-scoped.
type Record struct {
	ID             string               `json:"id"`
	OwnerID        string               `json:"ownerId"`
	AnalysisType   catalog.AnalysisType `json:"analysisType"`
	Language       string               `json:"language"`
	Status         string               `json:"status"`
	Patient        Patient              `json:"patient"`
	SourceKey      string               `json:"sourceKey"`
	SourceURL      string               `json:"sourceUrl,omitempty"`
	Values         values.Map           `json:"values"`
	Interpretation map[string]any       `json:"interpretation,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	ReviewedAt     *time.Time           `json:"reviewedAt,omitempty"`
	CompletedAt    *time.Time           `json:"completedAt,omitempty"`
}
