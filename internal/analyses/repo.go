package analyses

import (
	"context"
	"time"

	"vetlab-backend/internal/values"
)

// Repo defines persistence for analysis records. Every operation except
// Create is keyed by (owner id, record id); writes are last-write-wins with
// no version token.
type Repo interface {
	Create(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, ownerID, recordID string) (Record, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Record, error)

	// SaveValues persists the value map together with a status change in one
	// write. reviewedAt is set only when non-nil. The target status is never
	// Completed, so any stored interpretation and completion timestamp are
	// cleared by the same write.
	SaveValues(ctx context.Context, ownerID, recordID string, vals values.Map, status string, reviewedAt *time.Time) error

	// SetStatus changes only the status; used for the compensating revert.
	SetStatus(ctx context.Context, ownerID, recordID, status string) error

	// Complete persists the interpretation, Completed status, and completion
	// timestamp as one logical update.
	Complete(ctx context.Context, ownerID, recordID string, interpretation map[string]any, completedAt time.Time) error
}
