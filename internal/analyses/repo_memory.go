package analyses

import (
	"context"
	"sort"
	"sync"
	"time"

	"vetlab-backend/internal/values"
)

// MemoryRepo stores records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Record)}
}

// Create stores the record.
func (r *MemoryRepo) Create(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rec.ID] = rec
	return nil
}

// GetByID returns a record scoped to its owner.
func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, recordID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[recordID]
	if !ok || rec.OwnerID != ownerID {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// ListByOwner returns the owner's records, newest first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	var records []Record
	for _, rec := range r.byID {
		if rec.OwnerID == ownerID {
			records = append(records, rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if offset >= len(records) {
		return []Record{}, nil
	}
	end := len(records)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return records[offset:end], nil
}

// SaveValues persists the value map and status in one write.
func (r *MemoryRepo) SaveValues(ctx context.Context, ownerID, recordID string, vals values.Map, status string, reviewedAt *time.Time) error {
	return r.update(ctx, ownerID, recordID, func(rec *Record) {
		rec.Values = vals
		rec.Status = status
		rec.Interpretation = nil
		rec.CompletedAt = nil
		if reviewedAt != nil {
			rec.ReviewedAt = reviewedAt
		}
	})
}

// SetStatus changes only the status.
func (r *MemoryRepo) SetStatus(ctx context.Context, ownerID, recordID, status string) error {
	return r.update(ctx, ownerID, recordID, func(rec *Record) {
		rec.Status = status
	})
}

// Complete persists interpretation, Completed status, and timestamp together.
func (r *MemoryRepo) Complete(ctx context.Context, ownerID, recordID string, interpretation map[string]any, completedAt time.Time) error {
	return r.update(ctx, ownerID, recordID, func(rec *Record) {
		rec.Interpretation = interpretation
		rec.Status = StatusCompleted
		rec.CompletedAt = &completedAt
	})
}

func (r *MemoryRepo) update(ctx context.Context, ownerID, recordID string, mutate func(*Record)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[recordID]
	if !ok || rec.OwnerID != ownerID {
		return ErrNotFound
	}
	mutate(&rec)
	rec.UpdatedAt = time.Now().UTC()
	r.byID[recordID] = rec
	return nil
}
