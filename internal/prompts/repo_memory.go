package prompts

import (
	"context"
	"strings"
	"sync"

	"vetlab-backend/internal/catalog"
)

// MemoryRepo holds prompt definitions in memory; used in dev mode and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	defs []Definition
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Put appends a definition. Duplicates are stored as-is so resolver
// uniqueness enforcement stays observable in tests.
func (r *MemoryRepo) Put(def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs = append(r.defs, def)
}

// Find returns every definition matching the key triple.
func (r *MemoryRepo) Find(ctx context.Context, analysisType catalog.AnalysisType, name, language string) ([]Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Definition
	for _, def := range r.defs {
		if def.AnalysisType == analysisType &&
			def.Name == name &&
			strings.EqualFold(def.Language, language) {
			out = append(out, def)
		}
	}
	return out, nil
}
