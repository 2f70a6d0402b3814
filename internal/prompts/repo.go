package prompts

import (
	"context"

	"vetlab-backend/internal/catalog"
)

// Repo reads prompt definitions. Find returns every row matching the key so
// the resolver can enforce uniqueness itself.
type Repo interface {
	Find(ctx context.Context, analysisType catalog.AnalysisType, name, language string) ([]Definition, error)
}
