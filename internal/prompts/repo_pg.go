package prompts

import (
	"context"
	"database/sql"

	"vetlab-backend/internal/catalog"
)

// PGRepo reads prompt definitions from Postgres. The table is written by the
// admin workflow; this service never mutates it.
type PGRepo struct {
	DB *sql.DB
}

// Find returns every definition matching the key triple.
func (r *PGRepo) Find(ctx context.Context, analysisType catalog.AnalysisType, name, language string) ([]Definition, error) {
	const query = `
SELECT id, analysis_type, name, language, template, model, updated_at
FROM prompt_definitions
WHERE analysis_type = $1 AND name = $2 AND lower(language) = lower($3)`
	rows, err := r.DB.QueryContext(ctx, query, string(analysisType), name, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Definition
	for rows.Next() {
		var def Definition
		var typ string
		if err := rows.Scan(&def.ID, &typ, &def.Name, &def.Language, &def.Template, &def.Model, &def.UpdatedAt); err != nil {
			return nil, err
		}
		def.AnalysisType = catalog.AnalysisType(typ)
		out = append(out, def)
	}
	return out, rows.Err()
}
