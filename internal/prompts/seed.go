package prompts

import (
	"time"

	"github.com/google/uuid"

	"vetlab-backend/internal/catalog"
)

// SeedDefaults loads a baseline English prompt set into a memory repo so the
// pipeline works in dev mode without the admin-managed table.
func SeedDefaults(repo *MemoryRepo, model string) {
	now := time.Now().UTC()
	for _, typ := range catalog.Types() {
		repo.Put(Definition{
			ID:           uuid.NewString(),
			AnalysisType: typ,
			Name:         NameOCRExtraction,
			Language:     "en",
			Template:     defaultExtractionTemplate(typ),
			Model:        model,
			UpdatedAt:    now,
		})
		repo.Put(Definition{
			ID:           uuid.NewString(),
			AnalysisType: typ,
			Name:         NameClinicalInterpretation,
			Language:     "en",
			Template:     defaultInterpretationTemplate(typ),
			Model:        model,
			UpdatedAt:    now,
		})
	}
}

func defaultExtractionTemplate(typ catalog.AnalysisType) string {
	header := "You are reading a veterinary " + string(typ) + " lab report image. " +
		"Extract every lab value you can read and return ONLY a JSON object keyed by parameter id. " +
		"Each entry must be an object with \"value\" and optional \"unit\" and \"reference_range\" strings. " +
		"Use exactly these parameter ids when the report contains them:\n"
	body := ""
	for _, p := range catalog.ForType(typ) {
		body += "- " + p.ID + " (" + p.Label
		if p.Unit != "" {
			body += ", " + p.Unit
		}
		body += ")\n"
	}
	return header + body + "Do not invent values. Omit parameters you cannot read."
}

func defaultInterpretationTemplate(typ catalog.AnalysisType) string {
	return "You are a veterinary clinical pathologist. Interpret the reviewed " + string(typ) +
		" values below for the described patient. Return ONLY a JSON object with a \"findings\" array " +
		"(each finding has \"parameter\", \"finding\", \"differential_diagnoses\", \"recommended_tests\") " +
		"and a \"summary\" string. Flag values outside their reference ranges."
}
