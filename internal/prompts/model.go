package prompts

import (
	"time"

	"vetlab-backend/internal/catalog"
)

// Prompt names the pipeline resolves. The admin workflow that authors the
// templates lives outside this service; we consume the table read-only.
const (
	NameOCRExtraction          = "ocr_extraction"
	NameClinicalInterpretation = "clinical_interpretation"
)

// Definition pairs a prompt template with the model that should run it,
// keyed by (analysis type, prompt name, language).
type Definition struct {
	ID           string
	AnalysisType catalog.AnalysisType
	Name         string
	Language     string
	Template     string
	Model        string
	UpdatedAt    time.Time
}
