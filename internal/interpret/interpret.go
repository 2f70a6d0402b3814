// Package interpret turns reviewed lab values into a structured clinical
// interpretation, either through the inference service or through the
// deterministic threshold engine in fallback.go.
package interpret

import (
	"context"
	"errors"
	"strings"

	"vetlab-backend/internal/catalog"
	"vetlab-backend/internal/inference"
	"vetlab-backend/internal/prompts"
	"vetlab-backend/internal/values"
)

// ErrNoValues is returned when interpretation is requested with nothing to
// interpret.
var ErrNoValues = errors.New("interpret: value map is empty")

// PatientContext carries the optional patient attributes included in the
// interpretation prompt.
type PatientContext struct {
	Name       string
	Species    string
	Breed      string
	Age        string
	Sex        string
	Weight     string
	Identifier string
	Anamnesis  string
}

func (p PatientContext) empty() bool {
	return p == PatientContext{}
}

// Interpreter is the AI interpretation stage.
type Interpreter struct {
	Resolver *prompts.Resolver
	Client   inference.Client
}

// Interpret resolves the clinical_interpretation prompt, issues one
// generation call with the reviewed values and patient context, and returns
// the parsed interpretation object verbatim. The object's schema belongs to
// the prompt/model pairing, not to this stage; only "non-null JSON object" is
// enforced.
func (i *Interpreter) Interpret(ctx context.Context, vals values.Map, analysisType catalog.AnalysisType, language string, patient PatientContext) (map[string]any, error) {
	if len(vals) == 0 {
		return nil, ErrNoValues
	}

	resolved, err := i.Resolver.Resolve(ctx, prompts.NameClinicalInterpretation, analysisType, language)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(resolved.Template, vals, patient)

	text, err := i.Client.Generate(ctx, inference.Request{Model: resolved.Model, Prompt: prompt})
	if err != nil {
		return nil, err
	}

	obj, err := inference.ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// buildPrompt assembles patient block (only when at least one field is set),
// template, and one line per lab value in sorted parameter order.
func buildPrompt(template string, vals values.Map, patient PatientContext) string {
	var b strings.Builder

	if !patient.empty() {
		b.WriteString("Patient:\n")
		writeField(&b, "Name", patient.Name)
		writeField(&b, "Species", patient.Species)
		writeField(&b, "Breed", patient.Breed)
		writeField(&b, "Age", patient.Age)
		writeField(&b, "Sex", patient.Sex)
		writeField(&b, "Weight", patient.Weight)
		writeField(&b, "Identifier", patient.Identifier)
		writeField(&b, "Anamnesis", patient.Anamnesis)
		b.WriteString("\n")
	}

	b.WriteString(template)
	b.WriteString("\n\nLab values:\n")

	for _, id := range vals.Keys() {
		v := vals[id]
		b.WriteString("  ")
		b.WriteString(id)
		b.WriteString(": ")
		b.WriteString(v.Value)
		if v.Unit != "" {
			b.WriteString(" ")
			b.WriteString(v.Unit)
		}
		if v.ReferenceRange != "" {
			b.WriteString(" (reference ")
			b.WriteString(v.ReferenceRange)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.WriteString("  ")
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
