package interpret

import (
	"vetlab-backend/internal/catalog"
	"vetlab-backend/internal/values"
)

// finding mirrors the object shape the AI path produces so either path feeds
// the same consumers.
type finding struct {
	parameter string
	text      string
	diagnoses []string
	tests     []string
}

// Fallback produces an interpretation from threshold comparisons against the
// parameter catalog. It is pure and has no network dependency, which makes it
// the reference path for automated tests of interpretation logic.
func Fallback(vals values.Map, analysisType catalog.AnalysisType) map[string]any {
	var findings []finding
	switch analysisType {
	case catalog.TypeHemogram:
		findings = hemogramFindings(vals)
	case catalog.TypeBiochemistry:
		findings = biochemistryFindings(vals)
	case catalog.TypeUrinalysis:
		findings = urinalysisFindings(vals)
	}

	if len(findings) == 0 {
		findings = []finding{{
			text: "All evaluated parameters are within reference ranges.",
		}}
	}

	out := make([]any, 0, len(findings))
	for _, f := range findings {
		entry := map[string]any{"finding": f.text}
		if f.parameter != "" {
			entry["parameter"] = f.parameter
		}
		if len(f.diagnoses) > 0 {
			entry["differential_diagnoses"] = toAny(f.diagnoses)
		}
		if len(f.tests) > 0 {
			entry["recommended_tests"] = toAny(f.tests)
		}
		out = append(out, entry)
	}
	return map[string]any{"findings": out}
}

func hemogramFindings(vals values.Map) []finding {
	var out []finding

	anemiaTests := []string{"Reticulocyte count", "Blood smear", "Biochemistry panel"}
	for _, id := range []string{"erythrocytes", "hemoglobin", "hematocrit"} {
		switch compare(vals, catalog.TypeHemogram, id) {
		case below:
			out = append(out, finding{
				parameter: id,
				text:      "Anemia: " + label(catalog.TypeHemogram, id) + " below reference minimum.",
				diagnoses: []string{"Hemorrhage", "Hemolysis", "Decreased production"},
				tests:     anemiaTests,
			})
		case above:
			out = append(out, finding{
				parameter: id,
				text:      "Polycythemia: " + label(catalog.TypeHemogram, id) + " above reference maximum.",
				diagnoses: []string{"Dehydration", "Polycythemia vera", "Secondary polycythemia"},
				tests:     []string{"Hydration assessment", "Erythropoietin level", "Arterial blood gas"},
			})
		}
	}

	switch compare(vals, catalog.TypeHemogram, "leukocytes") {
	case above:
		out = append(out, finding{
			parameter: "leukocytes",
			text:      "Leukocytosis: leukocyte count above reference maximum.",
			diagnoses: []string{"Inflammation", "Infection", "Stress response", "Leukemia"},
			tests:     []string{"Blood smear", "Differential count", "Infectious disease screening"},
		})
	case below:
		out = append(out, finding{
			parameter: "leukocytes",
			text:      "Leukopenia: leukocyte count below reference minimum.",
			diagnoses: []string{"Viral infection", "Bone marrow suppression", "Sepsis"},
			tests:     []string{"Blood smear", "Bone marrow evaluation", "Viral testing"},
		})
	}

	switch compare(vals, catalog.TypeHemogram, "platelets") {
	case above:
		out = append(out, finding{
			parameter: "platelets",
			text:      "Thrombocytosis: platelet count above reference maximum.",
			diagnoses: []string{"Reactive thrombocytosis", "Iron deficiency", "Myeloproliferative disorder"},
			tests:     []string{"Blood smear", "Iron panel", "Inflammatory markers"},
		})
	case below:
		out = append(out, finding{
			parameter: "platelets",
			text:      "Thrombocytopenia: platelet count below reference minimum.",
			diagnoses: []string{"Immune-mediated destruction", "Consumption", "Decreased production"},
			tests:     []string{"Blood smear", "Coagulation profile", "Bone marrow evaluation"},
		})
	}

	return out
}

func biochemistryFindings(vals values.Map) []finding {
	var out []finding
	switch compare(vals, catalog.TypeBiochemistry, "glucose") {
	case above:
		out = append(out, finding{
			parameter: "glucose",
			text:      "Hyperglycemia: glucose above reference maximum.",
			diagnoses: []string{"Diabetes mellitus", "Stress hyperglycemia", "Cushing's syndrome"},
			tests:     []string{"Fructosamine", "Urinalysis", "Serial glucose curve"},
		})
	case below:
		out = append(out, finding{
			parameter: "glucose",
			text:      "Hypoglycemia: glucose below reference minimum.",
			diagnoses: []string{"Insulinoma", "Sepsis", "Hepatic insufficiency", "Juvenile hypoglycemia"},
			tests:     []string{"Insulin level", "Liver panel", "Abdominal ultrasound"},
		})
	}
	return out
}

func urinalysisFindings(vals values.Map) []finding {
	var out []finding
	switch compare(vals, catalog.TypeUrinalysis, "ph") {
	case above:
		out = append(out, finding{
			parameter: "ph",
			text:      "Alkaline urine: pH above reference maximum; consider urease-producing bacterial infection or post-prandial alkaline tide.",
		})
	case below:
		out = append(out, finding{
			parameter: "ph",
			text:      "Acidic urine: pH below reference minimum; consider metabolic acidosis, protein-rich diet, or paradoxical aciduria.",
		})
	}
	return out
}

type comparison int

const (
	inRange comparison = iota
	below
	above
	notEvaluable
)

func compare(vals values.Map, typ catalog.AnalysisType, paramID string) comparison {
	v, ok := vals[paramID]
	if !ok {
		return notEvaluable
	}
	n, ok := v.Number()
	if !ok {
		return notEvaluable
	}
	def, ok := catalog.Find(typ, paramID)
	if !ok || def.RefMin == nil || def.RefMax == nil {
		return notEvaluable
	}
	switch {
	case n < *def.RefMin:
		return below
	case n > *def.RefMax:
		return above
	default:
		return inRange
	}
}

func label(typ catalog.AnalysisType, paramID string) string {
	if def, ok := catalog.Find(typ, paramID); ok {
		return def.Label
	}
	return paramID
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
