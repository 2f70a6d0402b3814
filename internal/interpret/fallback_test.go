package interpret

import (
	"strings"
	"testing"

	"vetlab-backend/internal/catalog"
	"vetlab-backend/internal/values"
)

func findingsOf(t *testing.T, result map[string]any) []map[string]any {
	t.Helper()
	raw, ok := result["findings"].([]any)
	if !ok {
		t.Fatalf("result has no findings array: %#v", result)
	}
	out := make([]map[string]any, 0, len(raw))
	for _, f := range raw {
		entry, ok := f.(map[string]any)
		if !ok {
			t.Fatalf("finding is not an object: %#v", f)
		}
		out = append(out, entry)
	}
	return out
}

func stringsOf(t *testing.T, entry map[string]any, key string) []string {
	t.Helper()
	raw, ok := entry[key].([]any)
	if !ok {
		t.Fatalf("finding has no %s list: %#v", key, entry)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, v.(string))
	}
	return out
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestFallbackHemogramAnemia(t *testing.T) {
	vals := values.Map{
		"erythrocytes": {Value: "3.1"}, // below 5.5 minimum
		"leukocytes":   {Value: "9.0"},
		"platelets":    {Value: "300"},
	}

	result := Fallback(vals, catalog.TypeHemogram)
	findings := findingsOf(t, result)

	var anemia map[string]any
	for _, f := range findings {
		if text, _ := f["finding"].(string); strings.Contains(strings.ToLower(text), "anemia") {
			anemia = f
			break
		}
	}
	if anemia == nil {
		t.Fatalf("no anemia finding in %#v", findings)
	}
	if dd := stringsOf(t, anemia, "differential_diagnoses"); !contains(dd, "Hemorrhage") {
		t.Fatalf("differentials missing Hemorrhage: %v", dd)
	}
	if tests := stringsOf(t, anemia, "recommended_tests"); !contains(tests, "Reticulocyte count") {
		t.Fatalf("recommended tests missing Reticulocyte count: %v", tests)
	}
}

func TestFallbackHemogramPolycythemiaAndThrombocytopenia(t *testing.T) {
	vals := values.Map{
		"hematocrit": {Value: "61"},  // above 55
		"platelets":  {Value: "120"}, // below 200
	}

	findings := findingsOf(t, Fallback(vals, catalog.TypeHemogram))
	var sawPolycythemia, sawThrombocytopenia bool
	for _, f := range findings {
		text, _ := f["finding"].(string)
		if strings.Contains(strings.ToLower(text), "polycythemia") {
			sawPolycythemia = true
		}
		if strings.Contains(strings.ToLower(text), "thrombocytopenia") {
			sawThrombocytopenia = true
		}
	}
	if !sawPolycythemia || !sawThrombocytopenia {
		t.Fatalf("expected polycythemia and thrombocytopenia findings, got %#v", findings)
	}
}

func TestFallbackBiochemistryGlucose(t *testing.T) {
	high := Fallback(values.Map{"glucose": {Value: "240"}}, catalog.TypeBiochemistry)
	findings := findingsOf(t, high)
	if len(findings) != 1 || !strings.Contains(findings[0]["finding"].(string), "Hyperglycemia") {
		t.Fatalf("want hyperglycemia finding, got %#v", findings)
	}

	low := Fallback(values.Map{"glucose": {Value: "41"}}, catalog.TypeBiochemistry)
	findings = findingsOf(t, low)
	if len(findings) != 1 || !strings.Contains(findings[0]["finding"].(string), "Hypoglycemia") {
		t.Fatalf("want hypoglycemia finding, got %#v", findings)
	}
}

func TestFallbackUrinalysisPH(t *testing.T) {
	alkaline := findingsOf(t, Fallback(values.Map{"ph": {Value: "8.2"}}, catalog.TypeUrinalysis))
	if len(alkaline) != 1 || !strings.Contains(alkaline[0]["finding"].(string), "Alkaline") {
		t.Fatalf("want alkaline finding, got %#v", alkaline)
	}

	acidic := findingsOf(t, Fallback(values.Map{"ph": {Value: "4.9"}}, catalog.TypeUrinalysis))
	if len(acidic) != 1 || !strings.Contains(acidic[0]["finding"].(string), "Acidic") {
		t.Fatalf("want acidic finding, got %#v", acidic)
	}
}

func TestFallbackWithinRanges(t *testing.T) {
	vals := values.Map{
		"erythrocytes": {Value: "6.5"},
		"leukocytes":   {Value: "10"},
		"platelets":    {Value: "350"},
	}
	findings := findingsOf(t, Fallback(vals, catalog.TypeHemogram))
	if len(findings) != 1 {
		t.Fatalf("want exactly one finding, got %#v", findings)
	}
	if !strings.Contains(findings[0]["finding"].(string), "within reference ranges") {
		t.Fatalf("want within-reference-ranges finding, got %#v", findings[0])
	}
}

func TestFallbackIgnoresNonNumericValues(t *testing.T) {
	vals := values.Map{"glucose": {Value: "hemolyzed sample"}}
	findings := findingsOf(t, Fallback(vals, catalog.TypeBiochemistry))
	if len(findings) != 1 || !strings.Contains(findings[0]["finding"].(string), "within reference ranges") {
		t.Fatalf("non-numeric values should not produce threshold findings: %#v", findings)
	}
}
