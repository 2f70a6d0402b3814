package catalog

import "strings"

// AnalysisType is the closed set of lab report kinds the pipeline handles.
type AnalysisType string

const (
	TypeHemogram     AnalysisType = "hemogram"
	TypeBiochemistry AnalysisType = "biochemistry"
	TypeUrinalysis   AnalysisType = "urinalysis"
)

// Types lists every supported analysis type in a stable order.
func Types() []AnalysisType {
	return []AnalysisType{TypeHemogram, TypeBiochemistry, TypeUrinalysis}
}

// ParseType maps a raw string onto the closed enum.
func ParseType(raw string) (AnalysisType, bool) {
	switch AnalysisType(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeHemogram:
		return TypeHemogram, true
	case TypeBiochemistry:
		return TypeBiochemistry, true
	case TypeUrinalysis:
		return TypeUrinalysis, true
	default:
		return "", false
	}
}

// Valid reports whether t is a member of the closed enum.
func (t AnalysisType) Valid() bool {
	_, ok := ParseType(string(t))
	return ok
}
