package catalog

// ParameterDefinition describes one expected lab value for an analysis type.
// Definitions are static: they drive the review field set and the threshold
// interpreter, and are never user-editable.
type ParameterDefinition struct {
	ID      string
	Label   string
	Unit    string
	RefMin  *float64
	RefMax  *float64
	RefText string
}

// RefRange renders the reference range for display and prompt building.
func (p ParameterDefinition) RefRange() string {
	if p.RefText != "" {
		return p.RefText
	}
	if p.RefMin != nil && p.RefMax != nil {
		return formatRange(*p.RefMin, *p.RefMax)
	}
	return ""
}

type typeConfig struct {
	params []ParameterDefinition
}

// One config record per enum variant, resolved through a table rather than
// scattered per-type conditionals.
var configs = map[AnalysisType]typeConfig{
	TypeHemogram:     {params: hemogramParams},
	TypeBiochemistry: {params: biochemistryParams},
	TypeUrinalysis:   {params: urinalysisParams},
}

// ForType returns the ordered parameter definitions for an analysis type.
// Unknown types yield an empty slice, not an error; callers treat empty as
// "nothing to review".
func ForType(t AnalysisType) []ParameterDefinition {
	cfg, ok := configs[t]
	if !ok {
		return []ParameterDefinition{}
	}
	out := make([]ParameterDefinition, len(cfg.params))
	copy(out, cfg.params)
	return out
}

// Find returns the definition for a parameter id within a type.
func Find(t AnalysisType, paramID string) (ParameterDefinition, bool) {
	cfg, ok := configs[t]
	if !ok {
		return ParameterDefinition{}, false
	}
	for _, p := range cfg.params {
		if p.ID == paramID {
			return p, true
		}
	}
	return ParameterDefinition{}, false
}
