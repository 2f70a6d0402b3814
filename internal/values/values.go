// Package values reconciles the shapes an extracted value map has been stored
// in over time. Older records nest the map one level under a "values" wrapper
// key; newer records store the flat map directly. Normalize accepts both and
// produces one canonical flat form, so the ambiguity never leaks past the
// store boundary into stage logic.
package values

import (
	"sort"
	"strconv"
	"strings"
)

// legacyWrapperKey is the single wrapper older records nested the map under.
const legacyWrapperKey = "values"

// Value is one extracted lab value in canonical form.
type Value struct {
	Value          string `json:"value"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"reference_range,omitempty"`
}

// Map is the canonical flat parameter-id keyed value map.
type Map map[string]Value

// Normalize converts a raw stored payload, flat or legacy-nested, into the
// canonical flat Map. Entries that are bare scalars become value-only entries.
func Normalize(raw map[string]any) Map {
	if raw == nil {
		return Map{}
	}
	if nested, ok := unwrapLegacy(raw); ok {
		raw = nested
	}
	out := make(Map, len(raw))
	for key, entry := range raw {
		if key == "" || entry == nil {
			continue
		}
		out[key] = decodeEntry(entry)
	}
	return out
}

// Denormalize renders a Map back into the shape persisted going forward.
// It always writes the canonical flat form; no new legacy shapes are created.
func Denormalize(m Map) map[string]any {
	out := make(map[string]any, len(m))
	for key, v := range m {
		entry := map[string]any{"value": v.Value}
		if v.Unit != "" {
			entry["unit"] = v.Unit
		}
		if v.ReferenceRange != "" {
			entry["reference_range"] = v.ReferenceRange
		}
		out[key] = entry
	}
	return out
}

// Number parses the numeric content of a value, tolerating decimal commas and
// trailing annotations like "5.4 (low)".
func (v Value) Number() (float64, bool) {
	s := strings.TrimSpace(v.Value)
	if s == "" {
		return 0, false
	}
	if i := strings.IndexAny(s, " ("); i > 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, ",", ".")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Keys returns the parameter ids in sorted order for stable iteration.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func unwrapLegacy(raw map[string]any) (map[string]any, bool) {
	if len(raw) != 1 {
		return nil, false
	}
	inner, ok := raw[legacyWrapperKey]
	if !ok {
		return nil, false
	}
	nested, ok := inner.(map[string]any)
	if !ok {
		return nil, false
	}
	return nested, true
}

func decodeEntry(entry any) Value {
	switch e := entry.(type) {
	case map[string]any:
		return Value{
			Value:          stringify(firstOf(e, "value", "val")),
			Unit:           stringify(e["unit"]),
			ReferenceRange: stringify(firstOf(e, "reference_range", "referenceRange", "range")),
		}
	default:
		return Value{Value: stringify(entry)}
	}
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}
