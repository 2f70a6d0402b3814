package inference

import (
	"errors"
	"testing"
)

func TestExtractJSONObjectFencedBlock(t *testing.T) {
	raw := "Here are the values:\n```json\n{\"a\": 1}\n```\nLet me know if you need more."

	got, err := ExtractJSONObject(raw)
	if err != nil {
		t.Fatalf("ExtractJSONObject: %v", err)
	}
	if got["a"] != float64(1) {
		t.Fatalf("got %#v", got)
	}
}

func TestExtractJSONObjectBraceSpan(t *testing.T) {
	got, err := ExtractJSONObject(`prefix {"a":1} suffix`)
	if err != nil {
		t.Fatalf("ExtractJSONObject: %v", err)
	}
	if got["a"] != float64(1) {
		t.Fatalf("got %#v", got)
	}
}

func TestExtractJSONObjectNestedBraces(t *testing.T) {
	got, err := ExtractJSONObject(`{"outer": {"inner": "x"}}`)
	if err != nil {
		t.Fatalf("ExtractJSONObject: %v", err)
	}
	inner, ok := got["outer"].(map[string]any)
	if !ok || inner["inner"] != "x" {
		t.Fatalf("got %#v", got)
	}
}

func TestExtractJSONObjectFailures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no braces", "the report could not be read"},
		{"empty", ""},
		{"malformed span", "prefix {not json} suffix"},
		{"json null", "null"},
		{"array not object", `[1, 2, 3]`},
		{"reversed braces", "} backwards {"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ExtractJSONObject(tc.raw); !errors.Is(err, ErrNoJSON) {
				t.Fatalf("want ErrNoJSON, got %v", err)
			}
		})
	}
}

func TestExtractJSONObjectMalformedFenceIsNotRepaired(t *testing.T) {
	if _, err := ExtractJSONObject("```json\n{\"a\": \n```"); !errors.Is(err, ErrNoJSON) {
		t.Fatalf("want ErrNoJSON for malformed fenced block, got %v", err)
	}
}
