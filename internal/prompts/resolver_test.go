package prompts

import (
	"context"
	"errors"
	"testing"

	"vetlab-backend/internal/catalog"
)

func defFor(typ catalog.AnalysisType, name, language, template, model string) Definition {
	return Definition{
		ID:           "def-" + name,
		AnalysisType: typ,
		Name:         name,
		Language:     language,
		Template:     template,
		Model:        model,
	}
}

func TestResolveSingleMatch(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Put(defFor(catalog.TypeHemogram, NameOCRExtraction, "en", "read the report", "gemini-1.5-flash"))

	resolver := NewResolver(repo)
	got, err := resolver.Resolve(context.Background(), NameOCRExtraction, catalog.TypeHemogram, "en")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Template != "read the report" || got.Model != "gemini-1.5-flash" {
		t.Fatalf("unexpected resolution: %#v", got)
	}
}

func TestResolveNoMatchFails(t *testing.T) {
	resolver := NewResolver(NewMemoryRepo())

	_, err := resolver.Resolve(context.Background(), NameOCRExtraction, catalog.TypeHemogram, "en")
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("want ResolutionError, got %v", err)
	}
}

func TestResolveDuplicateMatchFails(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Put(defFor(catalog.TypeUrinalysis, NameClinicalInterpretation, "en", "a", "m"))
	repo.Put(defFor(catalog.TypeUrinalysis, NameClinicalInterpretation, "en", "b", "m"))

	_, err := NewResolver(repo).Resolve(context.Background(), NameClinicalInterpretation, catalog.TypeUrinalysis, "en")
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("want ResolutionError for duplicates, got %v", err)
	}
}

func TestResolveBlankTemplateOrModelFails(t *testing.T) {
	cases := []struct {
		name     string
		template string
		model    string
	}{
		{"blank template", "   ", "model"},
		{"blank model", "template", "\n\t"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewMemoryRepo()
			repo.Put(defFor(catalog.TypeBiochemistry, NameOCRExtraction, "pt", tc.template, tc.model))

			_, err := NewResolver(repo).Resolve(context.Background(), NameOCRExtraction, catalog.TypeBiochemistry, "pt")
			var resErr *ResolutionError
			if !errors.As(err, &resErr) {
				t.Fatalf("want ResolutionError, got %v", err)
			}
		})
	}
}

func TestResolveNoLanguageFallback(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Put(defFor(catalog.TypeHemogram, NameOCRExtraction, "en", "template", "model"))

	if _, err := NewResolver(repo).Resolve(context.Background(), NameOCRExtraction, catalog.TypeHemogram, "pt"); err == nil {
		t.Fatal("resolution must not fall back to another language")
	}
	if _, err := NewResolver(repo).Resolve(context.Background(), NameOCRExtraction, catalog.TypeHemogram, ""); err == nil {
		t.Fatal("empty language must fail resolution")
	}
}
