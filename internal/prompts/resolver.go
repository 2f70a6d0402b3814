package prompts

import (
	"context"
	"fmt"
	"strings"

	"vetlab-backend/internal/catalog"
)

// Resolved is a usable template/model pairing.
type Resolved struct {
	Template string
	Model    string
}

// ResolutionError reports why a prompt key could not be resolved. Stages abort
// before any inference call when they see one.
type ResolutionError struct {
	AnalysisType catalog.AnalysisType
	Name         string
	Language     string
	Reason       string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve prompt %s/%s/%s: %s", e.AnalysisType, e.Name, e.Language, e.Reason)
}

// Resolver looks prompt keys up against the externally managed repository.
type Resolver struct {
	Repo Repo
}

// NewResolver constructs a Resolver.
func NewResolver(repo Repo) *Resolver {
	return &Resolver{Repo: repo}
}

// Resolve returns the template and model for a (name, type, language) triple.
// Language is part of the identity key; there is no implicit fallback. Zero or
// multiple matches, or blank template/model after trimming, fail resolution.
func (r *Resolver) Resolve(ctx context.Context, name string, analysisType catalog.AnalysisType, language string) (Resolved, error) {
	fail := func(reason string) (Resolved, error) {
		return Resolved{}, &ResolutionError{AnalysisType: analysisType, Name: name, Language: language, Reason: reason}
	}

	if strings.TrimSpace(language) == "" {
		return fail("language is required")
	}

	defs, err := r.Repo.Find(ctx, analysisType, name, language)
	if err != nil {
		return fail("lookup failed: " + err.Error())
	}
	switch len(defs) {
	case 0:
		return fail("no matching prompt definition")
	case 1:
	default:
		return fail(fmt.Sprintf("%d matching prompt definitions", len(defs)))
	}

	template := strings.TrimSpace(defs[0].Template)
	model := strings.TrimSpace(defs[0].Model)
	if template == "" {
		return fail("template is empty")
	}
	if model == "" {
		return fail("model is empty")
	}
	return Resolved{Template: template, Model: model}, nil
}
