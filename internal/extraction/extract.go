// Package extraction converts an uploaded lab report image into a structured
// value map through one inference call.
package extraction

import (
	"context"
	"fmt"
	"strings"

	"vetlab-backend/internal/catalog"
	"vetlab-backend/internal/inference"
	"vetlab-backend/internal/prompts"
	"vetlab-backend/internal/values"
)

// MaxFileSize bounds accepted uploads; checked before any network call.
const MaxFileSize = 10 << 20

// ValidationError reports a rejected input. It always fires before the
// inference service is contacted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("extraction: invalid %s: %s", e.Field, e.Reason)
}

var allowedMIMETypes = map[string]struct{}{
	"image/png":       {},
	"image/jpeg":      {},
	"image/gif":       {},
	"image/webp":      {},
	"application/pdf": {},
}

// ValidateFile checks mime type and size limits for an upload.
func ValidateFile(mimeType string, size int64) error {
	if _, ok := allowedMIMETypes[strings.ToLower(strings.TrimSpace(mimeType))]; !ok {
		return &ValidationError{Field: "file", Reason: "unsupported type " + mimeType}
	}
	if size <= 0 {
		return &ValidationError{Field: "file", Reason: "empty file"}
	}
	if size > MaxFileSize {
		return &ValidationError{Field: "file", Reason: fmt.Sprintf("size %d exceeds %d byte limit", size, MaxFileSize)}
	}
	return nil
}

// Extractor is the extraction stage.
type Extractor struct {
	Resolver *prompts.Resolver
	Client   inference.Client
}

// Extract validates the upload, resolves the ocr_extraction prompt, issues one
// generation call with the image inline, and parses the response into a value
// map. An empty object, non-object, or unparsable response is a total failure;
// nothing is salvaged or default-filled.
func (e *Extractor) Extract(ctx context.Context, image []byte, mimeType string, analysisType catalog.AnalysisType, language string) (values.Map, error) {
	if err := ValidateFile(mimeType, int64(len(image))); err != nil {
		return nil, err
	}

	resolved, err := e.Resolver.Resolve(ctx, prompts.NameOCRExtraction, analysisType, language)
	if err != nil {
		return nil, err
	}

	text, err := e.Client.Generate(ctx, inference.Request{
		Model:  resolved.Model,
		Prompt: resolved.Template,
		Image:  &inference.Blob{MIMEType: mimeType, Data: image},
	})
	if err != nil {
		return nil, err
	}

	obj, err := inference.ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}
	if len(obj) == 0 {
		return nil, &inference.ParseError{Snippet: "empty object"}
	}
	return values.Normalize(obj), nil
}
