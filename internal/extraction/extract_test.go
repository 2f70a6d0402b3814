package extraction

import (
	"context"
	"errors"
	"testing"

	"vetlab-backend/internal/catalog"
	"vetlab-backend/internal/inference"
	"vetlab-backend/internal/prompts"
)

type staticClient struct {
	resp    string
	err     error
	calls   int
	lastReq inference.Request
}

func (c *staticClient) Generate(ctx context.Context, req inference.Request) (string, error) {
	_ = ctx
	c.calls++
	c.lastReq = req
	if c.err != nil {
		return "", c.err
	}
	return c.resp, nil
}

func extractorWith(client inference.Client) *Extractor {
	repo := prompts.NewMemoryRepo()
	prompts.SeedDefaults(repo, "gemini-1.5-flash")
	return &Extractor{Resolver: prompts.NewResolver(repo), Client: client}
}

func TestExtractHappyPath(t *testing.T) {
	client := &staticClient{resp: "```json\n{\"glucose\": {\"value\": \"98\", \"unit\": \"mg/dL\"}}\n```"}
	ex := extractorWith(client)

	got, err := ex.Extract(context.Background(), []byte("img"), "image/png", catalog.TypeBiochemistry, "en")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got["glucose"].Value != "98" || got["glucose"].Unit != "mg/dL" {
		t.Fatalf("unexpected value map: %#v", got)
	}
	if client.lastReq.Image == nil || client.lastReq.Image.MIMEType != "image/png" {
		t.Fatalf("image payload not attached: %#v", client.lastReq.Image)
	}
}

func TestExtractValidationRejectsBeforeCall(t *testing.T) {
	client := &staticClient{resp: `{}`}
	ex := extractorWith(client)

	cases := []struct {
		name string
		img  []byte
		mime string
	}{
		{"bad mime", []byte("x"), "image/tiff"},
		{"empty file", nil, "image/png"},
		{"oversize", make([]byte, MaxFileSize+1), "image/jpeg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ex.Extract(context.Background(), tc.img, tc.mime, catalog.TypeHemogram, "en")
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
		})
	}
	if client.calls != 0 {
		t.Fatalf("validation failures must not reach the inference service, got %d calls", client.calls)
	}
}

func TestExtractAcceptsPDF(t *testing.T) {
	client := &staticClient{resp: `{"ph": {"value": "6.5"}}`}
	ex := extractorWith(client)

	if _, err := ex.Extract(context.Background(), []byte("%PDF"), "application/pdf", catalog.TypeUrinalysis, "en"); err != nil {
		t.Fatalf("pdf should be accepted: %v", err)
	}
}

func TestExtractUnparsableResponseIsTotalFailure(t *testing.T) {
	for _, resp := range []string{"no values here", `[]`, `{}`, "null"} {
		client := &staticClient{resp: resp}
		ex := extractorWith(client)

		_, err := ex.Extract(context.Background(), []byte("img"), "image/png", catalog.TypeHemogram, "en")
		if !errors.Is(err, inference.ErrNoJSON) {
			t.Fatalf("resp %q: want ErrNoJSON, got %v", resp, err)
		}
	}
}

func TestExtractPromptResolutionFailureAbortsBeforeCall(t *testing.T) {
	client := &staticClient{resp: `{"a": "1"}`}
	ex := &Extractor{Resolver: prompts.NewResolver(prompts.NewMemoryRepo()), Client: client}

	_, err := ex.Extract(context.Background(), []byte("img"), "image/png", catalog.TypeHemogram, "en")
	var resErr *prompts.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("want ResolutionError, got %v", err)
	}
	if client.calls != 0 {
		t.Fatal("resolution failure must abort before any inference call")
	}
}

func TestExtractSafetyBlockSurfaces(t *testing.T) {
	client := &staticClient{err: &inference.SafetyError{Reason: "SAFETY"}}
	ex := extractorWith(client)

	_, err := ex.Extract(context.Background(), []byte("img"), "image/png", catalog.TypeHemogram, "en")
	var safety *inference.SafetyError
	if !errors.As(err, &safety) {
		t.Fatalf("want SafetyError, got %v", err)
	}
}
