package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"vetlab-backend/internal/inference"
)

// Client implements inference.Client against the Gemini API.
type Client struct {
	apiKey string
}

// New constructs a Gemini-backed client.
func New(apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	return &Client{apiKey: strings.TrimSpace(apiKey)}, nil
}

// Generate issues one generation call and returns the first candidate's text.
// Generation is pinned toward deterministic structured output; safety blocks
// and empty candidate lists surface as typed errors. No retries.
func (c *Client) Generate(ctx context.Context, req inference.Request) (string, error) {
	if strings.TrimSpace(req.Model) == "" {
		return "", &inference.ServiceError{Op: "generate", Err: errors.New("model is required")}
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", &inference.ServiceError{Op: "connect", Err: err}
	}
	defer cl.Close()

	m := cl.GenerativeModel(req.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     ptrFloat32(0),
		TopP:            ptrFloat32(0.1),
		TopK:            ptrInt32(1),
		MaxOutputTokens: ptrInt32(8192),
	}
	m.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockOnlyHigh},
	}

	parts := []genai.Part{genai.Text(req.Prompt)}
	if req.Image != nil {
		parts = append(parts, &genai.Blob{MIMEType: req.Image.MIMEType, Data: req.Image.Data})
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", &inference.ServiceError{Op: "generate", Err: err}
	}
	return firstText(resp)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", &inference.SafetyError{Reason: resp.PromptFeedback.BlockReason.String()}
		}
		return "", inference.ErrEmptyResponse
	}
	for _, cand := range resp.Candidates {
		if cand.FinishReason == genai.FinishReasonSafety {
			return "", &inference.SafetyError{Reason: cand.FinishReason.String()}
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok && strings.TrimSpace(string(text)) != "" {
				return string(text), nil
			}
		}
	}
	return "", inference.ErrEmptyResponse
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
