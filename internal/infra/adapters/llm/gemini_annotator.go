// File: internal/infra/adapters/llm/gemini_annotator.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"voiceover-studio/internal/domain/ports/adapter"
)

var _ adapter.ScriptAnnotator = (*GeminiAnnotator)(nil)

// GeminiAnnotator is the Gemini-backed annotator. The response schema forces
// structured output so no lenient parsing is needed.
type GeminiAnnotator struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float64
}

func NewGeminiAnnotator(ctx context.Context, apiKey, baseURL, model string, maxTokens int, temperature float64) (*GeminiAnnotator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini annotator: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiAnnotator{client: c, model: model, maxTokens: maxTokens, temperature: temperature}, nil
}

var annotationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"annotatedText": {Type: genai.TypeString},
		"title":         {Type: genai.TypeString},
	},
	Required: []string{"annotatedText"},
}

func (g *GeminiAnnotator) Annotate(ctx context.Context, title, text string) (*adapter.ScriptAnnotation, error) {
	temp := float32(g.temperature)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(annotatorSystemPrompt, genai.RoleUser),
		MaxOutputTokens:   int32(g.maxTokens),
		Temperature:       &temp,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    annotationSchema,
	}

	prompt := fmt.Sprintf("Current title: %q\n\nScript:\n%s", title, text)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini annotator: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, errors.New("gemini annotator: empty response")
	}

	var ann adapter.ScriptAnnotation
	if err := json.Unmarshal([]byte(raw), &ann); err != nil {
		return nil, fmt.Errorf("gemini annotator: bad json: %w", err)
	}
	if ann.AnnotatedText == "" {
		return nil, errors.New("gemini annotator: empty annotatedText")
	}
	return &ann, nil
}
