// File: internal/infra/adapters/llm/openai_annotator.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/pkoukk/tiktoken-go"

	"voiceover-studio/internal/domain/ports/adapter"
)

var _ adapter.ScriptAnnotator = (*OpenAIAnnotator)(nil)

// promptTokenBudget caps how much of the script is sent for annotation.
// Scripts longer than this are annotated on a truncated prefix; the TTS
// still receives the raw text, so nothing is lost on fallback.
const promptTokenBudget = 6000

// OpenAIAnnotator asks a chat model to add delivery cues (pauses, emphasis)
// to a voiceover script and to suggest a title for untitled content.
type OpenAIAnnotator struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
	encoder     *tiktoken.Tiktoken
}

func NewOpenAIAnnotator(apiKey, model string, maxTokens int, temperature float64) (*OpenAIAnnotator, error) {
	if apiKey == "" {
		return nil, errors.New("openai annotator: empty api key")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Model unknown to the tokenizer; cl100k_base is a close enough
		// estimate for budgeting purposes.
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("openai annotator: tokenizer: %w", err)
		}
	}
	return &OpenAIAnnotator{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		encoder:     enc,
	}, nil
}

const annotatorSystemPrompt = `You prepare scripts for text-to-speech narration.
Given a voiceover script, return JSON with:
- "annotatedText": the script with natural pauses, emphasis and pacing cues suitable for TTS
- "title": a short descriptive title, only when the current title is missing or a placeholder
Respond with JSON only.`

func (o *OpenAIAnnotator) Annotate(ctx context.Context, title, text string) (*adapter.ScriptAnnotation, error) {
	prompt := fmt.Sprintf("Current title: %q\n\nScript:\n%s", title, o.truncate(text))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(annotatorSystemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(o.maxTokens)),
		Temperature: openai.Float(o.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai annotator: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai annotator: no choices")
	}

	var ann adapter.ScriptAnnotation
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &ann); err != nil {
		return nil, fmt.Errorf("openai annotator: bad json: %w", err)
	}
	if ann.AnnotatedText == "" {
		return nil, errors.New("openai annotator: empty annotatedText")
	}
	return &ann, nil
}

func (o *OpenAIAnnotator) truncate(text string) string {
	tokens := o.encoder.Encode(text, nil, nil)
	if len(tokens) <= promptTokenBudget {
		return text
	}
	return o.encoder.Decode(tokens[:promptTokenBudget])
}
