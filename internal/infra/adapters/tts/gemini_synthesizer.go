// File: internal/infra/adapters/tts/gemini_synthesizer.go
package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"voiceover-studio/internal/domain/ports/adapter"
)

var _ adapter.SpeechSynthesizer = (*GeminiSynthesizer)(nil)

// GeminiSynthesizer produces speech with the Gemini TTS models. Output is
// raw 16-bit mono PCM at 24 kHz, which lets the orchestrator derive a
// duration from the byte count alone.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
}

// NewGeminiSynthesizer creates a synthesizer using the official SDK.
func NewGeminiSynthesizer(ctx context.Context, apiKey, baseURL, model string) (*GeminiSynthesizer, error) {
	if apiKey == "" {
		return nil, errors.New("gemini tts: empty api key")
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
		model = "gemini-2.5-flash-preview-tts"
	}
	return &GeminiSynthesizer{client: c, model: model}, nil
}

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, turns []adapter.SpeechTurn, voices []adapter.VoiceConfig) (*adapter.SynthesisResult, error) {
	if len(turns) == 0 {
		return nil, errors.New("gemini tts: no turns")
	}
	if len(voices) == 0 {
		return nil, errors.New("gemini tts: no voice configs")
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig:       speechConfig(voices),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(renderScript(turns)), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini tts: %w", err)
	}

	blob := firstAudioBlob(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, errors.New("gemini tts: response contained no audio")
	}

	return &adapter.SynthesisResult{
		Audio:    blob.Data,
		Encoding: adapter.PCM24kHz16BitMono,
		MIMEType: mimeOrDefault(blob.MIMEType),
	}, nil
}

// speechConfig picks the single-voice path when possible; the multi-speaker
// config requires every turn to name one of the aliases.
func speechConfig(voices []adapter.VoiceConfig) *genai.SpeechConfig {
	if len(voices) == 1 {
		return &genai.SpeechConfig{
			VoiceConfig: prebuilt(voices[0].VoiceID),
		}
	}
	cfgs := make([]*genai.SpeakerVoiceConfig, 0, len(voices))
	for _, v := range voices {
		cfgs = append(cfgs, &genai.SpeakerVoiceConfig{
			Speaker:     v.SpeakerAlias,
			VoiceConfig: prebuilt(v.VoiceID),
		})
	}
	return &genai.SpeechConfig{
		MultiSpeakerVoiceConfig: &genai.MultiSpeakerVoiceConfig{
			SpeakerVoiceConfigs: cfgs,
		},
	}
}

func prebuilt(voiceID string) *genai.VoiceConfig {
	return &genai.VoiceConfig{
		PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voiceID},
	}
}

// renderScript flattens turns into the "Speaker: text" transcript the TTS
// models expect.
func renderScript(turns []adapter.SpeechTurn) string {
	if len(turns) == 1 {
		return turns[0].Text
	}
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(t.Speaker)
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func firstAudioBlob(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil {
				return part.InlineData
			}
		}
	}
	return nil
}

func mimeOrDefault(mime string) string {
	if mime == "" {
		return "audio/wav"
	}
	return mime
}
