package tts

import (
	"context"
	"log"
	"time"

	"voiceover-studio/internal/domain/ports/adapter"
)

var _ adapter.SpeechSynthesizer = (*NoopSynthesizer)(nil)

// NoopSynthesizer implements adapter.SpeechSynthesizer for local/dev runs.
// It returns one second of silence per speech turn.
type NoopSynthesizer struct{}

func NewNoopSynthesizer() *NoopSynthesizer {
	return &NoopSynthesizer{}
}

func (n *NoopSynthesizer) Synthesize(ctx context.Context, turns []adapter.SpeechTurn, voices []adapter.VoiceConfig) (*adapter.SynthesisResult, error) {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	log.Printf("[noop-tts] synthesizing %d turns with %d voices\n", len(turns), len(voices))
	enc := adapter.PCM24kHz16BitMono
	return &adapter.SynthesisResult{
		Audio:    make([]byte, enc.BytesPerSecond*len(turns)),
		Encoding: enc,
		MIMEType: "audio/wav",
	}, nil
}
