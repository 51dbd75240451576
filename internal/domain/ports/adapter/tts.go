package adapter

import "context"

// SpeechTurn is one spoken segment attributed to a speaker alias.
type SpeechTurn struct {
	Speaker string
	Text    string
}

// VoiceConfig binds a speaker alias to a provider voice.
type VoiceConfig struct {
	SpeakerAlias string
	VoiceID      string
}

// AudioEncoding describes the synthesis output well enough to derive a
// duration without decoding: raw 16-bit mono PCM at 24 kHz is 48000 bytes
// per second.
type AudioEncoding struct {
	Name           string
	BytesPerSecond int
}

// PCM24kHz16BitMono is the encoding produced by the Gemini speech models.
var PCM24kHz16BitMono = AudioEncoding{Name: "pcm_s16le_24khz", BytesPerSecond: 48000}

// SynthesisResult is the raw audio with its encoding and MIME type.
type SynthesisResult struct {
	Audio    []byte
	Encoding AudioEncoding
	MIMEType string
}

// DurationSeconds derives the playback length from the payload size.
func (r *SynthesisResult) DurationSeconds() int {
	if r.Encoding.BytesPerSecond <= 0 {
		return 0
	}
	return len(r.Audio) / r.Encoding.BytesPerSecond
}

// SpeechSynthesizer is the port for text-to-speech. A single attempt;
// failures propagate to the caller and trigger the compensating failed
// transition.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, turns []SpeechTurn, voices []VoiceConfig) (*SynthesisResult, error)
}
