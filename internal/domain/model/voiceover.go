package model

import (
	"strings"
	"time"

	"voiceover-studio/internal/domain"
)

type VoiceoverStatus string

const (
	VoiceoverStatusDrafting   VoiceoverStatus = "drafting"
	VoiceoverStatusGenerating VoiceoverStatus = "generating_audio"
	VoiceoverStatusReady      VoiceoverStatus = "ready"
	VoiceoverStatusFailed     VoiceoverStatus = "failed"
)

// DefaultTitle is the placeholder assigned at creation. A title produced by
// script annotation only replaces it while it is still the placeholder;
// user-supplied titles are never overwritten.
const DefaultTitle = "Untitled voiceover"

// DefaultVoice is the prebuilt voice assigned to new voiceovers.
const DefaultVoice = "Charon"

// voiceoverTransitions is the closed transition table. Any status change not
// listed here is rejected at the point of mutation.
var voiceoverTransitions = map[VoiceoverStatus][]VoiceoverStatus{
	VoiceoverStatusDrafting:   {VoiceoverStatusGenerating},
	VoiceoverStatusReady:      {VoiceoverStatusGenerating},
	VoiceoverStatusFailed:     {VoiceoverStatusGenerating},
	VoiceoverStatusGenerating: {VoiceoverStatusReady, VoiceoverStatusFailed},
}

// Voiceover is a piece of synthesized-audio content driven through the
// generation state machine.
type Voiceover struct {
	ID              string
	Title           string
	Text            string
	Voice           string
	AudioURL        string
	DurationSeconds int
	Status          VoiceoverStatus
	ErrorMessage    string
	OwnerApproved   bool
	OwnerID         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewVoiceover returns a drafting voiceover with the placeholder title and
// default voice, owned by its creator.
func NewVoiceover(id, ownerID, title string) *Voiceover {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	now := time.Now()
	return &Voiceover{
		ID:        id,
		Title:     title,
		Voice:     DefaultVoice,
		Status:    VoiceoverStatusDrafting,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanTransition reports whether moving to the target status is allowed by
// the transition table. A no-op transition (same status) is allowed only for
// generating_audio, which is a valid re-entry state for the worker.
func (v *Voiceover) CanTransition(to VoiceoverStatus) bool {
	if v.Status == VoiceoverStatusGenerating && to == VoiceoverStatusGenerating {
		return true
	}
	for _, next := range voiceoverTransitions[v.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// BeginGeneration moves the voiceover into generating_audio and clears the
// owner approval flag. Idempotent when already generating. Collaborator
// approvals are cleared by the same transaction in the approval layer.
func (v *Voiceover) BeginGeneration() error {
	if !v.CanTransition(VoiceoverStatusGenerating) {
		return domain.ErrInvalidStatusTransition
	}
	v.Status = VoiceoverStatusGenerating
	v.OwnerApproved = false
	v.UpdatedAt = time.Now()
	return nil
}

// MarkReady finalizes a successful generation with the produced audio.
func (v *Voiceover) MarkReady(audioURL string, durationSeconds int) error {
	if !v.CanTransition(VoiceoverStatusReady) {
		return domain.ErrInvalidStatusTransition
	}
	v.Status = VoiceoverStatusReady
	v.AudioURL = audioURL
	v.DurationSeconds = durationSeconds
	v.ErrorMessage = ""
	v.UpdatedAt = time.Now()
	return nil
}

// MarkFailed is the compensating transition after a pipeline failure. The
// stored message is the authoritative record of the last failure reason.
func (v *Voiceover) MarkFailed(message string) error {
	if !v.CanTransition(VoiceoverStatusFailed) {
		return domain.ErrInvalidStatusTransition
	}
	v.Status = VoiceoverStatusFailed
	v.ErrorMessage = message
	v.UpdatedAt = time.Now()
	return nil
}

// HasText reports whether the voiceover has non-whitespace source text.
func (v *Voiceover) HasText() bool {
	return strings.TrimSpace(v.Text) != ""
}

// TitleIsPlaceholder reports whether the title may be replaced by an
// annotation-suggested one.
func (v *Voiceover) TitleIsPlaceholder() bool {
	t := strings.TrimSpace(v.Title)
	return t == "" || t == DefaultTitle
}
