package usecase

import (
	"context"

	"voiceover-studio/internal/domain/model"
)

// GenerationUseCase is the orchestrator port consumed by the job worker, so
// the worker package does not depend on the usecase implementation package.
type GenerationUseCase interface {
	// Generate runs the full synchronous pipeline for the voiceover:
	// validate, transition, clear approvals, annotate, synthesize, upload,
	// finalize. Re-entrant when the voiceover is already generating_audio
	// (the queued-worker case). On pipeline failure the voiceover has been
	// compensated to failed with the error message stored.
	Generate(ctx context.Context, voiceoverID, callerID string) (*model.Voiceover, error)

	// StartGeneration validates, flips status, clears approvals, and
	// enqueues a job. Idempotent: a live job for the voiceover is returned
	// as-is instead of enqueueing a duplicate.
	StartGeneration(ctx context.Context, voiceoverID, callerID string) (*model.GenerationJob, error)
}
