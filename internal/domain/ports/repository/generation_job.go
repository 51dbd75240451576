package repository

import (
	"context"

	"voiceover-studio/internal/domain/model"
)

type GenerationJobRepository interface {
	Save(ctx context.Context, tx Tx, job *model.GenerationJob) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.GenerationJob, error)
	// FindOpenByVoiceover returns the pending or processing job for the
	// voiceover, or ErrNotFound. Checked before every enqueue.
	FindOpenByVoiceover(ctx context.Context, tx Tx, voiceoverID string) (*model.GenerationJob, error)
	// FetchAndMarkProcessing atomically claims the oldest pending job and
	// marks it processing so no other worker picks it up.
	FetchAndMarkProcessing(ctx context.Context) (*model.GenerationJob, error)
}
