// File: internal/infra/worker/generation_processor.go
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"voiceover-studio/internal/domain"
	"voiceover-studio/internal/domain/model"
	"voiceover-studio/internal/domain/ports/repository"
	"voiceover-studio/internal/domain/ports/usecase"
	"voiceover-studio/internal/infra/logging"
	"voiceover-studio/internal/infra/metrics"
)

// GenerationProcessor drains pending generation jobs and re-enters the
// orchestrator's synchronous path. The voiceover is already in
// generating_audio when the job was enqueued, which the orchestrator treats
// as a valid entry state.
type GenerationProcessor struct {
	jobs         repository.GenerationJobRepository
	generationUC usecase.GenerationUseCase
	pollInterval time.Duration
	log          *zerolog.Logger
}

func NewGenerationProcessor(
	jobs repository.GenerationJobRepository,
	generationUC usecase.GenerationUseCase,
	pollInterval time.Duration,
	log *zerolog.Logger,
) *GenerationProcessor {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &GenerationProcessor{
		jobs:         jobs,
		generationUC: generationUC,
		pollInterval: pollInterval,
		log:          log,
	}
}

// Start runs a loop to fetch and process jobs.
// This should be run in a goroutine.
func (p *GenerationProcessor) Start(ctx context.Context, pool *Pool) {
	p.log.Info().Msg("generation processor started")
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("generation processor stopping")
			return
		case <-ticker.C:
			_ = pool.Submit(func(ctx context.Context) error {
				p.processOne(ctx)
				return nil
			})
		}
	}
}

func (p *GenerationProcessor) processOne(ctx context.Context) {
	job, err := p.jobs.FetchAndMarkProcessing(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.log.Error().Err(err).Msg("failed to fetch generation job")
		}
		return // no job found, or an error occurred
	}

	ctx = logging.WithJobID(logging.WithVoiceoverID(ctx, job.Payload.VoiceoverID), job.ID)
	logging.With(ctx, p.log).Info().Msg("processing generation job")
	start := time.Now()

	_, err = p.generationUC.Generate(ctx, job.Payload.VoiceoverID, job.Payload.RequestedBy)
	latency := time.Since(start)

	// A failed generation has already compensated the voiceover to failed
	// with the message stored; here we only record the job outcome.
	now := time.Now()
	job.CompletedAt = &now
	if err != nil {
		job.Status = model.GenerationJobStatusFailed
		job.LastError = err.Error()
		p.log.Error().Err(err).Str("job_id", job.ID).Msg("generation job failed")
	} else {
		job.Status = model.GenerationJobStatusCompleted
		job.Result = "ok"
	}

	metrics.IncJobProcessed(string(job.Status))
	// Use a background context for the final update so a canceled request
	// context cannot leave the job stuck in processing.
	if err := p.jobs.Save(context.Background(), nil, job); err != nil {
		p.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to persist job outcome")
	}
	p.log.Info().Str("job_id", job.ID).Str("status", string(job.Status)).Dur("duration_ms", latency).Msg("generation job finished")
}
