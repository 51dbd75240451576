// File: internal/usecase/generation_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"voiceover-studio/internal/domain"
	"voiceover-studio/internal/domain/model"
	"voiceover-studio/internal/domain/ports/adapter"
	"voiceover-studio/internal/domain/ports/repository"
	ucport "voiceover-studio/internal/domain/ports/usecase"
	"voiceover-studio/internal/infra/metrics"
)

// Compile-time check
var _ ucport.GenerationUseCase = (*generationUC)(nil)

const (
	// startLockTTL bounds how long a crashed starter can block new starts.
	startLockTTL = 10 * time.Second
	audioKeyName = "audio.wav"
)

type generationUC struct {
	voiceovers    repository.VoiceoverRepository
	collaborators repository.CollaboratorRepository
	jobs          repository.GenerationJobRepository
	tm            repository.TransactionManager
	locker        adapter.Locker
	tts           adapter.SpeechSynthesizer
	annotator     adapter.ScriptAnnotator
	store         adapter.ObjectStore
	log           *zerolog.Logger
}

func NewGenerationUseCase(
	voiceovers repository.VoiceoverRepository,
	collaborators repository.CollaboratorRepository,
	jobs repository.GenerationJobRepository,
	tm repository.TransactionManager,
	locker adapter.Locker,
	tts adapter.SpeechSynthesizer,
	annotator adapter.ScriptAnnotator,
	store adapter.ObjectStore,
	log *zerolog.Logger,
) *generationUC {
	return &generationUC{
		voiceovers:    voiceovers,
		collaborators: collaborators,
		jobs:          jobs,
		tm:            tm,
		locker:        locker,
		tts:           tts,
		annotator:     annotator,
		store:         store,
		log:           log,
	}
}

// loadValidated runs the shared preconditions: the voiceover exists, the
// caller owns it, the status admits generation, and there is text to speak.
// generating_audio is a valid entry state because the queued worker re-enters
// the synchronous path after the async start already flipped the status.
func (g *generationUC) loadValidated(ctx context.Context, voiceoverID, callerID string) (*model.Voiceover, error) {
	v, err := g.voiceovers.FindByID(ctx, nil, voiceoverID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != callerID {
		return nil, domain.ErrNotOwner
	}
	switch v.Status {
	case model.VoiceoverStatusDrafting, model.VoiceoverStatusReady,
		model.VoiceoverStatusFailed, model.VoiceoverStatusGenerating:
	default:
		return nil, &domain.InvalidGenerationError{Reason: "bad status"}
	}
	if !v.HasText() {
		return nil, &domain.InvalidGenerationError{Reason: "no text"}
	}
	return v, nil
}

// beginGeneration flips the voiceover into generating_audio and clears the
// owner and every collaborator approval in one transaction. An approval is a
// statement about audio that is about to be replaced, so the pairing is an
// invariant, not a side effect.
func (g *generationUC) beginGeneration(ctx context.Context, v *model.Voiceover) error {
	if err := v.BeginGeneration(); err != nil {
		return err
	}
	return g.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := g.voiceovers.Save(ctx, tx, v); err != nil {
			return err
		}
		return g.collaborators.ClearApprovals(ctx, tx, v.ID)
	})
}

// Generate is the synchronous path: preprocessing, synthesis, upload and
// finalization in one call. Any failure in the external pipeline compensates
// the voiceover to failed with the failure's message before re-raising,
// except annotator failures, which are swallowed.
func (g *generationUC) Generate(ctx context.Context, voiceoverID, callerID string) (*model.Voiceover, error) {
	defer metrics.ObserveGenerationDuration(time.Now())

	v, err := g.loadValidated(ctx, voiceoverID, callerID)
	if err != nil {
		return nil, err
	}
	if err := g.beginGeneration(ctx, v); err != nil {
		return nil, err
	}

	if err := g.runPipeline(ctx, v); err != nil {
		g.compensate(ctx, v, err)
		metrics.IncGeneration("failed")
		return nil, err
	}

	metrics.IncGeneration("ready")
	g.log.Info().Str("voiceover_id", v.ID).Int("duration_s", v.DurationSeconds).Msg("generation finished")
	return v, nil
}

// runPipeline performs steps that call out to external services. It mutates
// v on success; on error the caller compensates.
func (g *generationUC) runPipeline(ctx context.Context, v *model.Voiceover) error {
	text := v.Text
	suggestedTitle := ""
	if g.annotator != nil {
		if ann, err := g.annotator.Annotate(ctx, v.Title, v.Text); err != nil {
			// Annotation is an enhancement, not a precondition.
			g.log.Warn().Err(err).Str("voiceover_id", v.ID).Msg("annotation failed, using raw text")
		} else if ann != nil && ann.AnnotatedText != "" {
			text = ann.AnnotatedText
			suggestedTitle = ann.Title
		}
	}

	start := time.Now()
	res, err := g.tts.Synthesize(ctx,
		[]adapter.SpeechTurn{{Speaker: "narrator", Text: text}},
		[]adapter.VoiceConfig{{SpeakerAlias: "narrator", VoiceID: v.Voice}},
	)
	metrics.ObserveSynthesis(time.Since(start), err == nil)
	if err != nil {
		return &domain.ExternalServiceError{Service: "tts", Err: err}
	}
	metrics.AddSynthesizedBytes(len(res.Audio))

	key := fmt.Sprintf("voiceovers/%s/%s", v.ID, audioKeyName)
	if err := g.store.Upload(ctx, key, res.Audio, res.MIMEType); err != nil {
		return &domain.ExternalServiceError{Service: "storage", Err: err}
	}

	if suggestedTitle != "" && v.TitleIsPlaceholder() {
		v.Title = suggestedTitle
	}
	if err := v.MarkReady(g.store.URL(key), res.DurationSeconds()); err != nil {
		return err
	}
	return g.voiceovers.Save(ctx, nil, v)
}

// compensate records the terminal failed state. The stored message becomes
// the authoritative record of the last failure reason.
func (g *generationUC) compensate(ctx context.Context, v *model.Voiceover, cause error) {
	msg := cause.Error()
	var ext *domain.ExternalServiceError
	if errors.As(cause, &ext) {
		msg = ext.Err.Error()
	}
	if err := v.MarkFailed(msg); err != nil {
		g.log.Error().Err(err).Str("voiceover_id", v.ID).Msg("compensating transition rejected")
		return
	}
	if err := g.voiceovers.Save(ctx, nil, v); err != nil {
		g.log.Error().Err(err).Str("voiceover_id", v.ID).Msg("failed to persist compensating transition")
	}
}

// StartGeneration is the asynchronous path: validate, flip status, clear
// approvals and enqueue. Repeated calls while a job is in flight return the
// same job. The per-voiceover lock plus the open-job partial unique index in
// Postgres make the check-then-act sequence safe against concurrent starts.
func (g *generationUC) StartGeneration(ctx context.Context, voiceoverID, callerID string) (*model.GenerationJob, error) {
	v, err := g.loadValidated(ctx, voiceoverID, callerID)
	if err != nil {
		return nil, err
	}

	// Fast path: a live job means a start is already in flight.
	if job, err := g.jobs.FindOpenByVoiceover(ctx, nil, voiceoverID); err == nil {
		return job, nil
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	token, err := g.locker.TryLock(ctx, "generation:start:"+voiceoverID, startLockTTL)
	if err != nil {
		return nil, domain.ErrGenerationLocked
	}
	defer func() { _ = g.locker.Unlock(ctx, "generation:start:"+voiceoverID, token) }()

	// Re-check under the lock; a racing starter may have enqueued already.
	if job, err := g.jobs.FindOpenByVoiceover(ctx, nil, voiceoverID); err == nil {
		return job, nil
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	priorStatus := v.Status
	priorOwnerApproved := v.OwnerApproved
	if err := g.beginGeneration(ctx, v); err != nil {
		return nil, err
	}

	job := &model.GenerationJob{
		ID:     ulid.Make().String(),
		Type:   model.JobTypeVoiceoverGeneration,
		Status: model.GenerationJobStatusPending,
		Payload: model.GenerationJobPayload{
			VoiceoverID: v.ID,
			RequestedBy: callerID,
		},
		OwnerID:   callerID,
		CreatedAt: time.Now(),
	}
	if err := g.jobs.Save(ctx, nil, job); err != nil {
		// Enqueue failed after the status flip: revert rather than leave the
		// voiceover stuck in generating_audio with no job backing it.
		v.Status = priorStatus
		v.OwnerApproved = priorOwnerApproved
		v.UpdatedAt = time.Now()
		if saveErr := g.voiceovers.Save(ctx, nil, v); saveErr != nil {
			g.log.Error().Err(saveErr).Str("voiceover_id", v.ID).Msg("failed to revert status after enqueue failure")
		}
		return nil, fmt.Errorf("enqueue generation job: %w", err)
	}

	metrics.IncJobEnqueued()
	g.log.Info().Str("voiceover_id", v.ID).Str("job_id", job.ID).Msg("generation job enqueued")
	return job, nil
}
