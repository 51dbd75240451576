//go:build !integration

package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"voiceover-studio/internal/domain"
	"voiceover-studio/internal/domain/model"
	"voiceover-studio/internal/domain/ports/repository"
)

type fakeJobRepo struct {
	mu    sync.Mutex
	store map[string]*model.GenerationJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{store: map[string]*model.GenerationJob{}}
}

func (r *fakeJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	r.store[cp.ID] = &cp
	return nil
}

func (r *fakeJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJobRepo) FindOpenByVoiceover(ctx context.Context, tx repository.Tx, voiceoverID string) (*model.GenerationJob, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeJobRepo) FetchAndMarkProcessing(ctx context.Context) (*model.GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.store {
		if j.Status == model.GenerationJobStatusPending {
			now := time.Now()
			j.Status = model.GenerationJobStatusProcessing
			j.StartedAt = &now
			cp := *j
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeGenerationUC struct {
	err   error
	calls int
}

func (g *fakeGenerationUC) Generate(ctx context.Context, voiceoverID, callerID string) (*model.Voiceover, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &model.Voiceover{ID: voiceoverID, Status: model.VoiceoverStatusReady}, nil
}

func (g *fakeGenerationUC) StartGeneration(ctx context.Context, voiceoverID, callerID string) (*model.GenerationJob, error) {
	return nil, errors.New("not used in worker tests")
}

func silentLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func pendingJob(id string) *model.GenerationJob {
	return &model.GenerationJob{
		ID:     id,
		Type:   model.JobTypeVoiceoverGeneration,
		Status: model.GenerationJobStatusPending,
		Payload: model.GenerationJobPayload{
			VoiceoverID: "vo-1",
			RequestedBy: "owner-1",
		},
		OwnerID:   "owner-1",
		CreatedAt: time.Now(),
	}
}

func TestGenerationProcessor_ProcessOne(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the job completed on success", func(t *testing.T) {
		jobs := newFakeJobRepo()
		jobs.Save(ctx, nil, pendingJob("job-1"))
		gen := &fakeGenerationUC{}
		p := NewGenerationProcessor(jobs, gen, time.Millisecond, silentLogger())

		p.processOne(ctx)

		if gen.calls != 1 {
			t.Fatalf("expected one generation call, got %d", gen.calls)
		}
		j, _ := jobs.FindByID(ctx, nil, "job-1")
		if j.Status != model.GenerationJobStatusCompleted {
			t.Errorf("expected completed, got %s", j.Status)
		}
		if j.CompletedAt == nil {
			t.Error("expected a completion timestamp")
		}
	})

	t.Run("marks the job failed and records the error", func(t *testing.T) {
		jobs := newFakeJobRepo()
		jobs.Save(ctx, nil, pendingJob("job-1"))
		gen := &fakeGenerationUC{err: errors.New("TTS service unavailable")}
		p := NewGenerationProcessor(jobs, gen, time.Millisecond, silentLogger())

		p.processOne(ctx)

		j, _ := jobs.FindByID(ctx, nil, "job-1")
		if j.Status != model.GenerationJobStatusFailed {
			t.Errorf("expected failed, got %s", j.Status)
		}
		if j.LastError != "TTS service unavailable" {
			t.Errorf("expected the error to be recorded, got %q", j.LastError)
		}
	})

	t.Run("an empty queue is a no-op", func(t *testing.T) {
		jobs := newFakeJobRepo()
		gen := &fakeGenerationUC{}
		p := NewGenerationProcessor(jobs, gen, time.Millisecond, silentLogger())

		p.processOne(ctx)

		if gen.calls != 0 {
			t.Errorf("expected no generation call, got %d", gen.calls)
		}
	})
}
