// File: internal/usecase/voiceover_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"voiceover-studio/internal/domain"
	"voiceover-studio/internal/domain/model"
	"voiceover-studio/internal/domain/ports/repository"
)

// Compile-time check
var _ VoiceoverUseCase = (*voiceoverUC)(nil)

// VoiceoverUpdate carries the plain field edits. Nil means "leave as is".
type VoiceoverUpdate struct {
	Title *string
	Text  *string
	Voice *string
}

type VoiceoverUseCase interface {
	Create(ctx context.Context, ownerID, title string) (*model.Voiceover, error)
	Get(ctx context.Context, id, callerID string) (*model.Voiceover, error)
	List(ctx context.Context, ownerID string) ([]*model.Voiceover, error)
	Update(ctx context.Context, id, callerID string, upd VoiceoverUpdate) (*model.Voiceover, error)
	Delete(ctx context.Context, id, callerID string) error
}

type voiceoverUC struct {
	voiceovers    repository.VoiceoverRepository
	collaborators repository.CollaboratorRepository
	log           *zerolog.Logger
}

func NewVoiceoverUseCase(
	voiceovers repository.VoiceoverRepository,
	collaborators repository.CollaboratorRepository,
	log *zerolog.Logger,
) *voiceoverUC {
	return &voiceoverUC{voiceovers: voiceovers, collaborators: collaborators, log: log}
}

func (u *voiceoverUC) Create(ctx context.Context, ownerID, title string) (*model.Voiceover, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidArgument
	}
	v := model.NewVoiceover(uuid.NewString(), ownerID, title)
	if err := u.voiceovers.Save(ctx, nil, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Get allows the owner or a bound collaborator to read the voiceover.
func (u *voiceoverUC) Get(ctx context.Context, id, callerID string) (*model.Voiceover, error) {
	v, err := u.voiceovers.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if v.OwnerID == callerID {
		return v, nil
	}
	if _, err := u.collaborators.FindByVoiceoverAndUser(ctx, nil, id, callerID); err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotOwner
		}
		return nil, err
	}
	return v, nil
}

func (u *voiceoverUC) List(ctx context.Context, ownerID string) ([]*model.Voiceover, error) {
	return u.voiceovers.ListByOwner(ctx, nil, ownerID)
}

func (u *voiceoverUC) Update(ctx context.Context, id, callerID string, upd VoiceoverUpdate) (*model.Voiceover, error) {
	v, err := u.voiceovers.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != callerID {
		return nil, domain.ErrNotOwner
	}
	if upd.Title != nil {
		v.Title = *upd.Title
	}
	if upd.Text != nil {
		v.Text = *upd.Text
	}
	if upd.Voice != nil {
		v.Voice = *upd.Voice
	}
	v.UpdatedAt = time.Now()
	if err := u.voiceovers.Save(ctx, nil, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (u *voiceoverUC) Delete(ctx context.Context, id, callerID string) error {
	v, err := u.voiceovers.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if v.OwnerID != callerID {
		return domain.ErrNotOwner
	}
	return u.voiceovers.Delete(ctx, nil, id)
}
