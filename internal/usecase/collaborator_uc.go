// File: internal/usecase/collaborator_uc.go
package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"voiceover-studio/internal/domain"
	"voiceover-studio/internal/domain/model"
	"voiceover-studio/internal/domain/ports/repository"
)

// Compile-time check
var _ CollaboratorUseCase = (*collaboratorUC)(nil)

type CollaboratorUseCase interface {
	// Add invites an email to review the voiceover. Owner-only. If a
	// registered user matches the email the collaborator is bound
	// immediately; otherwise it is created as a pending invite.
	Add(ctx context.Context, voiceoverID, callerID, email string) (*model.Collaborator, error)
	// Remove deletes a collaborator. Authorization is two-hop: the
	// collaborator names its voiceover, the voiceover names its owner.
	Remove(ctx context.Context, collaboratorID, callerID string) error
	List(ctx context.Context, voiceoverID, callerID string) ([]*model.Collaborator, error)
	// ClaimInvites binds every pending invite for the email to the user.
	// Idempotent; rows with a user already set are never touched.
	ClaimInvites(ctx context.Context, email, userID string) (int, error)
}

type collaboratorUC struct {
	collaborators repository.CollaboratorRepository
	voiceovers    repository.VoiceoverRepository
	users         repository.UserRepository
	log           *zerolog.Logger
}

func NewCollaboratorUseCase(
	collaborators repository.CollaboratorRepository,
	voiceovers repository.VoiceoverRepository,
	users repository.UserRepository,
	log *zerolog.Logger,
) *collaboratorUC {
	return &collaboratorUC{
		collaborators: collaborators,
		voiceovers:    voiceovers,
		users:         users,
		log:           log,
	}
}

func (c *collaboratorUC) Add(ctx context.Context, voiceoverID, callerID, email string) (*model.Collaborator, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrInvalidArgument
	}

	v, err := c.voiceovers.FindByID(ctx, nil, voiceoverID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != callerID {
		return nil, domain.ErrNotOwner
	}

	// Resolve the invite to an account if one exists. ErrNotFound is fine:
	// the invite stays pending until the email registers.
	var userID *string
	matched, err := c.users.FindByEmail(ctx, nil, email)
	switch {
	case err == nil:
		if matched.ID == v.OwnerID {
			return nil, domain.ErrCannotAddOwner
		}
		userID = &matched.ID
	case err == domain.ErrNotFound:
	default:
		return nil, err
	}

	if _, err := c.collaborators.FindByVoiceoverAndEmail(ctx, nil, voiceoverID, email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	col := model.NewCollaborator(uuid.NewString(), voiceoverID, email, callerID, userID)
	if err := c.collaborators.Save(ctx, nil, col); err != nil {
		return nil, err
	}
	c.log.Info().Str("voiceover_id", voiceoverID).Str("collaborator_id", col.ID).
		Bool("bound", col.IsBound()).Msg("collaborator added")
	return col, nil
}

func (c *collaboratorUC) Remove(ctx context.Context, collaboratorID, callerID string) error {
	col, err := c.collaborators.FindByID(ctx, nil, collaboratorID)
	if err != nil {
		return err
	}
	v, err := c.voiceovers.FindByID(ctx, nil, col.VoiceoverID)
	if err != nil {
		return err
	}
	if v.OwnerID != callerID {
		return domain.ErrNotOwner
	}
	return c.collaborators.Delete(ctx, nil, collaboratorID)
}

func (c *collaboratorUC) List(ctx context.Context, voiceoverID, callerID string) ([]*model.Collaborator, error) {
	v, err := c.voiceovers.FindByID(ctx, nil, voiceoverID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != callerID {
		return nil, domain.ErrNotOwner
	}
	return c.collaborators.ListByVoiceover(ctx, nil, voiceoverID)
}

func (c *collaboratorUC) ClaimInvites(ctx context.Context, email, userID string) (int, error) {
	email = model.NormalizeEmail(email)
	if email == "" || userID == "" {
		return 0, domain.ErrInvalidArgument
	}
	n, err := c.collaborators.ClaimInvites(ctx, nil, email, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.log.Info().Str("user_id", userID).Int("claimed", n).Msg("pending invites claimed")
	}
	return n, nil
}
