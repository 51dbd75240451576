// File: internal/usecase/user_uc.go
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
var _ UserUseCase = (*userUC)(nil)

type UserUseCase interface {
	// Register creates the account (or returns the existing one for the
	// email) and claims any pending collaborator invites addressed to it.
	Register(ctx context.Context, email, username string) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
}

type userUC struct {
	users         repository.UserRepository
	collaborators CollaboratorUseCase
	log           *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, collaborators CollaboratorUseCase, log *zerolog.Logger) *userUC {
	return &userUC{users: users, collaborators: collaborators, log: log}
}

func (u *userUC) Register(ctx context.Context, email, username string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrInvalidArgument
	}

	user, err := u.users.FindByEmail(ctx, nil, email)
	if err == domain.ErrNotFound {
		user = model.NewUser(uuid.NewString(), email, username)
		if err := u.users.Save(ctx, nil, user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	// Binding is idempotent, so re-running on every login/registration is
	// safe: the second pass finds no unbound rows.
	if _, err := u.collaborators.ClaimInvites(ctx, email, user.ID); err != nil {
		u.log.Error().Err(err).Str("user_id", user.ID).Msg("claiming invites failed")
	}
	return user, nil
}

func (u *userUC) Get(ctx context.Context, id string) (*model.User, error) {
	return u.users.FindByID(ctx, nil, id)
}
