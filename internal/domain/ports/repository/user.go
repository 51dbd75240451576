package repository

import (
	"context"

	"voiceover-studio/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	// FindByEmail matches a normalized email; ErrNotFound means the invite
	// stays pending.
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
}
