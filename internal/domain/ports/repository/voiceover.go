package repository

import (
	"context"

	"voiceover-studio/internal/domain/model"
)

type VoiceoverRepository interface {
	Save(ctx context.Context, tx Tx, v *model.Voiceover) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Voiceover, error)
	ListByOwner(ctx context.Context, tx Tx, ownerID string) ([]*model.Voiceover, error)
	Delete(ctx context.Context, tx Tx, id string) error
	// ClearOwnerApproval resets the owner flag without touching other fields.
	// Used by the approval layer inside the generation transaction.
	ClearOwnerApproval(ctx context.Context, tx Tx, id string) error
}
