package repository

import (
	"context"

	"voiceover-studio/internal/domain/model"
)

type CollaboratorRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Collaborator) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Collaborator, error)
	// FindByVoiceoverAndEmail enforces the (voiceover, email) uniqueness
	// check before creating an invite. Email must already be normalized.
	FindByVoiceoverAndEmail(ctx context.Context, tx Tx, voiceoverID, email string) (*model.Collaborator, error)
	// FindByVoiceoverAndUser resolves the bound collaborator a caller
	// approves through. Unbound invites never match.
	FindByVoiceoverAndUser(ctx context.Context, tx Tx, voiceoverID, userID string) (*model.Collaborator, error)
	ListByVoiceover(ctx context.Context, tx Tx, voiceoverID string) ([]*model.Collaborator, error)
	Delete(ctx context.Context, tx Tx, id string) error
	// ClearApprovals resets every collaborator approval for the voiceover.
	ClearApprovals(ctx context.Context, tx Tx, voiceoverID string) error
	// ClaimInvites binds all rows with this email and no user yet. Returns
	// the number of rows bound; already-bound rows are never touched.
	ClaimInvites(ctx context.Context, tx Tx, email, userID string) (int, error)
}
