// File: internal/usecase/approval_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"voiceover-studio/internal/domain"
	"voiceover-studio/internal/domain/model"
	"voiceover-studio/internal/domain/ports/repository"
)

// Compile-time check
var _ ApprovalUseCase = (*approvalUC)(nil)

// CollaboratorApproval is one collaborator's flag in the aggregate view.
type CollaboratorApproval struct {
	CollaboratorID string
	Email          string
	UserID         *string
	HasApproved    bool
	ApprovedAt     *time.Time
}

// ApprovalStatus is the computed aggregate. FullyApproved is derived from
// the flags, never stored: the owner plus every bound collaborator.
type ApprovalStatus struct {
	VoiceoverID   string
	OwnerApproved bool
	Collaborators []CollaboratorApproval
	FullyApproved bool
}

type ApprovalUseCase interface {
	// Approve records the caller's approval of the current audio. Owner
	// approval lives on the voiceover; any other caller must be a bound
	// collaborator. Idempotent.
	Approve(ctx context.Context, voiceoverID, callerID string) error
	// Revoke clears the caller's approval. Idempotent.
	Revoke(ctx context.Context, voiceoverID, callerID string) error
	// Status reports the aggregate approval view.
	Status(ctx context.Context, voiceoverID, callerID string) (*ApprovalStatus, error)
}

type approvalUC struct {
	voiceovers    repository.VoiceoverRepository
	collaborators repository.CollaboratorRepository
	log           *zerolog.Logger
}

func NewApprovalUseCase(
	voiceovers repository.VoiceoverRepository,
	collaborators repository.CollaboratorRepository,
	log *zerolog.Logger,
) *approvalUC {
	return &approvalUC{voiceovers: voiceovers, collaborators: collaborators, log: log}
}

func (a *approvalUC) Approve(ctx context.Context, voiceoverID, callerID string) error {
	return a.setApproval(ctx, voiceoverID, callerID, true)
}

func (a *approvalUC) Revoke(ctx context.Context, voiceoverID, callerID string) error {
	return a.setApproval(ctx, voiceoverID, callerID, false)
}

func (a *approvalUC) setApproval(ctx context.Context, voiceoverID, callerID string, approved bool) error {
	v, err := a.voiceovers.FindByID(ctx, nil, voiceoverID)
	if err != nil {
		return err
	}

	if v.OwnerID == callerID {
		if v.OwnerApproved == approved {
			return nil
		}
		v.OwnerApproved = approved
		v.UpdatedAt = time.Now()
		return a.voiceovers.Save(ctx, nil, v)
	}

	// Approval is per-user: a pending (unbound) invite never matches here.
	c, err := a.collaborators.FindByVoiceoverAndUser(ctx, nil, voiceoverID, callerID)
	if err != nil {
		if err == domain.ErrNotFound {
			return domain.ErrNotCollaborator
		}
		return err
	}
	if c.HasApproved == approved {
		return nil
	}
	if approved {
		c.Approve(time.Now())
	} else {
		c.RevokeApproval()
	}
	return a.collaborators.Save(ctx, nil, c)
}

func (a *approvalUC) Status(ctx context.Context, voiceoverID, callerID string) (*ApprovalStatus, error) {
	v, err := a.voiceovers.FindByID(ctx, nil, voiceoverID)
	if err != nil {
		return nil, err
	}
	if err := a.authorizeView(ctx, v, callerID); err != nil {
		return nil, err
	}

	cs, err := a.collaborators.ListByVoiceover(ctx, nil, voiceoverID)
	if err != nil {
		return nil, err
	}

	status := &ApprovalStatus{
		VoiceoverID:   v.ID,
		OwnerApproved: v.OwnerApproved,
		FullyApproved: v.OwnerApproved,
	}
	for _, c := range cs {
		status.Collaborators = append(status.Collaborators, CollaboratorApproval{
			CollaboratorID: c.ID,
			Email:          c.Email,
			UserID:         c.UserID,
			HasApproved:    c.HasApproved,
			ApprovedAt:     c.ApprovedAt,
		})
		if c.IsBound() && !c.HasApproved {
			status.FullyApproved = false
		}
	}
	return status, nil
}

// authorizeView lets the owner or any bound collaborator read approvals.
func (a *approvalUC) authorizeView(ctx context.Context, v *model.Voiceover, callerID string) error {
	if v.OwnerID == callerID {
		return nil
	}
	if _, err := a.collaborators.FindByVoiceoverAndUser(ctx, nil, v.ID, callerID); err != nil {
		if err == domain.ErrNotFound {
			return domain.ErrNotCollaborator
		}
		return err
	}
	return nil
}
