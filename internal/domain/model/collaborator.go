package model

import (
	"strings"
	"time"
)

// Collaborator is a person invited by email to review a voiceover. UserID is
// nil until the email is claimed by a registered account; it is set exactly
// once and never rebound.
type Collaborator struct {
	ID          string
	VoiceoverID string
	Email       string
	UserID      *string
	HasApproved bool
	ApprovedAt  *time.Time
	AddedBy     string
	CreatedAt   time.Time
}

// NormalizeEmail lower-cases and trims an invite email. Matching semantics
// are defined at write time so lookups stay a plain equality check.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NewCollaborator(id, voiceoverID, email, addedBy string, userID *string) *Collaborator {
	return &Collaborator{
		ID:          id,
		VoiceoverID: voiceoverID,
		Email:       NormalizeEmail(email),
		UserID:      userID,
		AddedBy:     addedBy,
		CreatedAt:   time.Now(),
	}
}

// IsBound reports whether the invite has been claimed by a user account.
// Unbound collaborators cannot approve.
func (c *Collaborator) IsBound() bool { return c.UserID != nil }

// Approve sets the approval flag with a timestamp. Idempotent.
func (c *Collaborator) Approve(at time.Time) {
	if c.HasApproved {
		return
	}
	c.HasApproved = true
	c.ApprovedAt = &at
}

// RevokeApproval clears the approval flag. Idempotent.
func (c *Collaborator) RevokeApproval() {
	c.HasApproved = false
	c.ApprovedAt = nil
}
