package model

import "time"

// User is a registered account. Collaborator invites are matched against the
// email; registration is the point where pending invites get claimed.
type User struct {
	ID           string
	Email        string
	Username     string
	RegisteredAt time.Time
}

func NewUser(id, email, username string) *User {
	return &User{
		ID:           id,
		Email:        NormalizeEmail(email),
		Username:     username,
		RegisteredAt: time.Now(),
	}
}
