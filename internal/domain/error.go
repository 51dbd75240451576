package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound                = errors.New("entity not found")
	ErrNotOwner                = errors.New("caller is not the owner")
	ErrNotCollaborator         = errors.New("caller is not a collaborator")
	ErrAlreadyExists           = errors.New("entity already exists")
	ErrCannotAddOwner          = errors.New("owner cannot be invited as a collaborator")
	ErrInvalidGeneration       = errors.New("generation preconditions not met")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidArgument         = errors.New("invalid argument")
	ErrGenerationLocked        = errors.New("a generation is already starting for this voiceover")
	ErrInvalidExecContext      = errors.New("invalid database executor context")
	ErrReadDatabaseRow         = errors.New("failed to read database row")
)

// InvalidGenerationError carries the reason a generation request was
// rejected ("bad status", "no text"). It unwraps to ErrInvalidGeneration
// so callers can match the whole category with errors.Is.
type InvalidGenerationError struct {
	Reason string
}

func (e *InvalidGenerationError) Error() string {
	return "invalid generation: " + e.Reason
}

func (e *InvalidGenerationError) Unwrap() error { return ErrInvalidGeneration }

// ExternalServiceError wraps a failure from an external collaborator
// (TTS, object storage). Generation compensates the voiceover to the
// failed status before this propagates.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return e.Service + ": " + e.Err.Error()
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
