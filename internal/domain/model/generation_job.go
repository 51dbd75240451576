package model

import "time"

type GenerationJobStatus string

const (
	GenerationJobStatusPending    GenerationJobStatus = "pending"
	GenerationJobStatusProcessing GenerationJobStatus = "processing"
	GenerationJobStatusCompleted  GenerationJobStatus = "completed"
	GenerationJobStatusFailed     GenerationJobStatus = "failed"
)

// JobTypeVoiceoverGeneration discriminates the kind of queued work.
const JobTypeVoiceoverGeneration = "voiceover_generation"

// GenerationJobPayload references the voiceover and the requesting user.
// Stored as JSONB; the worker re-enters the synchronous generation path
// with these values.
type GenerationJobPayload struct {
	VoiceoverID string `json:"voiceover_id"`
	RequestedBy string `json:"requested_by"`
}

// GenerationJob is one queued generation attempt. Jobs move monotonically
// pending -> processing -> {completed, failed}; a new attempt gets a new job
// once the prior one is terminal. At most one open (pending or processing)
// job may exist per voiceover.
type GenerationJob struct {
	ID          string
	Type        string
	Status      GenerationJobStatus
	Payload     GenerationJobPayload
	Result      string
	LastError   string
	OwnerID     string
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// IsOpen reports whether the job still blocks new enqueues for its voiceover.
func (j *GenerationJob) IsOpen() bool {
	return j.Status == GenerationJobStatusPending || j.Status == GenerationJobStatusProcessing
}
