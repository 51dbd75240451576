// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"voiceover-studio/internal/domain"
	"voiceover-studio/internal/domain/model"
	"voiceover-studio/internal/usecase"
)

// ===== Response shapes =====

type voiceoverResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Text            string    `json:"text"`
	Voice           string    `json:"voice"`
	Status          string    `json:"status"`
	AudioURL        string    `json:"audio_url,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	OwnerApproved   bool      `json:"owner_approved"`
	OwnerID         string    `json:"owner_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toVoiceoverResponse(v *model.Voiceover) voiceoverResponse {
	return voiceoverResponse{
		ID:              v.ID,
		Title:           v.Title,
		Text:            v.Text,
		Voice:           v.Voice,
		Status:          string(v.Status),
		AudioURL:        v.AudioURL,
		DurationSeconds: v.DurationSeconds,
		ErrorMessage:    v.ErrorMessage,
		OwnerApproved:   v.OwnerApproved,
		OwnerID:         v.OwnerID,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

type collaboratorResponse struct {
	ID          string     `json:"id"`
	VoiceoverID string     `json:"voiceover_id"`
	Email       string     `json:"email"`
	UserID      *string    `json:"user_id,omitempty"`
	HasApproved bool       `json:"has_approved"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toCollaboratorResponse(c *model.Collaborator) collaboratorResponse {
	return collaboratorResponse{
		ID:          c.ID,
		VoiceoverID: c.VoiceoverID,
		Email:       c.Email,
		UserID:      c.UserID,
		HasApproved: c.HasApproved,
		ApprovedAt:  c.ApprovedAt,
		CreatedAt:   c.CreatedAt,
	}
}

type jobResponse struct {
	ID          string     `json:"id"`
	VoiceoverID string     `json:"voiceover_id"`
	Status      string     `json:"status"`
	LastError   string     `json:"last_error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toJobResponse(j *model.GenerationJob) jobResponse {
	return jobResponse{
		ID:          j.ID,
		VoiceoverID: j.Payload.VoiceoverID,
		Status:      string(j.Status),
		LastError:   j.LastError,
		CreatedAt:   j.CreatedAt,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
}

type userResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registered_at"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Username: u.Username, RegisteredAt: u.RegisteredAt}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var ext *domain.ExternalServiceError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrNotOwner), errors.Is(err, domain.ErrNotCollaborator):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrInvalidGeneration),
		errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidStatusTransition):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrCannotAddOwner):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrGenerationLocked):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &ext):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		s.log.Error().Err(err).Msg("unhandled error in http handler")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// ===== Auth =====

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.userUC.Register(r.Context(), req.Email, req.Username)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	token, err := s.auth.Mint(user.ID, user.Email)
	if err != nil {
		http.Error(w, "Failed to mint session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		User  userResponse `json:"user"`
		Token string       `json:"token"`
	}{toUserResponse(user), token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.userUC.Get(r.Context(), callerID(r.Context()))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ===== Voiceovers =====

type voiceoverCreateRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleVoiceoverCreate(w http.ResponseWriter, r *http.Request) {
	var req voiceoverCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	v, err := s.voiceoverUC.Create(r.Context(), callerID(r.Context()), req.Title)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVoiceoverResponse(v))
}

func (s *Server) handleVoiceoverList(w http.ResponseWriter, r *http.Request) {
	vs, err := s.voiceoverUC.List(r.Context(), callerID(r.Context()))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]voiceoverResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVoiceoverResponse(v))
	}
	writeJSON(w, http.StatusOK, struct {
		Data []voiceoverResponse `json:"data"`
	}{out})
}

func (s *Server) handleVoiceoverGet(w http.ResponseWriter, r *http.Request) {
	v, err := s.voiceoverUC.Get(r.Context(), chi.URLParam(r, "voiceoverID"), callerID(r.Context()))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVoiceoverResponse(v))
}

type voiceoverUpdateRequest struct {
	Title *string `json:"title"`
	Text  *string `json:"text"`
	Voice *string `json:"voice"`
}

func (s *Server) handleVoiceoverUpdate(w http.ResponseWriter, r *http.Request) {
	var req voiceoverUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	v, err := s.voiceoverUC.Update(r.Context(), chi.URLParam(r, "voiceoverID"), callerID(r.Context()), usecase.VoiceoverUpdate{
		Title: req.Title,
		Text:  req.Text,
		Voice: req.Voice,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVoiceoverResponse(v))
}

func (s *Server) handleVoiceoverDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.voiceoverUC.Delete(r.Context(), chi.URLParam(r, "voiceoverID"), callerID(r.Context())); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Generation =====

// handleGenerate dispatches an asynchronous generation. A live job for the
// voiceover makes the call a no-op returning that job, so retries are safe.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	job, err := s.generationUC.StartGeneration(r.Context(), chi.URLParam(r, "voiceoverID"), callerID(r.Context()))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, toJobResponse(job))
}

func (s *Server) handleJobGet(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.FindByID(r.Context(), nil, chi.URLParam(r, "jobID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if job.OwnerID != callerID(r.Context()) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(job))
}

// ===== Collaborators =====

type collaboratorAddRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleCollaboratorAdd(w http.ResponseWriter, r *http.Request) {
	var req collaboratorAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	col, err := s.collaboratorUC.Add(r.Context(), chi.URLParam(r, "voiceoverID"), callerID(r.Context()), req.Email)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCollaboratorResponse(col))
}

func (s *Server) handleCollaboratorList(w http.ResponseWriter, r *http.Request) {
	cols, err := s.collaboratorUC.List(r.Context(), chi.URLParam(r, "voiceoverID"), callerID(r.Context()))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]collaboratorResponse, 0, len(cols))
	for _, c := range cols {
		out = append(out, toCollaboratorResponse(c))
	}
	writeJSON(w, http.StatusOK, struct {
		Data []collaboratorResponse `json:"data"`
	}{out})
}

func (s *Server) handleCollaboratorRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.collaboratorUC.Remove(r.Context(), chi.URLParam(r, "collaboratorID"), callerID(r.Context())); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Approvals =====

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	if err := s.approvalUC.Approve(r.Context(), chi.URLParam(r, "voiceoverID"), callerID(r.Context())); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRevokeApproval(w http.ResponseWriter, r *http.Request) {
	if err := s.approvalUC.Revoke(r.Context(), chi.URLParam(r, "voiceoverID"), callerID(r.Context())); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApprovalStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.approvalUC.Status(r.Context(), chi.URLParam(r, "voiceoverID"), callerID(r.Context()))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	type approvalEntry struct {
		CollaboratorID string     `json:"collaborator_id"`
		Email          string     `json:"email"`
		UserID         *string    `json:"user_id,omitempty"`
		HasApproved    bool       `json:"has_approved"`
		ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	}
	entries := make([]approvalEntry, 0, len(st.Collaborators))
	for _, c := range st.Collaborators {
		entries = append(entries, approvalEntry{
			CollaboratorID: c.CollaboratorID,
			Email:          c.Email,
			UserID:         c.UserID,
			HasApproved:    c.HasApproved,
			ApprovedAt:     c.ApprovedAt,
		})
	}

	writeJSON(w, http.StatusOK, struct {
		VoiceoverID   string          `json:"voiceover_id"`
		OwnerApproved bool            `json:"owner_approved"`
		Collaborators []approvalEntry `json:"collaborators"`
		FullyApproved bool            `json:"fully_approved"`
	}{st.VoiceoverID, st.OwnerApproved, entries, st.FullyApproved})
}
