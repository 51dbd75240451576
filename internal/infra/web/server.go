// File: internal/infra/web/server.go
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"voiceover-studio/internal/domain/ports/repository"
	ucport "voiceover-studio/internal/domain/ports/usecase"
	"voiceover-studio/internal/infra/logging"
	"voiceover-studio/internal/infra/metrics"
	"voiceover-studio/internal/usecase"
)

type ctxKey int

const ctxKeyUserID ctxKey = iota

// callerID extracts the authenticated user ID placed by authMiddleware.
func callerID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyUserID).(string)
	return id
}

type Server struct {
	userUC         usecase.UserUseCase
	voiceoverUC    usecase.VoiceoverUseCase
	generationUC   ucport.GenerationUseCase
	collaboratorUC usecase.CollaboratorUseCase
	approvalUC     usecase.ApprovalUseCase
	jobs           repository.GenerationJobRepository
	auth           *AuthManager
	log            *zerolog.Logger
}

func NewServer(
	userUC usecase.UserUseCase,
	voiceoverUC usecase.VoiceoverUseCase,
	generationUC ucport.GenerationUseCase,
	collaboratorUC usecase.CollaboratorUseCase,
	approvalUC usecase.ApprovalUseCase,
	jobs repository.GenerationJobRepository,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		userUC:         userUC,
		voiceoverUC:    voiceoverUC,
		generationUC:   generationUC,
		collaboratorUC: collaboratorUC,
		approvalUC:     approvalUC,
		jobs:           jobs,
		auth:           auth,
		log:            logger,
	}
}

// Router builds the full API surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Route("/voiceovers", func(r chi.Router) {
				r.Post("/", s.handleVoiceoverCreate)
				r.Get("/", s.handleVoiceoverList)
				r.Route("/{voiceoverID}", func(r chi.Router) {
					r.Get("/", s.handleVoiceoverGet)
					r.Patch("/", s.handleVoiceoverUpdate)
					r.Delete("/", s.handleVoiceoverDelete)
					r.Post("/generate", s.handleGenerate)
					r.Get("/collaborators", s.handleCollaboratorList)
					r.Post("/collaborators", s.handleCollaboratorAdd)
					r.Post("/approve", s.handleApprove)
					r.Delete("/approve", s.handleRevokeApproval)
					r.Get("/approval", s.handleApprovalStatus)
				})
			})
			r.Delete("/collaborators/{collaboratorID}", s.handleCollaboratorRemove)
			r.Get("/jobs/{jobID}", s.handleJobGet)
			r.Get("/me", s.handleMe)
		})
	})

	return r
}

// authMiddleware validates the session token and stores the caller's user ID
// in the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUserID, claims.Subject)
		ctx = logging.WithUserID(ctx, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithTraceID(r.Context(), middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))
		metrics.ObserveHTTPRequest(r.Method, r.URL.Path, ww.Status(), time.Since(start))
		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration_ms", time.Since(start)).
			Msg("http request")
	})
}
