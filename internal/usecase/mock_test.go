//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"voiceover-studio/internal/domain"
	"voiceover-studio/internal/domain/model"
	"voiceover-studio/internal/domain/ports/adapter"
	"voiceover-studio/internal/domain/ports/repository"
)

// =============================
// Repositories
// =============================

// ---- Mock VoiceoverRepository ----

type MockVoiceoverRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Voiceover

	SaveFunc     func(ctx context.Context, tx repository.Tx, v *model.Voiceover) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Voiceover, error)
}

var _ repository.VoiceoverRepository = (*MockVoiceoverRepo)(nil)

func NewMockVoiceoverRepo() *MockVoiceoverRepo {
	return &MockVoiceoverRepo{store: map[string]*model.Voiceover{}}
}

func (r *MockVoiceoverRepo) Save(ctx context.Context, tx repository.Tx, v *model.Voiceover) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, v)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.store[cp.ID] = &cp
	return nil
}

func (r *MockVoiceoverRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Voiceover, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *MockVoiceoverRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID string) ([]*model.Voiceover, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Voiceover
	for _, v := range r.store {
		if v.OwnerID == ownerID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockVoiceoverRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *MockVoiceoverRepo) ClearOwnerApproval(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.OwnerApproved = false
	return nil
}

// ---- Mock CollaboratorRepository ----

type MockCollaboratorRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Collaborator

	SaveFunc          func(ctx context.Context, tx repository.Tx, c *model.Collaborator) error
	ClearApprovalsErr error
}

var _ repository.CollaboratorRepository = (*MockCollaboratorRepo)(nil)

func NewMockCollaboratorRepo() *MockCollaboratorRepo {
	return &MockCollaboratorRepo{store: map[string]*model.Collaborator{}}
}

func (r *MockCollaboratorRepo) Save(ctx context.Context, tx repository.Tx, c *model.Collaborator) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, c)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.store[cp.ID] = &cp
	return nil
}

func (r *MockCollaboratorRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Collaborator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MockCollaboratorRepo) FindByVoiceoverAndEmail(ctx context.Context, tx repository.Tx, voiceoverID, email string) (*model.Collaborator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.store {
		if c.VoiceoverID == voiceoverID && c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockCollaboratorRepo) FindByVoiceoverAndUser(ctx context.Context, tx repository.Tx, voiceoverID, userID string) (*model.Collaborator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.store {
		if c.VoiceoverID == voiceoverID && c.UserID != nil && *c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockCollaboratorRepo) ListByVoiceover(ctx context.Context, tx repository.Tx, voiceoverID string) ([]*model.Collaborator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Collaborator
	for _, c := range r.store {
		if c.VoiceoverID == voiceoverID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockCollaboratorRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *MockCollaboratorRepo) ClearApprovals(ctx context.Context, tx repository.Tx, voiceoverID string) error {
	if r.ClearApprovalsErr != nil {
		return r.ClearApprovalsErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.store {
		if c.VoiceoverID == voiceoverID {
			c.HasApproved = false
			c.ApprovedAt = nil
		}
	}
	return nil
}

func (r *MockCollaboratorRepo) ClaimInvites(ctx context.Context, tx repository.Tx, email, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.store {
		if c.Email == email && c.UserID == nil {
			id := userID
			c.UserID = &id
			n++
		}
	}
	return n, nil
}

// ---- Mock GenerationJobRepository ----

type MockGenerationJobRepo struct {
	mu    sync.RWMutex
	store map[string]*model.GenerationJob

	SaveFunc func(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error
}

var _ repository.GenerationJobRepository = (*MockGenerationJobRepo)(nil)

func NewMockGenerationJobRepo() *MockGenerationJobRepo {
	return &MockGenerationJobRepo{store: map[string]*model.GenerationJob{}}
}

func (r *MockGenerationJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, job)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	r.store[cp.ID] = &cp
	return nil
}

func (r *MockGenerationJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.GenerationJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *MockGenerationJobRepo) FindOpenByVoiceover(ctx context.Context, tx repository.Tx, voiceoverID string) (*model.GenerationJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, j := range r.store {
		if j.Payload.VoiceoverID == voiceoverID && j.IsOpen() {
			cp := *j
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockGenerationJobRepo) FetchAndMarkProcessing(ctx context.Context) (*model.GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var oldest *model.GenerationJob
	for _, j := range r.store {
		if j.Status != model.GenerationJobStatusPending {
			continue
		}
		if oldest == nil || j.CreatedAt.Before(oldest.CreatedAt) {
			oldest = j
		}
	}
	if oldest == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	oldest.Status = model.GenerationJobStatusProcessing
	oldest.StartedAt = &now
	cp := *oldest
	return &cp, nil
}

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User

	SaveFunc        func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByEmailFunc func(ctx context.Context, tx repository.Tx, email string) (*model.User, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: map[string]*model.User{}}
}

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.store[cp.ID] = &cp
	return nil
}

func (r *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	if r.FindByEmailFunc != nil {
		return r.FindByEmailFunc(ctx, tx, email)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// =============================
// Transaction manager
// =============================

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

// WithTx runs the function immediately without a real transaction. Tests that
// need to verify transactional behavior assign a custom WithTxFunc.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}

// =============================
// Adapters
// =============================

// ---- Mock Locker ----

type MockLocker struct {
	mu   sync.Mutex
	held map[string]string
}

var _ adapter.Locker = (*MockLocker)(nil)

func NewMockLocker() *MockLocker {
	return &MockLocker{held: map[string]string{}}
}

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return "", domain.ErrGenerationLocked
	}
	token := uuid.NewString()
	l.held[key] = token
	return token, nil
}

func (l *MockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}

// ---- Mock SpeechSynthesizer ----

type MockSynthesizer struct {
	mu    sync.Mutex
	Calls [][]adapter.SpeechTurn

	SynthesizeFunc func(ctx context.Context, turns []adapter.SpeechTurn, voices []adapter.VoiceConfig) (*adapter.SynthesisResult, error)
}

var _ adapter.SpeechSynthesizer = (*MockSynthesizer)(nil)

func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

func (s *MockSynthesizer) Synthesize(ctx context.Context, turns []adapter.SpeechTurn, voices []adapter.VoiceConfig) (*adapter.SynthesisResult, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, turns)
	s.mu.Unlock()
	if s.SynthesizeFunc != nil {
		return s.SynthesizeFunc(ctx, turns, voices)
	}
	// Two seconds of silence at the PCM rate.
	return &adapter.SynthesisResult{
		Audio:    make([]byte, 2*adapter.PCM24kHz16BitMono.BytesPerSecond),
		Encoding: adapter.PCM24kHz16BitMono,
		MIMEType: "audio/wav",
	}, nil
}

// ---- Mock ScriptAnnotator ----

type MockAnnotator struct {
	AnnotateFunc func(ctx context.Context, title, text string) (*adapter.ScriptAnnotation, error)
}

var _ adapter.ScriptAnnotator = (*MockAnnotator)(nil)

func NewMockAnnotator() *MockAnnotator {
	return &MockAnnotator{}
}

func (a *MockAnnotator) Annotate(ctx context.Context, title, text string) (*adapter.ScriptAnnotation, error) {
	if a.AnnotateFunc != nil {
		return a.AnnotateFunc(ctx, title, text)
	}
	return &adapter.ScriptAnnotation{AnnotatedText: text}, nil
}

// ---- Mock ObjectStore ----

type MockObjectStore struct {
	mu      sync.Mutex
	Objects map[string][]byte

	UploadFunc func(ctx context.Context, key string, data []byte, contentType string) error
}

var _ adapter.ObjectStore = (*MockObjectStore)(nil)

func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{Objects: map[string][]byte{}}
}

func (s *MockObjectStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if s.UploadFunc != nil {
		return s.UploadFunc(ctx, key, data, contentType)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = data
	return nil
}

func (s *MockObjectStore) URL(key string) string {
	return "https://cdn.test/" + key
}

// =============================
// Utilities
// =============================

// newTestLogger creates a silent zerolog.Logger so test output stays clean.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
