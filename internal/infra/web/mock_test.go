//go:build !integration

package web

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

// --- In-memory repositories for handler tests ---

type mockVoiceoverRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Voiceover
}

func newMockVoiceoverRepo() *mockVoiceoverRepo {
	return &mockVoiceoverRepo{store: map[string]*model.Voiceover{}}
}

func (m *mockVoiceoverRepo) Save(ctx context.Context, tx repository.Tx, v *model.Voiceover) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.store[cp.ID] = &cp
	return nil
}

func (m *mockVoiceoverRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Voiceover, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *mockVoiceoverRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID string) ([]*model.Voiceover, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Voiceover
	for _, v := range m.store {
		if v.OwnerID == ownerID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockVoiceoverRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

func (m *mockVoiceoverRepo) ClearOwnerApproval(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.store[id]; ok {
		v.OwnerApproved = false
	}
	return nil
}

type mockCollaboratorRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Collaborator
}

func newMockCollaboratorRepo() *mockCollaboratorRepo {
	return &mockCollaboratorRepo{store: map[string]*model.Collaborator{}}
}

func (m *mockCollaboratorRepo) Save(ctx context.Context, tx repository.Tx, c *model.Collaborator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	m.store[cp.ID] = &cp
	return nil
}

func (m *mockCollaboratorRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Collaborator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockCollaboratorRepo) FindByVoiceoverAndEmail(ctx context.Context, tx repository.Tx, voiceoverID, email string) (*model.Collaborator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.VoiceoverID == voiceoverID && c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCollaboratorRepo) FindByVoiceoverAndUser(ctx context.Context, tx repository.Tx, voiceoverID, userID string) (*model.Collaborator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.VoiceoverID == voiceoverID && c.UserID != nil && *c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCollaboratorRepo) ListByVoiceover(ctx context.Context, tx repository.Tx, voiceoverID string) ([]*model.Collaborator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Collaborator
	for _, c := range m.store {
		if c.VoiceoverID == voiceoverID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockCollaboratorRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

func (m *mockCollaboratorRepo) ClearApprovals(ctx context.Context, tx repository.Tx, voiceoverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.store {
		if c.VoiceoverID == voiceoverID {
			c.HasApproved = false
			c.ApprovedAt = nil
		}
	}
	return nil
}

func (m *mockCollaboratorRepo) ClaimInvites(ctx context.Context, tx repository.Tx, email, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.store {
		if c.Email == email && c.UserID == nil {
			id := userID
			c.UserID = &id
			n++
		}
	}
	return n, nil
}

type mockJobRepo struct {
	mu    sync.RWMutex
	store map[string]*model.GenerationJob
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{store: map[string]*model.GenerationJob{}}
}

func (m *mockJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.store[cp.ID] = &cp
	return nil
}

func (m *mockJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.GenerationJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *mockJobRepo) FindOpenByVoiceover(ctx context.Context, tx repository.Tx, voiceoverID string) (*model.GenerationJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, j := range m.store {
		if j.Payload.VoiceoverID == voiceoverID && j.IsOpen() {
			cp := *j
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockJobRepo) FetchAndMarkProcessing(ctx context.Context) (*model.GenerationJob, error) {
	return nil, domain.ErrNotFound
}

type mockUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{store: map[string]*model.User{}}
}

func (m *mockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[cp.ID] = &cp
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// --- Transaction manager / adapters ---

type mockTxManager struct{}

func (mockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

type mockLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func newMockLocker() *mockLocker { return &mockLocker{held: map[string]string{}} }

func (l *mockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return "", domain.ErrGenerationLocked
	}
	token := uuid.NewString()
	l.held[key] = token
	return token, nil
}

func (l *mockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}

type mockSynthesizer struct{}

func (mockSynthesizer) Synthesize(ctx context.Context, turns []adapter.SpeechTurn, voices []adapter.VoiceConfig) (*adapter.SynthesisResult, error) {
	return &adapter.SynthesisResult{
		Audio:    make([]byte, adapter.PCM24kHz16BitMono.BytesPerSecond),
		Encoding: adapter.PCM24kHz16BitMono,
		MIMEType: "audio/wav",
	}, nil
}

type mockAnnotator struct{}

func (mockAnnotator) Annotate(ctx context.Context, title, text string) (*adapter.ScriptAnnotation, error) {
	return &adapter.ScriptAnnotation{AnnotatedText: text}, nil
}

type mockStore struct{}

func (mockStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return nil
}

func (mockStore) URL(key string) string { return "https://cdn.test/" + key }

func testLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}
