package adapter

import (
	"context"
	"time"
)

// Locker is a short-TTL mutual-exclusion primitive. The generation
// orchestrator holds a per-voiceover lock across its check-then-act sequence
// (open-job lookup, status flip, enqueue) so two concurrent starts cannot
// both observe "no pending job".
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}
