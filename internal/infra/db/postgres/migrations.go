package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// migrations are applied in order at startup. The partial unique index on
// open jobs is the storage-level guarantee that at most one pending or
// processing job exists per voiceover, regardless of what callers do.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		username      TEXT NOT NULL DEFAULT '',
		registered_at TIMESTAMPTZ NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS voiceovers (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		text             TEXT NOT NULL DEFAULT '',
		voice            TEXT NOT NULL,
		audio_url        TEXT NOT NULL DEFAULT '',
		duration_seconds INT NOT NULL DEFAULT 0,
		status           TEXT NOT NULL,
		error_message    TEXT NOT NULL DEFAULT '',
		owner_approved   BOOLEAN NOT NULL DEFAULT FALSE,
		owner_id         TEXT NOT NULL REFERENCES users(id),
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	);`,

	`CREATE INDEX IF NOT EXISTS idx_voiceovers_owner ON voiceovers(owner_id);`,

	`CREATE TABLE IF NOT EXISTS collaborators (
		id           TEXT PRIMARY KEY,
		voiceover_id TEXT NOT NULL REFERENCES voiceovers(id) ON DELETE CASCADE,
		email        TEXT NOT NULL,
		user_id      TEXT NULL REFERENCES users(id),
		has_approved BOOLEAN NOT NULL DEFAULT FALSE,
		approved_at  TIMESTAMPTZ NULL,
		added_by     TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		UNIQUE (voiceover_id, email)
	);`,

	`CREATE INDEX IF NOT EXISTS idx_collaborators_email_unbound
		ON collaborators(email) WHERE user_id IS NULL;`,

	`CREATE TABLE IF NOT EXISTS generation_jobs (
		id           TEXT PRIMARY KEY,
		type         TEXT NOT NULL,
		status       TEXT NOT NULL,
		payload      JSONB NOT NULL,
		result       TEXT NOT NULL DEFAULT '',
		last_error   TEXT NOT NULL DEFAULT '',
		owner_id     TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		started_at   TIMESTAMPTZ NULL,
		completed_at TIMESTAMPTZ NULL
	);`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_generation_jobs_one_open
		ON generation_jobs((payload->>'voiceover_id'))
		WHERE status IN ('pending', 'processing');`,

	`CREATE INDEX IF NOT EXISTS idx_generation_jobs_pending
		ON generation_jobs(created_at) WHERE status = 'pending';`,
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
