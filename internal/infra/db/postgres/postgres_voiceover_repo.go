package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"voiceover-studio/internal/domain"
	"voiceover-studio/internal/domain/model"
	"voiceover-studio/internal/domain/ports/repository"
)

var _ repository.VoiceoverRepository = (*voiceoverRepo)(nil)

type voiceoverRepo struct {
	pool *pgxpool.Pool
}

func NewVoiceoverRepo(pool *pgxpool.Pool) *voiceoverRepo {
	return &voiceoverRepo{pool: pool}
}

const voiceoverColumns = `id, title, text, voice, audio_url, duration_seconds,
       status, error_message, owner_approved, owner_id, created_at, updated_at`

func (r *voiceoverRepo) Save(ctx context.Context, tx repository.Tx, v *model.Voiceover) error {
	v.UpdatedAt = time.Now()

	const q = `
INSERT INTO voiceovers (id, title, text, voice, audio_url, duration_seconds,
  status, error_message, owner_approved, owner_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  text = EXCLUDED.text,
  voice = EXCLUDED.voice,
  audio_url = EXCLUDED.audio_url,
  duration_seconds = EXCLUDED.duration_seconds,
  status = EXCLUDED.status,
  error_message = EXCLUDED.error_message,
  owner_approved = EXCLUDED.owner_approved,
  updated_at = EXCLUDED.updated_at;`

	_, err := execSQL(ctx, r.pool, tx, q,
		v.ID, v.Title, v.Text, v.Voice, v.AudioURL, v.DurationSeconds,
		string(v.Status), v.ErrorMessage, v.OwnerApproved, v.OwnerID, v.CreatedAt, v.UpdatedAt)
	return err
}

func (r *voiceoverRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Voiceover, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+voiceoverColumns+` FROM voiceovers WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanVoiceover(row)
}

func (r *voiceoverRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID string) ([]*model.Voiceover, error) {
	rows, err := pickRows(ctx, r.pool, tx,
		`SELECT `+voiceoverColumns+` FROM voiceovers WHERE owner_id=$1 ORDER BY created_at DESC;`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Voiceover
	for rows.Next() {
		v, err := scanVoiceover(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *voiceoverRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM voiceovers WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *voiceoverRepo) ClearOwnerApproval(ctx context.Context, tx repository.Tx, id string) error {
	_, err := execSQL(ctx, r.pool, tx,
		`UPDATE voiceovers SET owner_approved=FALSE, updated_at=$2 WHERE id=$1;`, id, time.Now())
	return err
}

func scanVoiceover(row pgx.Row) (*model.Voiceover, error) {
	var v model.Voiceover
	var status string
	err := row.Scan(&v.ID, &v.Title, &v.Text, &v.Voice, &v.AudioURL, &v.DurationSeconds,
		&status, &v.ErrorMessage, &v.OwnerApproved, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	v.Status = model.VoiceoverStatus(status)
	return &v, nil
}
