package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"voiceover-studio/internal/domain"
	"voiceover-studio/internal/domain/model"
	"voiceover-studio/internal/domain/ports/repository"
)

var _ repository.CollaboratorRepository = (*collaboratorRepo)(nil)

type collaboratorRepo struct {
	pool *pgxpool.Pool
}

func NewCollaboratorRepo(pool *pgxpool.Pool) *collaboratorRepo {
	return &collaboratorRepo{pool: pool}
}

const collaboratorColumns = `id, voiceover_id, email, user_id, has_approved, approved_at, added_by, created_at`

func (r *collaboratorRepo) Save(ctx context.Context, tx repository.Tx, c *model.Collaborator) error {
	const q = `
INSERT INTO collaborators (id, voiceover_id, email, user_id, has_approved, approved_at, added_by, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  user_id = EXCLUDED.user_id,
  has_approved = EXCLUDED.has_approved,
  approved_at = EXCLUDED.approved_at;`

	_, err := execSQL(ctx, r.pool, tx, q,
		c.ID, c.VoiceoverID, c.Email, c.UserID, c.HasApproved, c.ApprovedAt, c.AddedBy, c.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *collaboratorRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Collaborator, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT `+collaboratorColumns+` FROM collaborators WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanCollaborator(row)
}

func (r *collaboratorRepo) FindByVoiceoverAndEmail(ctx context.Context, tx repository.Tx, voiceoverID, email string) (*model.Collaborator, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT `+collaboratorColumns+` FROM collaborators WHERE voiceover_id=$1 AND email=$2;`, voiceoverID, email)
	if err != nil {
		return nil, err
	}
	return scanCollaborator(row)
}

func (r *collaboratorRepo) FindByVoiceoverAndUser(ctx context.Context, tx repository.Tx, voiceoverID, userID string) (*model.Collaborator, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT `+collaboratorColumns+` FROM collaborators WHERE voiceover_id=$1 AND user_id=$2;`, voiceoverID, userID)
	if err != nil {
		return nil, err
	}
	return scanCollaborator(row)
}

func (r *collaboratorRepo) ListByVoiceover(ctx context.Context, tx repository.Tx, voiceoverID string) ([]*model.Collaborator, error) {
	rows, err := pickRows(ctx, r.pool, tx,
		`SELECT `+collaboratorColumns+` FROM collaborators WHERE voiceover_id=$1 ORDER BY created_at;`, voiceoverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Collaborator
	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *collaboratorRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM collaborators WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *collaboratorRepo) ClearApprovals(ctx context.Context, tx repository.Tx, voiceoverID string) error {
	_, err := execSQL(ctx, r.pool, tx,
		`UPDATE collaborators SET has_approved=FALSE, approved_at=NULL WHERE voiceover_id=$1;`, voiceoverID)
	return err
}

func (r *collaboratorRepo) ClaimInvites(ctx context.Context, tx repository.Tx, email, userID string) (int, error) {
	// Only unbound rows match; a second claim affects zero rows.
	tag, err := execSQL(ctx, r.pool, tx,
		`UPDATE collaborators SET user_id=$2 WHERE email=$1 AND user_id IS NULL;`, email, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func scanCollaborator(row pgx.Row) (*model.Collaborator, error) {
	var c model.Collaborator
	err := row.Scan(&c.ID, &c.VoiceoverID, &c.Email, &c.UserID, &c.HasApproved, &c.ApprovedAt, &c.AddedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &c, nil
}
