package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"voiceover-studio/internal/domain"
	"voiceover-studio/internal/domain/model"
	"voiceover-studio/internal/domain/ports/repository"
)

var _ repository.GenerationJobRepository = (*generationJobRepo)(nil)

type generationJobRepo struct {
	pool *pgxpool.Pool
	tm   repository.TransactionManager
}

func NewGenerationJobRepo(pool *pgxpool.Pool, tm repository.TransactionManager) *generationJobRepo {
	return &generationJobRepo{pool: pool, tm: tm}
}

const jobColumns = `id, type, status, payload, result, last_error, owner_id, created_at, started_at, completed_at`

func (r *generationJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error {
	payload, err := json.Marshal(job.Payload)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO generation_jobs (id, type, status, payload, result, last_error, owner_id, created_at, started_at, completed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  status = EXCLUDED.status,
  result = EXCLUDED.result,
  last_error = EXCLUDED.last_error,
  started_at = EXCLUDED.started_at,
  completed_at = EXCLUDED.completed_at;`

	_, err = execSQL(ctx, r.pool, tx, q,
		job.ID, job.Type, string(job.Status), payload, job.Result, job.LastError,
		job.OwnerID, job.CreatedAt, job.StartedAt, job.CompletedAt)
	if err != nil && isUniqueViolation(err) {
		// The open-job partial unique index rejected a duplicate enqueue.
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *generationJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.GenerationJob, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT `+jobColumns+` FROM generation_jobs WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanJob(row)
}

func (r *generationJobRepo) FindOpenByVoiceover(ctx context.Context, tx repository.Tx, voiceoverID string) (*model.GenerationJob, error) {
	row, err := pickRow(ctx, r.pool, tx, `
SELECT `+jobColumns+`
FROM generation_jobs
WHERE payload->>'voiceover_id' = $1 AND status IN ('pending', 'processing')
LIMIT 1;`, voiceoverID)
	if err != nil {
		return nil, err
	}
	return scanJob(row)
}

func (r *generationJobRepo) FetchAndMarkProcessing(ctx context.Context) (*model.GenerationJob, error) {
	var job *model.GenerationJob

	err := r.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		const fetchQuery = `
SELECT ` + jobColumns + `
FROM generation_jobs
WHERE status = 'pending'
ORDER BY created_at
LIMIT 1
FOR UPDATE SKIP LOCKED;`

		row, err := pickRow(ctx, r.pool, tx, fetchQuery)
		if err != nil {
			return err
		}
		fetched, err := scanJob(row)
		if err != nil {
			return err
		}

		now := time.Now()
		fetched.Status = model.GenerationJobStatusProcessing
		fetched.StartedAt = &now
		if err := r.Save(ctx, tx, fetched); err != nil {
			return err
		}
		job = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func scanJob(row pgx.Row) (*model.GenerationJob, error) {
	var j model.GenerationJob
	var status string
	var payload []byte
	err := row.Scan(&j.ID, &j.Type, &status, &payload, &j.Result, &j.LastError,
		&j.OwnerID, &j.CreatedAt, &j.StartedAt, &j.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	j.Status = model.GenerationJobStatus(status)
	if err := json.Unmarshal(payload, &j.Payload); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &j, nil
}
