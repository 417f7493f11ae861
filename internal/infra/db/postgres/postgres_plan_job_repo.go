package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"travel-ai-planner/internal/domain"
	"travel-ai-planner/internal/domain/model"
	"travel-ai-planner/internal/domain/ports/repository"
)

var _ repository.PlanJobRepository = (*planJobRepo)(nil)

type planJobRepo struct {
	pool *pgxpool.Pool
}

func NewPlanJobRepo(pool *pgxpool.Pool) *planJobRepo {
	return &planJobRepo{pool: pool}
}

func (r *planJobRepo) Create(ctx context.Context, tx repository.Tx, job *model.PlanJob) error {
	ctxJSON, err := json.Marshal(job.Context)
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}
	msgsJSON, err := json.Marshal(job.Messages)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}
	var structJSON []byte
	if job.Structure != nil {
		if structJSON, err = json.Marshal(job.Structure); err != nil {
			return fmt.Errorf("marshal structure: %w", err)
		}
	}
	progJSON, err := json.Marshal(job.Progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	const q = `
INSERT INTO plan_jobs
  (id, user_id, trip_id, status, context, messages, structure, progress,
   credits_charged, error, created_at, updated_at, completed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13);`

	_, err = execSQL(ctx, r.pool, tx, q,
		job.ID, job.UserID, job.TripID, string(job.Status),
		ctxJSON, msgsJSON, structJSON, progJSON,
		job.CreditsCharged, nullIfEmpty(job.Error),
		job.CreatedAt, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create plan job: %w", err)
	}
	return nil
}

// Patch applies only the non-nil fields. updated_at always advances, which
// doubles as the executor heartbeat the sweeper keys off.
func (r *planJobRepo) Patch(ctx context.Context, tx repository.Tx, jobID string, p repository.JobPatch) error {
	sets := []string{"updated_at = now()"}
	args := []interface{}{jobID}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.TripID != nil {
		add("trip_id", *p.TripID)
	}
	if p.Structure != nil {
		b, err := json.Marshal(p.Structure)
		if err != nil {
			return fmt.Errorf("marshal structure: %w", err)
		}
		add("structure", b)
	}
	if p.Progress != nil {
		b, err := json.Marshal(p.Progress)
		if err != nil {
			return fmt.Errorf("marshal progress: %w", err)
		}
		add("progress", b)
	}
	if p.CreditsCharged != nil {
		add("credits_charged", *p.CreditsCharged)
	}
	if p.Error != nil {
		add("error", *p.Error)
	}
	if p.CompletedAt != nil {
		add("completed_at", *p.CompletedAt)
	}

	q := "UPDATE plan_jobs SET " + strings.Join(sets, ", ") + " WHERE id = $1;"
	tag, err := execSQL(ctx, r.pool, tx, q, args...)
	if err != nil {
		return fmt.Errorf("patch plan job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const jobColumns = `
id, user_id, trip_id, status, context, messages, structure, progress,
credits_charged, COALESCE(error, ''), created_at, updated_at, completed_at`

func (r *planJobRepo) FindByID(ctx context.Context, tx repository.Tx, jobID string) (*model.PlanJob, error) {
	q := "SELECT " + jobColumns + " FROM plan_jobs WHERE id = $1;"
	row, err := pickRow(ctx, r.pool, tx, q, jobID)
	if err != nil {
		return nil, err
	}
	return scanJob(row)
}

func (r *planJobRepo) GetStatus(ctx context.Context, jobID string) (model.JobStatus, error) {
	row, err := pickRow(ctx, r.pool, nil, `SELECT status FROM plan_jobs WHERE id = $1;`, jobID)
	if err != nil {
		return "", err
	}
	var s string
	if err := row.Scan(&s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", domain.ErrReadDatabaseRow
	}
	return model.JobStatus(s), nil
}

// Cancel flips a pending/generating job to cancelled. The WHERE guard keeps
// terminal states final, so a cancellation can never be overwritten and a
// finished job can never be cancelled.
func (r *planJobRepo) Cancel(ctx context.Context, jobID, userID string) error {
	const q = `
UPDATE plan_jobs
   SET status = 'cancelled', updated_at = now()
 WHERE id = $1 AND user_id = $2 AND status IN ('pending', 'generating');`
	tag, err := execSQL(ctx, r.pool, nil, q, jobID, userID)
	if err != nil {
		return fmt.Errorf("cancel plan job: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	row, err := pickRow(ctx, r.pool, nil, `SELECT 1 FROM plan_jobs WHERE id = $1 AND user_id = $2;`, jobID, userID)
	if err != nil {
		return err
	}
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return domain.ErrReadDatabaseRow
	}
	return domain.ErrJobNotCancellable
}

func (r *planJobRepo) FindStaleGenerating(ctx context.Context, updatedBefore time.Time, limit int) ([]*model.PlanJob, error) {
	q := "SELECT " + jobColumns + `
 FROM plan_jobs
WHERE status = 'generating' AND updated_at < $1
ORDER BY updated_at
LIMIT $2;`
	rows, err := pickRows(ctx, r.pool, nil, q, updatedBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("find stale jobs: %w", err)
	}
	defer rows.Close()

	var out []*model.PlanJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func scanJob(row pgx.Row) (*model.PlanJob, error) {
	var (
		j          model.PlanJob
		status     string
		ctxJSON    []byte
		msgsJSON   []byte
		structJSON []byte
		progJSON   []byte
	)
	err := row.Scan(
		&j.ID, &j.UserID, &j.TripID, &status,
		&ctxJSON, &msgsJSON, &structJSON, &progJSON,
		&j.CreditsCharged, &j.Error, &j.CreatedAt, &j.UpdatedAt, &j.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	j.Status = model.JobStatus(status)
	if err := json.Unmarshal(ctxJSON, &j.Context); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(msgsJSON, &j.Messages); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if len(structJSON) > 0 {
		j.Structure = &model.PlanStructure{}
		if err := json.Unmarshal(structJSON, j.Structure); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	if len(progJSON) > 0 {
		if err := json.Unmarshal(progJSON, &j.Progress); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	return &j, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
