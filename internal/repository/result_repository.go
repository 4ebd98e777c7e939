package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sla-engine/internal/domain"
)

// ResultRepository encapsulates SLA result persistence.
type ResultRepository interface {
	Insert(ctx context.Context, result *domain.SlaResult) error
	InsertBatch(ctx context.Context, results []*domain.SlaResult) (int, error)
	ListByIssue(ctx context.Context, issueID string) ([]domain.SlaResult, error)
	ListRecent(ctx context.Context, limit int) ([]domain.SlaResult, error)
}

type resultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository instantiates repository.
func NewResultRepository(pool *pgxpool.Pool) ResultRepository {
	return &resultRepository{pool: pool}
}

const insertResultQuery = `
        INSERT INTO sla_results (id, issue_id, resolution_business_hours, expected_hours, is_met, evaluated_at)
        VALUES ($1,$2,$3,$4,$5,$6)`

func (r *resultRepository) Insert(ctx context.Context, result *domain.SlaResult) error {
	_, err := r.pool.Exec(ctx, insertResultQuery,
		result.ID,
		result.IssueID,
		result.ResolutionBusinessHours,
		result.ExpectedHours,
		result.Met,
		result.EvaluatedAt,
	)
	return err
}

// InsertBatch inserts all results in one round trip. Nil entries (failed
// evaluations) are skipped. Returns the number of rows written.
func (r *resultRepository) InsertBatch(ctx context.Context, results []*domain.SlaResult) (int, error) {
	batch := &pgx.Batch{}
	queued := 0
	for _, result := range results {
		if result == nil {
			continue
		}
		batch.Queue(insertResultQuery,
			result.ID,
			result.IssueID,
			result.ResolutionBusinessHours,
			result.ExpectedHours,
			result.Met,
			result.EvaluatedAt,
		)
		queued++
	}
	if queued == 0 {
		return 0, nil
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			return i, err
		}
	}
	return queued, nil
}

func (r *resultRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.SlaResult, error) {
	const query = `
        SELECT id, issue_id, resolution_business_hours, expected_hours, is_met, evaluated_at
        FROM sla_results WHERE issue_id=$1 ORDER BY evaluated_at DESC`
	return r.fetchMany(ctx, query, issueID)
}

func (r *resultRepository) ListRecent(ctx context.Context, limit int) ([]domain.SlaResult, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
        SELECT id, issue_id, resolution_business_hours, expected_hours, is_met, evaluated_at
        FROM sla_results ORDER BY evaluated_at DESC LIMIT $1`
	return r.fetchMany(ctx, query, limit)
}

func (r *resultRepository) fetchMany(ctx context.Context, query string, arg any) ([]domain.SlaResult, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.SlaResult
	for rows.Next() {
		var result domain.SlaResult
		if err := rows.Scan(
			&result.ID,
			&result.IssueID,
			&result.ResolutionBusinessHours,
			&result.ExpectedHours,
			&result.Met,
			&result.EvaluatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
