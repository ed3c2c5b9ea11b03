package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	domain "github.com/brandsentry/brandsentry/internal/domain/analysis"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save inserts or updates a run record
func (r *RunRepository) Save(ctx context.Context, run *domain.Run) error {
	const q = `
INSERT INTO brand_analysis_runs
  (id, tenant_id, triggered_at, brand, keyword, analyst_mode, batch_size, status,
   total_domains, threat_count, filtered_count, false_positive_reduction,
   artifact_url, result_json, duration_ms, error)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
ON CONFLICT (id) DO UPDATE SET
  status=EXCLUDED.status,
  total_domains=EXCLUDED.total_domains,
  threat_count=EXCLUDED.threat_count,
  filtered_count=EXCLUDED.filtered_count,
  false_positive_reduction=EXCLUDED.false_positive_reduction,
  artifact_url=EXCLUDED.artifact_url,
  result_json=EXCLUDED.result_json,
  duration_ms=EXCLUDED.duration_ms,
  error=EXCLUDED.error;
`
	tenant := stringOrDash(run.TenantID)
	brand := stringOrDash(run.Brand)
	status := stringOrDash(string(run.Status))
	triggered := run.TriggeredAt
	if triggered.IsZero() {
		triggered = time.Now()
	}
	result := run.ResultJSON
	if strings.TrimSpace(result) == "" {
		result = "{}"
	}

	_, err := r.db.ExecContext(ctx, q,
		run.ID, tenant, triggered, brand, run.Keyword, run.AnalystMode, run.BatchSize, status,
		run.TotalDomains, run.ThreatCount, run.FilteredCount, run.FalsePositiveReduction,
		run.ArtifactURL, result, run.DurationMS, run.Error,
	)
	return err
}

// Get returns one run by id, nil when absent
func (r *RunRepository) Get(ctx context.Context, tenant string, id domain.RunID) (*domain.Run, error) {
	const q = `
SELECT id, tenant_id, triggered_at, brand, keyword, analyst_mode, batch_size, status,
       total_domains, threat_count, filtered_count, false_positive_reduction,
       artifact_url, result_json, duration_ms, error
FROM brand_analysis_runs
WHERE tenant_id=$1 AND id=$2 LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return run, nil
}

// Latest runs per tenant ordered by triggered_at desc
func (r *RunRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, triggered_at, brand, keyword, analyst_mode, batch_size, status,
       total_domains, threat_count, filtered_count, false_positive_reduction,
       artifact_url, result_json, duration_ms, error
FROM brand_analysis_runs
WHERE tenant_id=$1 ORDER BY triggered_at DESC LIMIT $2;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Paginate returns a page of runs ordered by triggered_at desc
func (r *RunRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, triggered_at, brand, keyword, analyst_mode, batch_size, status,
       total_domains, threat_count, filtered_count, false_positive_reduction,
       artifact_url, result_json, duration_ms, error
FROM brand_analysis_runs
WHERE tenant_id=$1
ORDER BY triggered_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM brand_analysis_runs WHERE tenant_id = $1", tenant,
	).Scan(&total); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       runs,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// Summary counts run results since N days
func (r *RunRepository) Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const q = `
SELECT COUNT(*) AS total_runs,
       COALESCE(SUM(threat_count),0)   AS threats,
       COALESCE(SUM(filtered_count),0) AS filtered
FROM brand_analysis_runs
WHERE tenant_id=$1 AND triggered_at >= $2;
`
	var runs, threats, filtered int
	if err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(&runs, &threats, &filtered); err != nil {
		return 0, 0, 0, err
	}
	return runs, threats, filtered, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	if err := row.Scan(
		&run.ID, &run.TenantID, &run.TriggeredAt, &run.Brand, &run.Keyword,
		&run.AnalystMode, &run.BatchSize, &run.Status,
		&run.TotalDomains, &run.ThreatCount, &run.FilteredCount, &run.FalsePositiveReduction,
		&run.ArtifactURL, &run.ResultJSON, &run.DurationMS, &run.Error,
	); err != nil {
		return nil, err
	}
	return &run, nil
}

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
