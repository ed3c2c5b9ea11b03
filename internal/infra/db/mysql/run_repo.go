package mysql

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

// Save insert/update Run record
func (r *RunRepository) Save(ctx context.Context, run *domain.Run) error {
	const q = `
INSERT INTO brand_analysis_runs
(id, tenant_id, triggered_at, brand, keyword, analyst_mode, batch_size, status,
 total_domains, threat_count, filtered_count, false_positive_reduction,
 artifact_url, result_json, duration_ms, error)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status),
 total_domains=VALUES(total_domains), threat_count=VALUES(threat_count),
 filtered_count=VALUES(filtered_count),
 false_positive_reduction=VALUES(false_positive_reduction),
 artifact_url=VALUES(artifact_url), result_json=VALUES(result_json),
 duration_ms=VALUES(duration_ms), error=VALUES(error);
`
	// Ensure non-nullable string fields have safe defaults
	tenant := stringOrDash(run.TenantID)
	brand := stringOrDash(run.Brand)
	status := stringOrDash(string(run.Status))
	triggered := run.TriggeredAt
	if triggered.IsZero() {
		triggered = time.Now()
	}
	result := run.ResultJSON
	if strings.TrimSpace(result) == "" {
		// result_json column requires valid JSON; use empty object
		result = "{}"
	}

	_, err := r.db.ExecContext(ctx, q,
		run.ID, tenant, triggered, brand, run.Keyword, run.AnalystMode, run.BatchSize, status,
		run.TotalDomains, run.ThreatCount, run.FilteredCount, run.FalsePositiveReduction,
		run.ArtifactURL, result, run.DurationMS, run.Error,
	)
	return err
}

// Get by ID + Tenant
func (r *RunRepository) Get(ctx context.Context, tenant string, id domain.RunID) (*domain.Run, error) {
	const q = `
SELECT id, tenant_id, triggered_at, brand, keyword, analyst_mode, batch_size, status,
       total_domains, threat_count, filtered_count, false_positive_reduction,
       artifact_url, result_json, duration_ms, error
FROM brand_analysis_runs
WHERE tenant_id=? AND id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Latest runs per tenant
func (r *RunRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, triggered_at, brand, keyword, analyst_mode, batch_size, status,
       total_domains, threat_count, filtered_count, false_positive_reduction,
       artifact_url, result_json, duration_ms, error
FROM brand_analysis_runs
WHERE tenant_id=? ORDER BY triggered_at DESC LIMIT ?;
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

// Paginate with offset + limit (classic pagination)
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
WHERE tenant_id=?
ORDER BY triggered_at DESC, id DESC
LIMIT ? OFFSET ?;
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
		"SELECT COUNT(*) FROM brand_analysis_runs WHERE tenant_id = ?", tenant,
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
WHERE tenant_id=? AND triggered_at >= ?;
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
