package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandsentry/brandsentry/internal/application"
	"github.com/brandsentry/brandsentry/internal/domain/ai"
	domain "github.com/brandsentry/brandsentry/internal/domain/analysis"
	"github.com/brandsentry/brandsentry/internal/domain/brand"
	"github.com/brandsentry/brandsentry/internal/domain/domains"
)

// DomainClassifier is what the orchestrator needs from the LLM step.
type DomainClassifier interface {
	Classify(ctx context.Context, domainList []string, cfg brand.Config, batchSize int) map[string]domain.Verdict
	Configured() bool
}

// ReportWriter persists result artifacts and returns the files written.
type ReportWriter interface {
	Write(result domain.Result, outputPath string) ([]string, error)
}

// Service implements the end-to-end analysis use case. Repo, Artifacts
// and Reports are optional; a nil port skips that side effect.
type Service struct {
	Classifier DomainClassifier
	Repo       domain.Repository
	Artifacts  domain.ArtifactStore
	Reports    ReportWriter
	Clock      application.Clock
	Logger     *zap.Logger

	// CleanupArtifacts removes local result files once their upload
	// succeeds; the object store becomes the only copy.
	CleanupArtifacts bool
}

// AnalyzeCommand carries everything one run needs.
type AnalyzeCommand struct {
	TenantID    string
	DomainsFile string
	BrandName   string
	CompanyName string
	Industry    string
	Description string
	BatchSize   int
	OutputPath  string
	AnalystMode ai.Mode
}

// Analyze wires loader, filter, classifier and results processing into one
// run. Fatal conditions are a missing credential and a missing input file;
// everything else degrades to conservative verdicts inside the classifier.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (domain.Result, error) {
	if !s.Classifier.Configured() {
		return domain.Result{}, ai.ErrNotConfigured
	}

	cfg, err := brand.NewConfig(cmd.BrandName, cmd.CompanyName, cmd.Industry, cmd.Description)
	if err != nil {
		return domain.Result{}, err
	}

	keyword := strings.ToLower(cmd.BrandName)
	start := s.Clock.Now()

	s.Logger.Info("Analyzing domains for brand",
		zap.String("brand", cfg.Name),
		zap.String("keyword", keyword))

	allDomains, err := domains.Load(cmd.DomainsFile)
	if err != nil {
		return domain.Result{}, err
	}
	s.Logger.Info("Loaded domains",
		zap.Int("count", len(allDomains)),
		zap.String("file", cmd.DomainsFile))

	relevant := domains.FilterKeyword(allDomains, keyword)
	s.Logger.Info("Keyword filter applied",
		zap.String("keyword", keyword),
		zap.Int("matches", len(relevant)))

	if len(relevant) == 0 {
		s.Logger.Warn("No domains found containing keyword", zap.String("keyword", keyword))
		result := domain.EmptyResult(cfg.Name, keyword, cmd.BatchSize, start)
		s.persistRun(cmd, result, "", start)
		return result, nil
	}

	verdicts := s.Classifier.Classify(ctx, relevant, cfg, cmd.BatchSize)
	result := domain.ProcessResults(relevant, verdicts, cfg.Name, keyword, cmd.BatchSize, s.Clock.Now())

	artifactURL := ""
	if cmd.OutputPath != "" && s.Reports != nil {
		files, err := s.Reports.Write(result, cmd.OutputPath)
		if err != nil {
			return result, fmt.Errorf("save results: %w", err)
		}
		artifactURL = s.uploadArtifacts(ctx, cmd.TenantID, files)
	}

	s.persistRun(cmd, result, artifactURL, start)
	return result, nil
}

// uploadArtifacts pushes result files to the artifact store when one is
// wired. Upload failures are logged, not fatal: the local files remain.
func (s *Service) uploadArtifacts(ctx context.Context, tenant string, files []string) string {
	if s.Artifacts == nil {
		return ""
	}
	if tenant == "" {
		tenant = "-"
	}
	upload := s.Artifacts.Upload
	if s.CleanupArtifacts {
		upload = s.Artifacts.UploadAndCleanup
	}

	var lastURL string
	for _, f := range files {
		key := fmt.Sprintf("%s/%s", tenant, filepath.Base(f))
		url, err := upload(ctx, f, key)
		if err != nil {
			s.Logger.Warn("Artifact upload failed",
				zap.String("file", f),
				zap.Error(err))
			continue
		}
		s.Logger.Info("Artifact uploaded", zap.String("url", url))
		lastURL = url
	}
	return lastURL
}

// persistRun records the run in the repository when one is wired.
func (s *Service) persistRun(cmd AnalyzeCommand, result domain.Result, artifactURL string, start time.Time) {
	if s.Repo == nil {
		return
	}

	id := fmt.Sprintf("%s-%s", uuid.New().String(), strings.ToLower(cmd.BrandName))
	run := &domain.Run{
		ID:                     domain.RunID(id),
		TenantID:               cmd.TenantID,
		TriggeredAt:            start,
		Brand:                  result.Metadata.Brand,
		Keyword:                result.Metadata.Keyword,
		AnalystMode:            string(cmd.AnalystMode),
		BatchSize:              cmd.BatchSize,
		Status:                 domain.StatusSuccess,
		TotalDomains:           result.Metadata.TotalDomains,
		ThreatCount:            result.Metadata.ThreatCount,
		FilteredCount:          result.Metadata.FilteredCount,
		FalsePositiveReduction: result.Metadata.FalsePositiveReduction,
		ArtifactURL:            artifactURL,
		DurationMS:             s.Clock.Now().Sub(start).Milliseconds(),
	}
	if b, err := json.Marshal(result); err == nil {
		run.ResultJSON = string(b)
	}

	if err := s.Repo.Save(context.Background(), run); err != nil {
		s.Logger.Warn("Failed to persist run", zap.String("id", id), zap.Error(err))
	}
}

// Latest returns the last N runs for a tenant.
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Run, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// Paginate returns a page of runs.
func (s *Service) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedResult, error) {
	return s.Repo.Paginate(ctx, tenant, page, pageSize)
}

// Get returns one run by id.
func (s *Service) Get(ctx context.Context, tenant string, id domain.RunID) (*domain.Run, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// Summary aggregates run results over the last N days.
func (s *Service) Summary(ctx context.Context, tenant string, sinceDays int) (map[string]any, error) {
	runs, threats, filtered, err := s.Repo.Summary(ctx, tenant, sinceDays)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"total_runs":       runs,
		"threats_found":    threats,
		"domains_filtered": filtered,
	}, nil
}
