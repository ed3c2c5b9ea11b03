package cli

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandsentry/brandsentry/internal/application"
	appanalysis "github.com/brandsentry/brandsentry/internal/application/analysis"
	"github.com/brandsentry/brandsentry/internal/config"
	"github.com/brandsentry/brandsentry/internal/domain/ai"
	domain "github.com/brandsentry/brandsentry/internal/domain/analysis"
	"github.com/brandsentry/brandsentry/internal/infra/ai/gemini"
	openaiinfra "github.com/brandsentry/brandsentry/internal/infra/ai/openai"
	mysqldb "github.com/brandsentry/brandsentry/internal/infra/db/mysql"
	postgresdb "github.com/brandsentry/brandsentry/internal/infra/db/postgres"
	"github.com/brandsentry/brandsentry/internal/infra/report"
	minioStore "github.com/brandsentry/brandsentry/internal/infra/storage"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		domainsFile string
		brandName   string
		apiKey      string
		companyName string
		industry    string
		description string
		batchSize   int
		output      string
		analyst     string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a domain list for brand-impersonation threats",
		Long: `Analyze newly registered domains against a brand.

Input and output files live in the data/ folder. The API key is resolved
from --api-key, the GEMINI_API_KEY environment variable, a local .env
file, or an interactive prompt, in that order.

Example:
  brandsentry analyze --domains tui.txt --brand-name tui
  brandsentry analyze --domains tui.txt --brand-name tui --company-name "TUI AG" \
    --industry "Travel & Tourism" --batch-size 500 --analyst junior --output tui_results.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := NewLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			mode := ai.Mode(analyst)
			if !ai.ValidMode(mode) {
				return fmt.Errorf("unknown analyst mode %q (want junior, senior or expert)", analyst)
			}

			configPath, _ := cmd.Root().PersistentFlags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			key := config.ResolveAPIKey(apiKey, logger)
			if key == "" && cfg.AI.APIKey != "" {
				key = cfg.AI.APIKey
			}
			if key == "" {
				return ai.ErrNotConfigured
			}

			ctx := cmd.Context()

			var gen ai.Generator
			switch cfg.AI.Provider {
			case "openai":
				gen = openaiinfra.NewClient(key, cfg.AI.Model, mode, logger)
			default:
				gc, err := gemini.NewClient(ctx, key, cfg.AI.Model, mode, logger)
				if err != nil {
					return err
				}
				defer gc.Close()
				gen = gc
			}

			svc := &appanalysis.Service{
				Classifier: appanalysis.NewClassifier(gen, logger),
				Reports:    report.NewWriter(logger),
				Clock:      application.SystemClock{},
				Logger:     logger,
			}

			if cfg.HasDatabase() {
				var db *sql.DB
				switch cfg.Database.Driver {
				case "postgres":
					db, err = postgresdb.Connect(ctx, cfg.PostgresDSN())
					if err == nil {
						svc.Repo = postgresdb.NewRunRepository(db)
					}
				default:
					db, err = mysqldb.Connect(ctx, cfg.MySQLDSN())
					if err == nil {
						svc.Repo = mysqldb.NewRunRepository(db)
					}
				}
				if err != nil {
					logger.Warn("Run history disabled: database unreachable", zap.Error(err))
					err = nil
				} else {
					defer db.Close()
				}
			}

			if cfg.HasMinio() {
				store, err := minioStore.New(ctx,
					cfg.Minio.Endpoint, cfg.Minio.Region, cfg.Minio.BucketName,
					cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
				if err != nil {
					logger.Warn("Artifact upload disabled: minio unreachable", zap.Error(err))
				} else {
					svc.Artifacts = store
					svc.CleanupArtifacts = cfg.Minio.CleanupLocal
				}
			}

			result, err := svc.Analyze(ctx, appanalysis.AnalyzeCommand{
				DomainsFile: domainsFile,
				BrandName:   brandName,
				CompanyName: companyName,
				Industry:    industry,
				Description: description,
				BatchSize:   batchSize,
				OutputPath:  output,
				AnalystMode: mode,
			})
			if err != nil {
				return err
			}

			printSummary(cmd, result, mode)
			return nil
		},
	}

	cmd.Flags().StringVar(&domainsFile, "domains", "", "Required: domain list filename in the data/ folder (e.g. tui.txt)")
	cmd.Flags().StringVar(&brandName, "brand-name", "", `Required: brand name for analysis (e.g. "tui", "otto", "nike")`)
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Optional: API key (alternative to environment variable or .env file)")
	cmd.Flags().StringVar(&companyName, "company-name", "", `Optional: full company name (e.g. "TUI AG")`)
	cmd.Flags().StringVar(&industry, "industry", "", `Optional: industry/business sector (e.g. "Travel & Tourism")`)
	cmd.Flags().StringVar(&description, "description", "", "Optional: brand/company description to improve analysis accuracy")
	cmd.Flags().IntVar(&batchSize, "batch-size", appanalysis.DefaultBatchSize, "Optional: domains per API request")
	cmd.Flags().StringVar(&output, "output", "", `Optional: output filename in the data/ folder (e.g. "tui_results.csv")`)
	cmd.Flags().StringVar(&analyst, "analyst", string(ai.DefaultMode), "Optional: analyst experience level: junior, senior or expert")
	cmd.MarkFlagRequired("domains")
	cmd.MarkFlagRequired("brand-name")

	return cmd
}

func printSummary(cmd *cobra.Command, result domain.Result, mode ai.Mode) {
	md := result.Metadata
	cmd.Println()
	cmd.Println("=== ANALYSIS SUMMARY ===")
	cmd.Printf("Brand: %s\n", md.Brand)
	cmd.Printf("Total domains: %d\n", md.TotalDomains)
	cmd.Printf("Threats found: %d\n", md.ThreatCount)
	cmd.Printf("Filtered out: %d\n", md.FilteredCount)
	cmd.Printf("False positive reduction: %s\n", md.FalsePositiveReduction)
	cmd.Printf("Analysis completed in %s mode\n", strings.ToUpper(string(mode)))

	if md.ThreatCount > 0 {
		cmd.Printf("\n%d domains require investigation:\n", md.ThreatCount)
		for _, t := range result.Threats {
			cmd.Printf("%s (%s) - (%s)\n", t.Domain, t.RiskLevel, t.Reason)
		}
	} else {
		cmd.Println("No threats detected!")
	}
}
