package cli

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandsentry/brandsentry/internal/application"
	appanalysis "github.com/brandsentry/brandsentry/internal/application/analysis"
	"github.com/brandsentry/brandsentry/internal/config"
	"github.com/brandsentry/brandsentry/internal/domain/ai"
	"github.com/brandsentry/brandsentry/internal/infra/ai/gemini"
	openaiinfra "github.com/brandsentry/brandsentry/internal/infra/ai/openai"
	mysqldb "github.com/brandsentry/brandsentry/internal/infra/db/mysql"
	postgresdb "github.com/brandsentry/brandsentry/internal/infra/db/postgres"
	"github.com/brandsentry/brandsentry/internal/infra/httpserver"
	"github.com/brandsentry/brandsentry/internal/infra/report"
	minioStore "github.com/brandsentry/brandsentry/internal/infra/storage"
	"github.com/brandsentry/brandsentry/internal/middleware"
)

func newServeCmd() *cobra.Command {
	var analyst string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for triggering and browsing analysis runs",
		Long: `Run the brandsentry HTTP API.

Requires a config.yaml with at least a database section; analysis runs
triggered over HTTP are persisted there and can be listed, paged and
summarized per tenant.`,
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

			key := config.ResolveAPIKey("", logger)
			if key == "" {
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

			if !cfg.HasDatabase() {
				return fmt.Errorf("serve requires a database section in %s", configPath)
			}

			var db *sql.DB
			switch cfg.Database.Driver {
			case "postgres":
				db, err = postgresdb.Connect(ctx, cfg.PostgresDSN())
			default:
				db, err = mysqldb.Connect(ctx, cfg.MySQLDSN())
			}
			if err != nil {
				return fmt.Errorf("database connect: %w", err)
			}
			defer db.Close()

			svc := &appanalysis.Service{
				Classifier: appanalysis.NewClassifier(gen, logger),
				Reports:    report.NewWriter(logger),
				Clock:      application.SystemClock{},
				Logger:     logger,
			}
			switch cfg.Database.Driver {
			case "postgres":
				svc.Repo = postgresdb.NewRunRepository(db)
			default:
				svc.Repo = mysqldb.NewRunRepository(db)
			}

			if cfg.HasMinio() {
				store, err := minioStore.New(ctx,
					cfg.Minio.Endpoint, cfg.Minio.Region, cfg.Minio.BucketName,
					cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
				if err != nil {
					return fmt.Errorf("minio init: %w", err)
				}
				svc.Artifacts = store
				svc.CleanupArtifacts = cfg.Minio.CleanupLocal
			}

			mux := chi.NewRouter()
			mux.Use(cors.Handler(cors.Options{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST"},
				AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			}))
			mux.Use(middleware.Logging(logger))
			if len(cfg.Auth.APIKeys) > 0 {
				mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
			}
			mux.Use(middleware.RateLimit(10, 1))
			mux.Get("/healthz", middleware.HealthHandler(map[string]middleware.HealthChecker{
				"database": &middleware.DatabaseHealthChecker{DB: db},
			}))
			mux.Mount("/", httpserver.NewRouter(svc))

			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			srv := &http.Server{
				Addr:         addr,
				Handler:      mux,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Minute, // analysis runs block on LLM pacing
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				logger.Info("server listening", zap.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("server error", zap.Error(err))
				}
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			logger.Info("shutting down server...")

			ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx2); err != nil {
				logger.Warn("shutdown error", zap.Error(err))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&analyst, "analyst", string(ai.DefaultMode), "Analyst experience level used for HTTP-triggered runs")

	return cmd
}
