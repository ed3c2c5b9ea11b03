package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewRoot(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brandsentry",
		Short: "brandsentry: semantic domain monitoring for brand protection",
		Long: `brandsentry screens newly registered domain names for potential
brand-impersonation threats. Domains are pre-filtered on keyword presence,
judged in batches by a generation API, and the verdicts are aggregated into
CSV and JSON reports under the data/ folder.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version
	cmd.SetVersionTemplate("brandsentry {{.Version}}\n")

	cmd.PersistentFlags().String("config", getenvDefault("BRANDSENTRY_CONFIG", "config.yaml"), "Path to config.yaml")

	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// NewLogger builds the process-wide logger, constructed once and passed
// down explicitly. Production config with human-readable timestamps.
func NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
