package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	domain "github.com/brandsentry/brandsentry/internal/domain/analysis"
	"github.com/brandsentry/brandsentry/internal/domain/domains"
)

var csvHeader = []string{"domain", "is_threat", "confidence", "reason", "risk_level", "timestamp"}

// Writer persists analysis results as CSV and JSON artifacts. Everything
// lands under the data folder no matter what path prefix the caller gives.
type Writer struct {
	OutputDir string
	Logger    *zap.Logger
}

func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{OutputDir: domains.DataDir, Logger: logger}
}

// Write produces <base>_threats.csv and <base>_filtered.csv when their
// partitions are non-empty, and always <base>_complete.json. Returns the
// paths written.
func (w *Writer) Write(result domain.Result, outputPath string) ([]string, error) {
	base := w.basePath(outputPath)
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var saved []string

	if len(result.Threats) > 0 {
		path := base + "_threats.csv"
		if err := writeCSV(path, result.Threats); err != nil {
			return saved, err
		}
		w.Logger.Info("Threats saved", zap.String("path", path))
		saved = append(saved, path)
	}

	if len(result.Filtered) > 0 {
		path := base + "_filtered.csv"
		if err := writeCSV(path, result.Filtered); err != nil {
			return saved, err
		}
		w.Logger.Info("Filtered domains saved", zap.String("path", path))
		saved = append(saved, path)
	}

	jsonPath := base + "_complete.json"
	if err := writeJSON(jsonPath, result); err != nil {
		return saved, err
	}
	w.Logger.Info("Complete results saved", zap.String("path", jsonPath))
	saved = append(saved, jsonPath)

	return saved, nil
}

// basePath strips a .csv/.json extension and roots the result under the
// output dir unless the caller already did.
func (w *Writer) basePath(outputPath string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(outputPath, ".csv"), ".json")
	clean := filepath.ToSlash(base)
	if strings.HasPrefix(clean, w.OutputDir+"/") {
		return base
	}
	return filepath.Join(w.OutputDir, base)
}

func writeCSV(path string, rows []domain.ThreatAnalysis) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Domain,
			strconv.FormatBool(r.IsThreat),
			strconv.FormatFloat(r.Confidence, 'g', -1, 64),
			r.Reason,
			r.RiskLevel,
			r.Timestamp,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(path string, result domain.Result) error {
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
