package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/brandsentry/brandsentry/internal/domain/analysis"
)

func testResult() domain.Result {
	return domain.Result{
		Metadata: domain.Metadata{
			Brand:                  "ACME",
			Keyword:                "acme",
			TotalDomains:           2,
			ThreatCount:            1,
			FilteredCount:          1,
			FalsePositiveReduction: "50.0%",
			Timestamp:              "2025-06-01T12:00:00Z",
			BatchSize:              200,
		},
		Threats: []domain.ThreatAnalysis{{
			Domain: "acme-login.com", IsThreat: true, Confidence: 0.9,
			Reason: "Phishing", RiskLevel: domain.RiskHigh, Timestamp: "2025-06-01T12:00:00Z",
		}},
		Filtered: []domain.ThreatAnalysis{{
			Domain: "acmecdn.net", IsThreat: false, Confidence: 0.95,
			Reason: "No threat detected", RiskLevel: domain.RiskLow, Timestamp: "2025-06-01T12:00:00Z",
		}},
	}
}

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	return &Writer{OutputDir: t.TempDir(), Logger: zap.NewNop()}
}

func TestWriteAllArtifacts(t *testing.T) {
	w := newTestWriter(t)

	saved, err := w.Write(testResult(), "scan.csv")
	require.NoError(t, err)

	want := []string{
		filepath.Join(w.OutputDir, "scan_threats.csv"),
		filepath.Join(w.OutputDir, "scan_filtered.csv"),
		filepath.Join(w.OutputDir, "scan_complete.json"),
	}
	assert.Equal(t, want, saved)
	for _, p := range saved {
		assert.FileExists(t, p)
	}
}

func TestWriteThreatsCSV(t *testing.T) {
	w := newTestWriter(t)

	_, err := w.Write(testResult(), "scan")
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(w.OutputDir, "scan_threats.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"domain", "is_threat", "confidence", "reason", "risk_level", "timestamp"}, rows[0])
	assert.Equal(t, []string{"acme-login.com", "true", "0.9", "Phishing", "high", "2025-06-01T12:00:00Z"}, rows[1])
}

func TestWriteSkipsEmptyPartitions(t *testing.T) {
	w := newTestWriter(t)
	result := testResult()
	result.Threats = nil

	saved, err := w.Write(result, "scan")
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(w.OutputDir, "scan_threats.csv"))
	assert.FileExists(t, filepath.Join(w.OutputDir, "scan_filtered.csv"))
	assert.FileExists(t, filepath.Join(w.OutputDir, "scan_complete.json"))
	assert.Len(t, saved, 2)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	w := newTestWriter(t)
	want := testResult()

	_, err := w.Write(want, "scan")
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(w.OutputDir, "scan_complete.json"))
	require.NoError(t, err)

	// Top-level keys are fixed.
	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &keys))
	for _, k := range []string{"metadata", "relevant_domains", "filtered_domains"} {
		assert.Contains(t, keys, k)
	}

	var got domain.Result
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, want, got)
}

func TestBasePath(t *testing.T) {
	w := &Writer{OutputDir: "data", Logger: zap.NewNop()}

	cases := map[string]string{
		"scan.csv":           filepath.Join("data", "scan"),
		"scan.json":          filepath.Join("data", "scan"),
		"scan":               filepath.Join("data", "scan"),
		"data/scan.csv":      "data/scan",
		filepath.Join("sub", "scan.csv"): filepath.Join("data", "sub", "scan"),
	}
	for in, want := range cases {
		assert.Equal(t, want, w.basePath(in), "basePath(%q)", in)
	}
}
