package analysis

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestProcessResultsPartition(t *testing.T) {
	domains := []string{"a.com", "b.com", "c.com", "d.com"}
	verdicts := map[string]Verdict{
		"a.com": {Domain: "a.com", Relevant: true, Confidence: 0.9, Reason: "Impersonation", RiskLevel: RiskHigh},
		"b.com": {Domain: "b.com", Relevant: false, Confidence: 0.95, Reason: "No threat detected", RiskLevel: RiskLow},
		"d.com": {Domain: "d.com", Relevant: false, Confidence: 0.95, Reason: "No threat detected", RiskLevel: RiskLow},
	}

	res := ProcessResults(domains, verdicts, "ACME", "acme", 200, testNow)

	if got := len(res.Threats) + len(res.Filtered); got != len(domains) {
		t.Fatalf("partition size = %d, want %d", got, len(domains))
	}
	if res.Metadata.ThreatCount != 2 || res.Metadata.FilteredCount != 2 {
		t.Errorf("counts = %d/%d, want 2/2", res.Metadata.ThreatCount, res.Metadata.FilteredCount)
	}
	if res.Metadata.TotalDomains != 4 {
		t.Errorf("TotalDomains = %d, want 4", res.Metadata.TotalDomains)
	}
	if res.Metadata.FalsePositiveReduction != "50.0%" {
		t.Errorf("FalsePositiveReduction = %q, want 50.0%%", res.Metadata.FalsePositiveReduction)
	}
	if res.Metadata.Timestamp != "2025-06-01T12:00:00Z" {
		t.Errorf("Timestamp = %q", res.Metadata.Timestamp)
	}

	// Input order survives within each partition.
	if res.Threats[0].Domain != "a.com" || res.Threats[1].Domain != "c.com" {
		t.Errorf("threat order = %v", res.Threats)
	}
	if res.Filtered[0].Domain != "b.com" || res.Filtered[1].Domain != "d.com" {
		t.Errorf("filtered order = %v", res.Filtered)
	}
}

func TestProcessResultsMissingVerdict(t *testing.T) {
	res := ProcessResults([]string{"lost.com"}, nil, "ACME", "acme", 200, testNow)

	if len(res.Threats) != 1 {
		t.Fatalf("Threats = %v, want one fallback entry", res.Threats)
	}
	got := res.Threats[0]
	if !got.IsThreat || got.Confidence != 0.5 || got.Reason != ReasonUnavailable || got.RiskLevel != RiskMedium {
		t.Errorf("fallback = %+v", got)
	}
}

func TestProcessResultsEmpty(t *testing.T) {
	res := ProcessResults(nil, nil, "ACME", "acme", 200, testNow)
	if res.Metadata.FalsePositiveReduction != "0.0%" {
		t.Errorf("FalsePositiveReduction = %q, want 0.0%%", res.Metadata.FalsePositiveReduction)
	}
}

func TestFalsePositiveReductionRounding(t *testing.T) {
	cases := []struct {
		filtered, total int
		want            string
	}{
		{0, 0, "0.0%"},
		{0, 10, "0.0%"},
		{1, 3, "33.3%"},
		{2, 3, "66.7%"},
		{10, 10, "100.0%"},
	}
	for _, c := range cases {
		if got := falsePositiveReduction(c.filtered, c.total); got != c.want {
			t.Errorf("falsePositiveReduction(%d, %d) = %q, want %q", c.filtered, c.total, got, c.want)
		}
	}
}

func TestEmptyResult(t *testing.T) {
	res := EmptyResult("ACME", "acme", 100, testNow)
	if res.Metadata.Brand != "ACME" || res.Metadata.Keyword != "acme" {
		t.Errorf("metadata = %+v", res.Metadata)
	}
	if res.Metadata.BatchSize != 100 {
		t.Errorf("BatchSize = %d, want 100", res.Metadata.BatchSize)
	}
	if len(res.Threats) != 0 || len(res.Filtered) != 0 {
		t.Errorf("expected empty partitions, got %d/%d", len(res.Threats), len(res.Filtered))
	}
}
