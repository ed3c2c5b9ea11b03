package analysis

import (
	"time"
)

// ID tipe untuk Run
type RunID string

// Status enum
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Risk levels as they appear in verdicts and reports
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Verdict is the per-domain judgment returned by the LLM step,
// keyed by domain in the classifier's result map.
type Verdict struct {
	Domain     string  `json:"domain"`
	Relevant   bool    `json:"relevant"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	RiskLevel  string  `json:"risk_level"`
}

// ThreatAnalysis value object, one per classified domain
type ThreatAnalysis struct {
	Domain     string  `json:"domain"`
	IsThreat   bool    `json:"is_threat"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	RiskLevel  string  `json:"risk_level"`
	Timestamp  string  `json:"timestamp"`
}

// Metadata computed once after all domains are classified
type Metadata struct {
	Brand                  string `json:"brand"`
	Keyword                string `json:"keyword"`
	TotalDomains           int    `json:"total_domains"`
	ThreatCount            int    `json:"threat_count"`
	FilteredCount          int    `json:"filtered_count"`
	FalsePositiveReduction string `json:"false_positive_reduction"`
	Timestamp              string `json:"timestamp"`
	BatchSize              int    `json:"batch_size"`
}

// Result is the terminal output object. Threats and Filtered partition
// the classified domain set; their union equals the filtered input.
type Result struct {
	Metadata Metadata         `json:"metadata"`
	Threats  []ThreatAnalysis `json:"relevant_domains"`
	Filtered []ThreatAnalysis `json:"filtered_domains"`
}

// Aggregate Root: Run, one row per analysis stored for auditing and retrieval
type Run struct {
	ID                     RunID     `json:"id"`
	TenantID               string    `json:"tenant_id"`
	TriggeredAt            time.Time `json:"triggered_at"`
	Brand                  string    `json:"brand"`
	Keyword                string    `json:"keyword"`
	AnalystMode            string    `json:"analyst_mode"`
	BatchSize              int       `json:"batch_size"`
	Status                 Status    `json:"status"`
	TotalDomains           int       `json:"total_domains"`
	ThreatCount            int       `json:"threat_count"`
	FilteredCount          int       `json:"filtered_count"`
	FalsePositiveReduction string    `json:"false_positive_reduction"`
	ArtifactURL            string    `json:"artifact_url,omitempty"`
	ResultJSON             string    `json:"result_json,omitempty"`
	DurationMS             int64     `json:"duration_ms"`
	Error                  string    `json:"error,omitempty"`
}

// PaginatedResult represents a paginated response with data and metadata
type PaginatedResult struct {
	Data       []*Run `json:"data"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	Total      int64  `json:"totalItems"`
	TotalPages int    `json:"totalPages"`
}
