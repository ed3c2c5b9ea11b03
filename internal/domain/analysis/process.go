package analysis

import (
	"fmt"
	"time"
)

// ReasonUnavailable marks domains the LLM step never produced a verdict for.
// They are treated as potential threats rather than dropped.
const ReasonUnavailable = "LLM evaluation unavailable"

// fallbackVerdict is the conservative default for unverdicted domains.
func fallbackVerdict(domain string) Verdict {
	return Verdict{
		Domain:     domain,
		Relevant:   true,
		Confidence: 0.5,
		Reason:     ReasonUnavailable,
		RiskLevel:  RiskMedium,
	}
}

// ProcessResults merges the verdict map into one ThreatAnalysis per input
// domain and partitions them into threats and filtered, preserving input
// order within each partition. Every input domain ends up in exactly one
// partition; missing verdicts get the conservative fallback.
func ProcessResults(domains []string, verdicts map[string]Verdict, brand, keyword string, batchSize int, now time.Time) Result {
	timestamp := now.Format(time.RFC3339)

	var threats, filtered []ThreatAnalysis
	for _, domain := range domains {
		v, ok := verdicts[domain]
		if !ok {
			v = fallbackVerdict(domain)
		}

		ta := ThreatAnalysis{
			Domain:     domain,
			IsThreat:   v.Relevant,
			Confidence: v.Confidence,
			Reason:     v.Reason,
			RiskLevel:  v.RiskLevel,
			Timestamp:  timestamp,
		}

		if ta.IsThreat {
			threats = append(threats, ta)
		} else {
			filtered = append(filtered, ta)
		}
	}

	return Result{
		Metadata: Metadata{
			Brand:                  brand,
			Keyword:                keyword,
			TotalDomains:           len(domains),
			ThreatCount:            len(threats),
			FilteredCount:          len(filtered),
			FalsePositiveReduction: falsePositiveReduction(len(filtered), len(domains)),
			Timestamp:              timestamp,
			BatchSize:              batchSize,
		},
		Threats:  threats,
		Filtered: filtered,
	}
}

// EmptyResult is returned when keyword filtering leaves nothing to classify.
func EmptyResult(brand, keyword string, batchSize int, now time.Time) Result {
	return Result{
		Metadata: Metadata{
			Brand:                  brand,
			Keyword:                keyword,
			FalsePositiveReduction: "0.0%",
			Timestamp:              now.Format(time.RFC3339),
			BatchSize:              batchSize,
		},
	}
}

func falsePositiveReduction(filtered, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(filtered)/float64(total)*100)
}
