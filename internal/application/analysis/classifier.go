package analysis

import (
	"context"
	"encoding/json"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brandsentry/brandsentry/internal/domain/ai"
	domain "github.com/brandsentry/brandsentry/internal/domain/analysis"
	"github.com/brandsentry/brandsentry/internal/domain/brand"
	"github.com/brandsentry/brandsentry/internal/infra/ai/prompt"
)

// DefaultBatchSize bounds how many domains go into one request.
const DefaultBatchSize = 200

const (
	maxRetries = 3
	baseWait   = 15 * time.Second
)

// jsonObject grabs the first brace-delimited object in a response,
// markdown fences and prose included.
var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// Classifier sends domain batches to a Generator, retries transient
// overloads with exponential backoff, and parses verdicts out of the
// JSON the model returns. Strictly sequential: one batch at a time.
type Classifier struct {
	gen    ai.Generator
	logger *zap.Logger

	// sleep and jitter are swappable so tests can observe waits
	// instead of serving them.
	sleep  func(time.Duration)
	jitter func(max float64) float64

	totalInputTokens  int
	totalOutputTokens int
	totalTokens       int
}

func NewClassifier(gen ai.Generator, logger *zap.Logger) *Classifier {
	return &Classifier{
		gen:    gen,
		logger: logger,
		sleep:  time.Sleep,
		jitter: func(max float64) float64 { return rand.Float64() * max },
	}
}

// Configured reports whether the underlying generator holds a credential.
func (c *Classifier) Configured() bool { return c.gen.Configured() }

// Classify runs every batch through the generator and returns the merged
// verdict map. Batches that fail terminally get conservative fallback
// verdicts; batches whose response cannot be parsed contribute nothing
// and are defaulted downstream. An unconfigured generator yields an
// empty map.
func (c *Classifier) Classify(ctx context.Context, domainList []string, cfg brand.Config, batchSize int) map[string]domain.Verdict {
	if !c.gen.Configured() {
		c.logger.Warn("LLM client not configured. Cannot analyze domains")
		return map[string]domain.Verdict{}
	}

	if batchSize <= 0 {
		c.logger.Warn("Invalid batch size, using default",
			zap.Int("batch_size", batchSize),
			zap.Int("default", DefaultBatchSize))
		batchSize = DefaultBatchSize
	}

	results := make(map[string]domain.Verdict, len(domainList))
	totalBatches := (len(domainList) + batchSize - 1) / batchSize

	c.logger.Info("Analyzing domains",
		zap.Int("domains", len(domainList)),
		zap.Int("batches", totalBatches),
		zap.Int("batch_size", batchSize))

	for i := 0; i < len(domainList); i += batchSize {
		end := i + batchSize
		if end > len(domainList) {
			end = len(domainList)
		}
		batch := domainList[i:end]
		batchNum := i/batchSize + 1

		c.logger.Info("Processing batch",
			zap.Int("batch", batchNum),
			zap.Int("total_batches", totalBatches),
			zap.Int("domains", len(batch)))

		c.classifyBatch(ctx, batch, cfg, batchNum, results)

		// Rate limiting between batches, skipped after the last one.
		if batchNum < totalBatches {
			wait := baseWait + time.Duration(c.jitter(3)*float64(time.Second))
			c.logger.Info("Waiting before next batch", zap.Duration("wait", wait))
			c.sleep(wait)
		}
	}

	c.logger.Info("Total token usage",
		zap.Int("input_tokens", c.totalInputTokens),
		zap.Int("output_tokens", c.totalOutputTokens),
		zap.Int("total_tokens", c.totalTokens))

	return results
}

func (c *Classifier) classifyBatch(ctx context.Context, batch []string, cfg brand.Config, batchNum int, results map[string]domain.Verdict) {
	promptText := prompt.Evaluation(batch, cfg)

	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := c.gen.Generate(ctx, promptText)
		if err == nil {
			c.recordUsage(batchNum, resp.Usage)
			for d, v := range c.parseResponse(resp.Text, batch) {
				results[d] = v
			}
			return
		}

		c.logger.Warn("Error processing batch",
			zap.Int("batch", batchNum),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if !ai.IsOverloaded(err) {
			// Non-recoverable error: fall back immediately, no retry.
			c.logger.Warn("Non-recoverable error for batch",
				zap.Int("batch", batchNum),
				zap.Error(err))
			for _, d := range batch {
				results[d] = domain.Verdict{
					Domain:     d,
					Relevant:   true,
					Confidence: 0.5,
					Reason:     "API error: " + err.Error(),
					RiskLevel:  domain.RiskMedium,
				}
			}
			return
		}

		if attempt < maxRetries-1 {
			// Exponential backoff: 15s, 30s plus jitter.
			wait := baseWait*(1<<attempt) + time.Duration(c.jitter(5)*float64(time.Second))
			c.logger.Warn("Model overloaded. Waiting before retry",
				zap.Duration("wait", wait))
			c.sleep(wait)
			continue
		}

		c.logger.Warn("Max retries reached for batch", zap.Int("batch", batchNum))
		for _, d := range batch {
			results[d] = domain.Verdict{
				Domain:     d,
				Relevant:   true,
				Confidence: 0.5,
				Reason:     "API overloaded after 3 retries",
				RiskLevel:  domain.RiskMedium,
			}
		}
	}
}

func (c *Classifier) recordUsage(batchNum int, u ai.Usage) {
	if u == (ai.Usage{}) {
		return
	}
	c.totalInputTokens += u.InputTokens
	c.totalOutputTokens += u.OutputTokens
	c.totalTokens += u.TotalTokens
	c.logger.Info("Token usage",
		zap.Int("batch", batchNum),
		zap.Int("input_tokens", u.InputTokens),
		zap.Int("output_tokens", u.OutputTokens),
		zap.Int("total_tokens", u.TotalTokens))
}

// threatItem mirrors the JSON shape the prompt requests. Confidence is a
// pointer so an absent field is distinguishable from 0.
type threatItem struct {
	Domain     string   `json:"domain"`
	Reason     string   `json:"reason"`
	RiskLevel  string   `json:"risk_level"`
	Confidence *float64 `json:"confidence"`
}

// parseResponse extracts the first JSON object from the response text and
// builds one verdict per batch domain: everything defaults to no-threat,
// then the threats array overwrites its subset. A malformed or absent
// object yields an empty map and the batch is defaulted downstream.
func (c *Classifier) parseResponse(text string, batch []string) map[string]domain.Verdict {
	raw := jsonObject.FindString(text)
	if raw == "" {
		c.logger.Warn("No JSON found in LLM response", zap.String("response", text))
		return map[string]domain.Verdict{}
	}

	var payload struct {
		Threats []threatItem `json:"threats"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		c.logger.Warn("Response JSON decode error",
			zap.Error(err),
			zap.String("response", text))
		return map[string]domain.Verdict{}
	}

	results := make(map[string]domain.Verdict, len(batch))
	inBatch := make(map[string]bool, len(batch))
	for _, d := range batch {
		inBatch[d] = true
		results[d] = domain.Verdict{
			Domain:     d,
			Relevant:   false,
			Confidence: 0.95,
			Reason:     "No threat detected",
			RiskLevel:  domain.RiskLow,
		}
	}

	for _, t := range payload.Threats {
		if !inBatch[t.Domain] {
			continue
		}
		confidence := 0.8
		if t.Confidence != nil {
			confidence = *t.Confidence
		}
		reason := t.Reason
		if reason == "" {
			reason = "Potential threat"
		}
		risk := strings.ToLower(t.RiskLevel)
		if risk == "" {
			risk = domain.RiskMedium
		}
		results[t.Domain] = domain.Verdict{
			Domain:     t.Domain,
			Relevant:   true,
			Confidence: confidence,
			Reason:     reason,
			RiskLevel:  risk,
		}
	}

	return results
}

// TokenUsage exposes the accumulated counters for run metadata and logs.
func (c *Classifier) TokenUsage() ai.Usage {
	return ai.Usage{
		InputTokens:  c.totalInputTokens,
		OutputTokens: c.totalOutputTokens,
		TotalTokens:  c.totalTokens,
	}
}
