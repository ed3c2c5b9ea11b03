package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brandsentry/brandsentry/internal/domain/ai"
	domain "github.com/brandsentry/brandsentry/internal/domain/analysis"
	"github.com/brandsentry/brandsentry/internal/domain/brand"
)

type genCall struct {
	text string
	err  error
}

// fakeGenerator pops one scripted result per Generate call and keeps the
// prompts it saw. The last result repeats once the script runs out.
type fakeGenerator struct {
	configured bool
	script     []genCall
	usage      ai.Usage
	prompts    []string
	calls      int
}

func (f *fakeGenerator) Configured() bool { return f.configured }

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (ai.Response, error) {
	f.prompts = append(f.prompts, prompt)
	idx := f.calls
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	f.calls++
	r := f.script[idx]
	if r.err != nil {
		return ai.Response{}, r.err
	}
	return ai.Response{Text: r.text, Usage: f.usage}, nil
}

// testClassifier replaces real sleeps with a recorder and pins jitter to 0
// so waits are exact.
func testClassifier(gen ai.Generator) (*Classifier, *[]time.Duration) {
	c := NewClassifier(gen, zap.NewNop())
	var waits []time.Duration
	c.sleep = func(d time.Duration) { waits = append(waits, d) }
	c.jitter = func(float64) float64 { return 0 }
	return c, &waits
}

func testBrand(t *testing.T) brand.Config {
	t.Helper()
	cfg, err := brand.NewConfig("Acme", "", "", "")
	require.NoError(t, err)
	return cfg
}

func TestClassifyUnconfigured(t *testing.T) {
	c, waits := testClassifier(&fakeGenerator{configured: false})

	got := c.Classify(context.Background(), []string{"acme.com"}, testBrand(t), 200)

	assert.Empty(t, got)
	assert.Empty(t, *waits)
}

func TestClassifyParsesThreats(t *testing.T) {
	gen := &fakeGenerator{
		configured: true,
		script: []genCall{{text: "Here you go:\n```json\n" + `{
			"threats": [
				{"domain": "acme-login.com", "reason": "Credential phishing", "risk_level": "HIGH", "confidence": 0.9},
				{"domain": "acme-corp.com", "risk_level": ""},
				{"domain": "not-in-batch.com", "reason": "ignored"}
			]
		}` + "\n```"}},
		usage: ai.Usage{InputTokens: 100, OutputTokens: 20, TotalTokens: 120},
	}
	c, waits := testClassifier(gen)

	batch := []string{"acme-login.com", "acme-corp.com", "acme-news.com"}
	got := c.Classify(context.Background(), batch, testBrand(t), 200)

	require.Len(t, got, 3)
	assert.Empty(t, *waits, "single batch should not sleep")

	assert.Equal(t, domain.Verdict{
		Domain:     "acme-login.com",
		Relevant:   true,
		Confidence: 0.9,
		Reason:     "Credential phishing",
		RiskLevel:  "high",
	}, got["acme-login.com"])

	// Absent fields fall back to the threat defaults.
	assert.Equal(t, domain.Verdict{
		Domain:     "acme-corp.com",
		Relevant:   true,
		Confidence: 0.8,
		Reason:     "Potential threat",
		RiskLevel:  domain.RiskMedium,
	}, got["acme-corp.com"])

	// Unlisted batch members default to no-threat.
	assert.Equal(t, domain.Verdict{
		Domain:     "acme-news.com",
		Relevant:   false,
		Confidence: 0.95,
		Reason:     "No threat detected",
		RiskLevel:  domain.RiskLow,
	}, got["acme-news.com"])

	// Hallucinated domains never enter the result.
	assert.NotContains(t, got, "not-in-batch.com")

	assert.Equal(t, ai.Usage{InputTokens: 100, OutputTokens: 20, TotalTokens: 120}, c.TokenUsage())
}

func TestClassifyEmptyThreats(t *testing.T) {
	gen := &fakeGenerator{configured: true, script: []genCall{{text: `{"threats": []}`}}}
	c, _ := testClassifier(gen)

	got := c.Classify(context.Background(), []string{"acme.com"}, testBrand(t), 200)

	require.Len(t, got, 1)
	assert.False(t, got["acme.com"].Relevant)
}

func TestClassifyUnparseableResponse(t *testing.T) {
	gen := &fakeGenerator{configured: true, script: []genCall{{text: "sorry, no JSON today"}}}
	c, _ := testClassifier(gen)

	got := c.Classify(context.Background(), []string{"acme.com"}, testBrand(t), 200)

	// Nothing parsed; downstream processing supplies the fallback.
	assert.Empty(t, got)
}

func TestClassifyOverloadRetries(t *testing.T) {
	gen := &fakeGenerator{
		configured: true,
		script:     []genCall{{err: errors.New("googleapi: Error 503: The model is overloaded")}},
	}
	c, waits := testClassifier(gen)

	got := c.Classify(context.Background(), []string{"acme.com", "acme2.com"}, testBrand(t), 200)

	assert.Equal(t, 3, gen.calls, "overload should be retried twice")
	// Backoff doubles per attempt; jitter pinned to 0.
	assert.Equal(t, []time.Duration{15 * time.Second, 30 * time.Second}, *waits)

	require.Len(t, got, 2)
	for _, d := range []string{"acme.com", "acme2.com"} {
		v := got[d]
		assert.True(t, v.Relevant)
		assert.Equal(t, 0.5, v.Confidence)
		assert.Equal(t, "API overloaded after 3 retries", v.Reason)
		assert.Equal(t, domain.RiskMedium, v.RiskLevel)
	}
}

func TestClassifyOverloadThenSuccess(t *testing.T) {
	gen := &fakeGenerator{
		configured: true,
		script: []genCall{
			{err: errors.New("UNAVAILABLE: try again")},
			{text: `{"threats": []}`},
		},
	}
	c, waits := testClassifier(gen)

	got := c.Classify(context.Background(), []string{"acme.com"}, testBrand(t), 200)

	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, []time.Duration{15 * time.Second}, *waits)
	assert.False(t, got["acme.com"].Relevant)
}

func TestClassifyNonRecoverableError(t *testing.T) {
	gen := &fakeGenerator{
		configured: true,
		script:     []genCall{{err: errors.New("invalid API key")}},
	}
	c, waits := testClassifier(gen)

	got := c.Classify(context.Background(), []string{"acme.com"}, testBrand(t), 200)

	assert.Equal(t, 1, gen.calls, "non-overload errors do not retry")
	assert.Empty(t, *waits)

	v := got["acme.com"]
	assert.True(t, v.Relevant)
	assert.Equal(t, "API error: invalid API key", v.Reason)
	assert.Equal(t, 0.5, v.Confidence)
}

func TestClassifyBatching(t *testing.T) {
	gen := &fakeGenerator{configured: true, script: []genCall{{text: `{"threats": []}`}}}
	c, waits := testClassifier(gen)

	domainList := []string{"a.acme.com", "b.acme.com", "c.acme.com"}
	got := c.Classify(context.Background(), domainList, testBrand(t), 2)

	assert.Equal(t, 2, gen.calls)
	// One pacing sleep between the two batches, none after the last.
	assert.Equal(t, []time.Duration{15 * time.Second}, *waits)
	assert.Len(t, got, 3)

	// Each prompt lists only its own batch.
	assert.Contains(t, gen.prompts[0], "a.acme.com")
	assert.Contains(t, gen.prompts[0], "b.acme.com")
	assert.NotContains(t, gen.prompts[0], "c.acme.com")
	assert.Contains(t, gen.prompts[1], "c.acme.com")
}

func TestClassifyInvalidBatchSize(t *testing.T) {
	gen := &fakeGenerator{configured: true, script: []genCall{{text: `{"threats": []}`}}}
	c, _ := testClassifier(gen)

	got := c.Classify(context.Background(), []string{"acme.com"}, testBrand(t), -5)

	assert.Equal(t, 1, gen.calls, "non-positive batch size falls back to the default")
	assert.Len(t, got, 1)
}

func TestClassifyJitterSpreadsWaits(t *testing.T) {
	gen := &fakeGenerator{configured: true, script: []genCall{{text: `{"threats": []}`}}}
	c, waits := testClassifier(gen)
	c.jitter = func(max float64) float64 { return max / 2 }

	c.Classify(context.Background(), []string{"a.acme.com", "b.acme.com"}, testBrand(t), 1)

	// Inter-batch wait is 15s plus jitter in [0,3).
	require.Len(t, *waits, 1)
	assert.Equal(t, 15*time.Second+1500*time.Millisecond, (*waits)[0])
}

func TestParseResponseMalformedJSON(t *testing.T) {
	c, _ := testClassifier(&fakeGenerator{configured: true})

	got := c.parseResponse(`{"threats": [`, []string{"acme.com"})
	assert.Empty(t, got)

	// Surrounding prose is fine as long as one object is embedded.
	got = c.parseResponse("prefix {\"threats\": []} suffix", []string{"acme.com"})
	require.Len(t, got, 1)
	assert.False(t, strings.Contains(got["acme.com"].Reason, "error"))
}
