package prompt

import (
	"fmt"
	"strings"

	"github.com/brandsentry/brandsentry/internal/domain/brand"
)

// Evaluation renders the analyst instruction for one batch of domains.
// Pure function of its inputs; the batch keeps caller order and shows up
// as a numbered list.
func Evaluation(domains []string, cfg brand.Config) string {
	var b strings.Builder

	notes := make([]string, 0, len(cfg.ContextNotes))
	for _, note := range cfg.ContextNotes {
		notes = append(notes, "- "+note)
	}

	fmt.Fprintf(&b, `You are a Brand Protection Analyst for %s (%s) for several years now.

BRAND CONTEXT:
- Company: %s
- Industry: %s
- Description: %s

CONTEXT NOTES:
%s

TASK: Analyze these newly registered domains for potential brand threats. Only return domains that could realistically threaten %s through customer confusion or impersonation.

DOMAINS TO CHECK:
`, cfg.Name, cfg.Industry, cfg.Name, cfg.Industry, cfg.Description, strings.Join(notes, "\n"), cfg.Name)

	for i, domain := range domains {
		fmt.Fprintf(&b, "%d. %s\n", i+1, domain)
	}

	fmt.Fprintf(&b, `
CRITICAL THREAT ASSESSMENT RULES:
1. Domains that combine the brand name with legitimate business terms (com, corp, group, tech, solutions, services, global, etc.) are HIGH RISK - they appear credible and can confuse customers
2. Domains that look "professional" or "official" and could confuse customers
3. Domains that could represent official services, divisions, or products
4. Consider: "Would a customer believe this could be an official %s website or service?"
5. The more legitimate a domain appears, the higher the threat level for customer confusion


NEVER FLAG as threats:
1. Brand name + random character strings
2. Domains where suspicious TLD is the only concerning factor

Your response should be in this exact JSON format:
`, cfg.Name)

	b.WriteString(`
{
    "threats": [
        {
            "domain": "risky-domain.com",
            "reason": "Could impersonate official services",
            "risk_level": "HIGH",
            "confidence": 0.9
        }
    ]
}

If no domains are risky, respond with:
{
    "threats": []
}

Analyze now:`)

	return b.String()
}
