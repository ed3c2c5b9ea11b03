package brand

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoBrandName is fatal: nothing can be analyzed without a brand.
var ErrNoBrandName = errors.New("brand name is required")

// Config describes the brand under protection. Immutable once built;
// it steers the LLM's judgment and nothing else.
type Config struct {
	Name         string   `json:"name"`
	Industry     string   `json:"industry"`
	Description  string   `json:"description"`
	ContextNotes []string `json:"context_notes"`
}

// NewConfig builds a Config from a required brand name plus optional
// company name, industry and description. Optional fields default:
// industry to "Business", description to boilerplate referencing the
// company, company name to the brand name itself.
func NewConfig(brandName, companyName, industry, description string) (Config, error) {
	if strings.TrimSpace(brandName) == "" {
		return Config{}, ErrNoBrandName
	}

	if industry == "" {
		industry = "Business"
	}
	if companyName == "" {
		companyName = brandName
	}
	if description == "" {
		description = fmt.Sprintf("%s is a company that users want to protect from domain impersonation and cybersquatting.", companyName)
	}

	return Config{
		Name:        strings.ToUpper(companyName),
		Industry:    industry,
		Description: description,
		ContextNotes: []string{
			fmt.Sprintf("Focus on domains that could confuse customers of %s", companyName),
			fmt.Sprintf("Consider domains that impersonate %s services", brandName),
			fmt.Sprintf("Filter out domains where %q appears coincidentally", strings.ToLower(brandName)),
			"Evaluate based on business context and customer confusion potential",
		},
	}, nil
}
