// Package triage asks an LLM to explain a failed step from the error and a
// snapshot of the page it failed on.
package triage

import (
	"context"
	"fmt"
	"os"

	"github.com/v0xg/flightcheck/internal/pagemap"
)

// Incident is what is known about a failed step
type Incident struct {
	Scenario string
	Step     string
	Error    string
	Locator  string // selector the step was waiting on, when known
	URL      string
	PageMap  *pagemap.PageMap
}

// Diagnosis is the provider's reading of an incident
type Diagnosis struct {
	Summary          string  `json:"summary"`
	Category         string  `json:"category"` // locator, timing, state, site, unknown
	SuggestedLocator string  `json:"suggested_locator,omitempty"`
	Confidence       float64 `json:"confidence"`
}

// Provider diagnoses failures
type Provider interface {
	Diagnose(ctx context.Context, in Incident) (*Diagnosis, error)
}

// NewProvider creates a provider by name
func NewProvider(name, model string) (Provider, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model)
	case "openai", "gpt":
		return NewOpenAIProvider(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai)", name)
	}
}

// apiKey returns the first non-empty variable
func apiKey(vars ...string) string {
	for _, v := range vars {
		if key := os.Getenv(v); key != "" {
			return key
		}
	}
	return ""
}
