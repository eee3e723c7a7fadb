package triage

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeProvider implements Provider using Anthropic's Claude
type ClaudeProvider struct {
	client *anthropic.Client
	model  string
}

// NewClaudeProvider reads FLIGHTCHECK_ANTHROPIC_KEY or ANTHROPIC_API_KEY
func NewClaudeProvider(model string) (*ClaudeProvider, error) {
	key := apiKey("FLIGHTCHECK_ANTHROPIC_KEY", "ANTHROPIC_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("FLIGHTCHECK_ANTHROPIC_KEY or ANTHROPIC_API_KEY environment variable required")
	}
	client := anthropic.NewClient(option.WithAPIKey(key))
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}
	return &ClaudeProvider{client: &client, model: model}, nil
}

// Diagnose sends the incident and parses the JSON verdict
func (p *ClaudeProvider) Diagnose(ctx context.Context, in Incident) (*Diagnosis, error) {
	prompt, err := buildUserPrompt(in)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Claude API error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("empty response from Claude")
	}

	d, err := parseDiagnosis(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Claude response: %w\nResponse: %s", err, text)
	}
	return d, nil
}
