// Package llm turns a finished report into an optional reader-facing
// briefing. The briefing is generated after aggregation, is rendered
// separately, and never feeds back into the signals. Citations are
// grounded: the model may only cite URLs from the report itself, and a
// response citing anything else is rejected.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

// Provider is one LLM backend.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Summarize generates a briefing for the report under the
	// grounding rules in the request.
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks whether the provider is configured and
	// reachable.
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest is the input for briefing generation.
type SummarizeRequest struct {
	// Report is the finished signal report to brief.
	Report *model.Report

	// AllowedURLs is the strict allowlist of URLs the model may cite:
	// the analyzed URL plus any corroborating coverage the temporal
	// analyzer found. Anything else is a citation leak.
	AllowedURLs []string

	// Prompt overrides the default prompt when non-empty.
	Prompt string

	// Model is the provider-specific model name.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// SummarizeResponse is the provider's output.
type SummarizeResponse struct {
	Summary    string
	CitedURLs  []string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", or "" (disabled).
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for hosted providers.
	APIKey string

	// BaseURL for custom endpoints (required shape for Ollama).
	BaseURL string

	// Timeout for API requests.
	Timeout time.Duration

	// Grounded enforces the citation allowlist. Leave on.
	Grounded bool

	// MaxTokens for response generation.
	MaxTokens int
}

// DefaultConfig returns the briefing defaults: disabled, grounded.
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Model:     "",
		Timeout:   60 * time.Second,
		Grounded:  true,
		MaxTokens: 1000,
	}
}

// AllowedURLs collects the citation allowlist from a report: the
// analyzed URL plus the corroborating articles recorded by the
// temporal analyzer.
func AllowedURLs(report *model.Report) []string {
	var urls []string
	if report.URL != "" {
		urls = append(urls, report.URL)
	}
	if details := report.Signals.Temporal.Details; details != nil {
		if sources, ok := details["corroborationSources"].([]model.CorroborationSource); ok {
			for _, s := range sources {
				if s.URL != "" {
					urls = append(urls, s.URL)
				}
			}
		}
	}
	return urls
}

// BuildPrompt constructs the default grounded briefing prompt.
func BuildPrompt(report *model.Report, allowedURLs []string) string {
	prompt := fmt.Sprintf(`You are writing a short reader briefing for a credibility signal report. The signals grade stylistic and structural risk patterns - they NEVER establish truth or falsehood.

CRITICAL RULES:
1. You MUST ONLY cite URLs from this allowed list:
%s

2. DO NOT infer, speculate, or cite external sources beyond this list.
3. Never say the content is true or false. Describe risk patterns only, with phrases like:
   - "The sourcing signal found..."
   - "The text shows urgency framing..."
   - "No independent coverage was found..."
4. If a signal relied on heuristics alone, do not present it as a model verdict.

Report:
- Subject: %s
- Source: %s
- Confidence band: %s

Signals:
`, joinURLs(allowedURLs), report.Subject, report.Source, report.Aggregation.ConfidenceBand)

	for _, s := range report.Signals.All() {
		prompt += fmt.Sprintf("- %s: %s (%d/100). %s\n", model.DisplayName(s.Name), s.Result.Level, s.Result.Score, s.Result.Explanation)
	}

	prompt += fmt.Sprintf("\nBlended reading: %s\n", report.Aggregation.Summary)
	prompt += "\nWrite a 3-4 sentence briefing describing the risk patterns, not truth."

	return prompt
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(No citable URLs available - cite nothing)"
	}
	result := ""
	for i, url := range urls {
		if i >= 20 { // Cap the list to keep the prompt small
			result += fmt.Sprintf("\n... and %d more URLs", len(urls)-20)
			break
		}
		result += fmt.Sprintf("\n- %s", url)
	}
	return result
}
