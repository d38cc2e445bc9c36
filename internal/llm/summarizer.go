package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/credence/internal/model"
)

// Summarizer drives briefing generation for the pipeline. Every
// failure mode degrades to warnings on the LLMSummary; the report is
// complete without it.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer from configuration. With no
// provider configured the summarizer exists but stays disabled.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, or "" when
// disabled.
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary produces the briefing for a finished report. It
// never returns an error for provider failures; those become warnings
// so one flaky backend cannot fail an analysis.
func (s *Summarizer) GenerateSummary(ctx context.Context, report *model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &model.LLMSummary{
			Enabled:  false,
			Provider: s.provider.Name(),
			Grounded: s.config.Grounded,
			Warnings: []string{
				fmt.Sprintf("LLM provider %s is not available (check API key or endpoint)", s.provider.Name()),
			},
		}, nil
	}

	allowed := AllowedURLs(report)
	req := SummarizeRequest{
		Report:      report,
		AllowedURLs: allowed,
		Model:       s.config.Model,
		MaxTokens:   s.config.MaxTokens,
	}

	resp, err := s.provider.Summarize(ctx, req)
	if err != nil {
		return &model.LLMSummary{
			Enabled:  true,
			Provider: s.provider.Name(),
			Model:    s.config.Model,
			Grounded: s.config.Grounded,
			Warnings: []string{
				fmt.Sprintf("Briefing generation failed: %v", err),
			},
		}, nil
	}

	summary := &model.LLMSummary{
		Enabled:   true,
		Provider:  s.provider.Name(),
		Model:     resp.Model,
		Grounded:  s.config.Grounded,
		SummaryMD: resp.Summary,
	}

	if s.config.Grounded {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("Verified %d citations against the report allowlist", len(resp.CitedURLs)))
	}
	if resp.TokensUsed > 0 {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	}

	return summary, nil
}

// RenderSeparateMarkdown renders the briefing as its own document with
// a prominent provenance banner. Returns "" when there is nothing to
// render.
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	md := "# LLM Briefing\n\n"
	md += "> **GENERATED CONTENT.** This briefing was written by a language model.\n"
	md += "> The credibility signals and confidence band were determined independently\n"
	md += "> of this text and do not depend on it.\n\n"

	md += fmt.Sprintf("- **Provider**: %s\n", summary.Provider)
	if summary.Model != "" {
		md += fmt.Sprintf("- **Model**: %s\n", summary.Model)
	}
	md += fmt.Sprintf("- **Grounded citations**: %t\n\n", summary.Grounded)

	if summary.SummaryMD == "" {
		md += "_No briefing generated._\n"
	} else {
		md += summary.SummaryMD + "\n"
	}

	if len(summary.Warnings) > 0 {
		md += "\n## Notes\n\n"
		for _, w := range summary.Warnings {
			md += fmt.Sprintf("- %s\n", w)
		}
	}

	return md
}
