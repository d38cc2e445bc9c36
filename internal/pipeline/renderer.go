package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

const reportFooter = "Generated by credence. Signals grade stylistic risk patterns, not truth."

// Renderer formats reports as JSON, Markdown or terminal text.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// JSON emits the report wire contract, indented.
func (r *Renderer) JSON(report *model.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// Markdown renders the full report as a Markdown document.
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Credibility Report: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- **Source**: %s\n", report.Source)
	if report.URL != "" {
		fmt.Fprintf(&b, "- **URL**: %s\n", report.URL)
	}
	fmt.Fprintf(&b, "- **Analyzed**: %s\n", report.AnalyzedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Confidence band**: **%s**\n\n", report.Aggregation.ConfidenceBand)

	b.WriteString("## Signals\n\n")
	b.WriteString("| Signal | Level | Score | Model |\n")
	b.WriteString("|--------|-------|-------|-------|\n")
	for _, s := range report.Signals.All() {
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
			model.DisplayName(s.Name), s.Result.Level, s.Result.Score, yesNo(s.Result.ModelUsed))
	}
	b.WriteString("\n### Explanations\n\n")
	for _, s := range report.Signals.All() {
		fmt.Fprintf(&b, "- **%s**: %s\n", model.DisplayName(s.Name), s.Result.Explanation)
	}

	fmt.Fprintf(&b, "\n## Summary\n\n%s\n", report.Aggregation.Summary)

	if len(report.Aggregation.Disagreements) > 0 {
		b.WriteString("\n## Disagreements\n\n")
		for _, d := range report.Aggregation.Disagreements {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}

	if len(report.Aggregation.Suggestions) > 0 {
		b.WriteString("\n## Suggestions\n\n")
		for _, s := range report.Aggregation.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	fmt.Fprintf(&b, "\n## Uncertainty\n\n%s\n", report.Aggregation.Uncertainty)

	if r.includeFooter {
		fmt.Fprintf(&b, "\n---\n\n_%s_\n", reportFooter)
	}

	return b.String()
}

// Text renders the compact terminal summary.
func (r *Renderer) Text(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", report.Subject)
	fmt.Fprintf(&b, "Source:  %s\n", report.Source)
	if report.URL != "" {
		fmt.Fprintf(&b, "URL:     %s\n", report.URL)
	}
	fmt.Fprintf(&b, "Band:    %s\n\n", strings.ToUpper(string(report.Aggregation.ConfidenceBand)))

	for _, s := range report.Signals.All() {
		fmt.Fprintf(&b, "  %-21s %-6s %3d/100\n", model.DisplayName(s.Name), s.Result.Level, s.Result.Score)
		fmt.Fprintf(&b, "      %s\n", s.Result.Explanation)
	}

	fmt.Fprintf(&b, "\n%s\n", report.Aggregation.Summary)

	for _, d := range report.Aggregation.Disagreements {
		fmt.Fprintf(&b, "\nMixed readings: %s\n", d)
	}

	if len(report.Aggregation.Suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, s := range report.Aggregation.Suggestions {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}

	fmt.Fprintf(&b, "\nNote: %s\n", report.Aggregation.Uncertainty)

	if r.includeFooter {
		fmt.Fprintf(&b, "\n%s\n", reportFooter)
	}

	return b.String()
}

// Render formats the report in the named format: json, markdown or text.
func (r *Renderer) Render(report *model.Report, format string) (string, error) {
	switch format {
	case "json":
		data, err := r.JSON(report)
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case "markdown", "md":
		return r.Markdown(report), nil
	case "", "text":
		return r.Text(report), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

// RenderJSON writes the JSON report to a file.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := r.JSON(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the Markdown report to a file.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// RenderLLMMarkdown writes the already-rendered LLM briefing to a file.
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	return writeFile(path, []byte(markdown))
}

// RenderSummary prints the terminal summary to stdout.
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Print(r.Text(report))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
