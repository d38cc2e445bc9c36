package model

import "time"

// Report is the complete output of one analysis run: the five signals
// plus their aggregation. This is the stable contract any downstream
// presentation layer consumes; field names must not change.
type Report struct {
	Subject    string    `json:"subject"`             // Title, or a stand-in for untitled content
	Source     string    `json:"source"`              // Domain or ManualSource
	URL        string    `json:"url,omitempty"`       // Original URL when fetched
	AnalyzedAt time.Time `json:"analyzedAt"`          // When the analysis ran

	Signals     SignalSet   `json:"signals"`
	Aggregation Aggregation `json:"aggregation"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional narrative briefing (separate, never affects signals)
}

// LLMSummary contains an optional LLM-generated briefing.
// CRITICAL: this never affects the signals or the aggregation and is
// clearly separated in the output.
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`  // openai, anthropic, ollama
	Model     string   `json:"model,omitempty"`     // Model name
	Grounded  bool     `json:"grounded"`            // Whether citation enforcement was enabled
	SummaryMD string   `json:"summaryMd,omitempty"` // Markdown briefing
	Warnings  []string `json:"warnings,omitempty"`  // Issues such as rejected citations
}

// SubjectFor picks the reader-facing subject line for a report.
func SubjectFor(c *Content) string {
	if t := c.Title; t != "" {
		return t
	}
	if c.Source != "" && c.Source != ManualSource {
		return c.Source
	}
	return "pasted text"
}
