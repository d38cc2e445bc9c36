package model

// Corroboration is the outcome of searching a news index for coverage
// of the same story. A nil *Corroboration means the check could not run
// (no access configured, or the service failed); that is different from
// a successful search that found nothing.
type Corroboration struct {
	Found               int                   `json:"found"`                // Articles returned by the search
	Sources             []CorroborationSource `json:"sources,omitempty"`    // Best matches, at most 5
	UniqueSourceCount   int                   `json:"uniqueSourceCount"`    // Distinct outlet names among sampled articles
	IndependentPhrasing bool                  `json:"independentPhrasing"`  // Coverage reads independently written
	Query               string                `json:"query"`                // Search query derived from the body
	Summary             string                `json:"summary"`              // One of three fixed templates
}

// CorroborationSource is one matched article.
type CorroborationSource struct {
	Title      string `json:"title"`
	Source     string `json:"source"`
	URL        string `json:"url,omitempty"`
	Similarity int    `json:"similarity"` // Phrase overlap with the analyzed body, 0-100
}
