package corroborate

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/ppiankov/credence/internal/model"
)

const (
	pageSize         = 10  // Articles requested from the index
	sampleLimit      = 8   // Articles compared for phrase overlap
	surfacedLimit    = 5   // Sources included in the result
	queryWindow      = 40  // Qualifying tokens considered for the query
	queryTerms       = 8   // Top-frequency terms joined into the query
	minQueryChars    = 10  // Shorter queries are too generic to search
	minQueryWordLen  = 5   // Query tokens must be at least this long
	minOverlapLen    = 4   // Words under this length are ignored in similarity
	bodyPrefix       = 800 // Body chars compared against each article
	overlapThreshold = 0.35
	minIndependent   = 3 // Distinct sources needed for independence
)

// stopwords are dropped during query construction. Common function
// words rank high on frequency but carry no search value.
var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "against": {}, "because": {},
	"been": {}, "before": {}, "being": {}, "between": {}, "could": {},
	"doing": {}, "during": {}, "every": {}, "first": {}, "found": {},
	"here": {}, "however": {}, "might": {}, "other": {}, "people": {},
	"said": {}, "should": {}, "since": {}, "still": {}, "their": {},
	"there": {}, "these": {}, "they": {}, "thing": {}, "things": {},
	"think": {}, "those": {}, "through": {}, "under": {}, "until": {},
	"using": {}, "very": {}, "watch": {}, "where": {}, "which": {},
	"while": {}, "without": {}, "world": {}, "would": {}, "years": {},
}

// Summary templates. Exactly one of these appears in every result.
const (
	summaryIndependent = "Found %d related articles from %d distinct sources with independent phrasing; the story appears independently corroborated."
	summaryOverlapping = "Found %d related articles, but coverage overlaps heavily in phrasing and may trace back to a single origin."
	summaryNoMatch     = "No related coverage found in the news index."
)

// Client searches a news index for coverage of the same story and
// measures whether that coverage reads independently written. A nil
// result from Check means the search could not run at all, which is
// different from a search that ran and found nothing.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// News index wire structures
type searchResponse struct {
	Status       string          `json:"status"`
	TotalResults int             `json:"totalResults"`
	Articles     []searchArticle `json:"articles"`
}

type searchArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// NewClient creates a corroboration client from configuration. A
// client with no API key is valid; Check answers nil without making
// requests.
func NewClient(cfg model.CorroborationConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Available reports whether the news index is configured.
func (c *Client) Available() bool {
	return c != nil && c.apiKey != "" && c.baseURL != ""
}

// Check searches for coverage matching the content body. One request,
// no retries: corroboration is an enrichment, and the temporal
// analyzer treats nil as "could not check" rather than "not covered".
func (c *Client) Check(ctx context.Context, content *model.Content) *model.Corroboration {
	if !c.Available() {
		return nil
	}
	query := BuildQuery(content.Body)
	if len(query) < minQueryChars {
		return nil
	}

	articles, ok := c.search(ctx, query)
	if !ok {
		return nil
	}
	if len(articles) == 0 {
		return &model.Corroboration{
			Found:   0,
			Query:   query,
			Summary: summaryNoMatch,
		}
	}

	sample := articles
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
	}

	bodyWords := overlapWords(firstChars(content.Body, bodyPrefix))
	uniqueSources := make(map[string]struct{})
	overlapping := 0
	sources := make([]model.CorroborationSource, 0, len(sample))
	for _, a := range sample {
		sim := jaccard(bodyWords, overlapWords(a.Title+" "+a.Description))
		if sim > overlapThreshold {
			overlapping++
		}
		uniqueSources[sourceName(a)] = struct{}{}
		sources = append(sources, model.CorroborationSource{
			Title:      a.Title,
			Source:     sourceName(a),
			URL:        a.URL,
			Similarity: int(math.Round(sim * 100)),
		})
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Similarity > sources[j].Similarity
	})
	if len(sources) > surfacedLimit {
		sources = sources[:surfacedLimit]
	}

	independent := len(uniqueSources) >= minIndependent && overlapping < minIndependent

	result := &model.Corroboration{
		Found:               len(articles),
		Sources:             sources,
		UniqueSourceCount:   len(uniqueSources),
		IndependentPhrasing: independent,
		Query:               query,
	}
	if independent {
		result.Summary = fmt.Sprintf(summaryIndependent, result.Found, result.UniqueSourceCount)
	} else {
		result.Summary = fmt.Sprintf(summaryOverlapping, result.Found)
	}
	return result
}

// search runs one query against the index. ok=false covers transport
// failures, non-200 responses, and malformed bodies alike.
func (c *Client) search(ctx context.Context, query string) ([]searchArticle, bool) {
	endpoint := fmt.Sprintf("%s/v2/everything?q=%s&sortBy=relevancy&pageSize=%d&language=en",
		c.baseURL, url.QueryEscape(query), pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}
	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, false
	}
	if parsed.Status != "ok" {
		return nil, false
	}
	return parsed.Articles, true
}

// BuildQuery derives a search query from a body of text: the top
// frequency terms among the first qualifying tokens, in stable order.
// Too little qualifying text yields a query under the length floor,
// which callers treat as unsearchable.
func BuildQuery(body string) string {
	var qualifying []string
	for _, tok := range tokenize(body) {
		if len(tok) < minQueryWordLen {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		qualifying = append(qualifying, tok)
		if len(qualifying) == queryWindow {
			break
		}
	}

	counts := make(map[string]int)
	uniq := make([]string, 0, len(qualifying))
	for _, tok := range qualifying {
		if counts[tok] == 0 {
			uniq = append(uniq, tok)
		}
		counts[tok]++
	}
	// Stable sort keeps first-appearance order among equal counts.
	sort.SliceStable(uniq, func(i, j int) bool {
		return counts[uniq[i]] > counts[uniq[j]]
	})
	if len(uniq) > queryTerms {
		uniq = uniq[:queryTerms]
	}
	return strings.Join(uniq, " ")
}

func sourceName(a searchArticle) string {
	if a.Source.Name != "" {
		return a.Source.Name
	}
	if u, err := url.Parse(a.URL); err == nil && u.Host != "" {
		return u.Host
	}
	return "unknown"
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// overlapWords builds the comparison set for similarity: lowercase
// words long enough to be meaningful.
func overlapWords(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenize(s) {
		if len(tok) >= minOverlapLen {
			set[tok] = struct{}{}
		}
	}
	return set
}

// jaccard measures set overlap: intersection over union.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func firstChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
