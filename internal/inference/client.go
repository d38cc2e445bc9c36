package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/util"
)

// warmupSleepFunc is the sleep used before the single warm-up retry
// (injectable for tests).
var warmupSleepFunc = time.Sleep

// maxResponseBytes caps how much of a classifier response is read.
const maxResponseBytes = 1 << 20

// minEntityScore drops low-confidence entity spans before counting.
const minEntityScore = 0.7

// Task selects which hosted classifier a request goes to.
type Task string

const (
	TaskSentiment Task = "sentiment"
	TaskSynthetic Task = "synthetic"
	TaskEntities  Task = "ner"
)

// Client calls a hosted transformer-inference API (POST /models/{id}
// with {"inputs": text}). Every method degrades to nil instead of
// returning an error: a nil result means the classifier was
// unavailable and the caller should continue heuristic-only. Inputs
// are truncated to a fixed word budget before sending.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	models     map[Task]string
	maxWords   int
	backoff    time.Duration
}

// Sentiment is the normalized output of the sentiment classifier.
type Sentiment struct {
	Label  string             `json:"label"` // negative, neutral, positive
	Score  float64            `json:"score"` // Probability of the winning label
	Scores map[string]float64 `json:"scores"`
}

// Negative returns the negative-class probability (0 when absent).
func (s *Sentiment) Negative() float64 {
	return s.Scores["negative"]
}

// Entities is the normalized output of the NER model: unique entity
// counts by surface text (case-sensitive), per group.
type Entities struct {
	People   int             `json:"people"`
	Orgs     int             `json:"orgs"`
	Mentions []EntityMention `json:"mentions,omitempty"`
}

// EntityMention is one recognized span.
type EntityMention struct {
	Text  string  `json:"text"`
	Group string  `json:"group"` // PER, ORG, LOC, MISC
	Score float64 `json:"score"`
}

// Inference API wire structures
type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type nerSpan struct {
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
}

// NewClient creates an inference client from configuration. A client
// with no API key is valid; it answers nil without making requests.
func NewClient(cfg model.InferenceConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 25 * time.Second
	}
	backoff := cfg.WarmupBackoff
	if backoff == 0 {
		backoff = 10 * time.Second
	}
	maxWords := cfg.MaxWords
	if maxWords == 0 {
		maxWords = 400
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc("", ""),
			},
		},
		models: map[Task]string{
			TaskSentiment: cfg.SentimentModel,
			TaskSynthetic: cfg.SyntheticModel,
			TaskEntities:  cfg.NERModel,
		},
		maxWords: maxWords,
		backoff:  backoff,
	}
}

// Available reports whether remote classification is configured.
func (c *Client) Available() bool {
	return c != nil && c.apiKey != "" && c.baseURL != ""
}

// Sentiment classifies the overall tone of text. Model label schemes
// vary; LABEL_0/1/2 are normalized to negative/neutral/positive.
func (c *Client) Sentiment(ctx context.Context, text string) *Sentiment {
	raw := c.classify(ctx, TaskSentiment, text)
	if raw == nil {
		return nil
	}
	classes := parseLabelScores(raw)
	if len(classes) == 0 {
		return nil
	}
	out := &Sentiment{Scores: make(map[string]float64, len(classes))}
	for _, cl := range classes {
		label := normalizeSentimentLabel(cl.Label)
		out.Scores[label] = cl.Score
		if cl.Score > out.Score {
			out.Label = label
			out.Score = cl.Score
		}
	}
	return out
}

// SyntheticProbability returns the probability that text is
// machine-generated: the score of the generated class, or one minus
// the human class when only that is reported. Nil when the response
// labels are not recognized.
func (c *Client) SyntheticProbability(ctx context.Context, text string) *float64 {
	raw := c.classify(ctx, TaskSynthetic, text)
	if raw == nil {
		return nil
	}
	classes := parseLabelScores(raw)
	if len(classes) == 0 {
		return nil
	}
	for _, cl := range classes {
		switch strings.ToLower(cl.Label) {
		case "fake", "label_1", "machine-generated", "generated":
			p := cl.Score
			return &p
		}
	}
	for _, cl := range classes {
		switch strings.ToLower(cl.Label) {
		case "real", "label_0", "human", "human-written":
			p := 1 - cl.Score
			return &p
		}
	}
	return nil
}

// Entities runs named-entity recognition and counts unique people and
// organizations. Surface text is compared case-sensitively, so "Smith"
// and "SMITH" count as two mentions of two entities.
func (c *Client) Entities(ctx context.Context, text string) *Entities {
	raw := c.classify(ctx, TaskEntities, text)
	if raw == nil {
		return nil
	}
	var spans []nerSpan
	if err := json.Unmarshal(raw, &spans); err != nil {
		return nil
	}
	out := &Entities{}
	seen := make(map[string]struct{})
	for _, sp := range spans {
		if sp.Score < minEntityScore {
			continue
		}
		out.Mentions = append(out.Mentions, EntityMention{
			Text:  sp.Word,
			Group: sp.EntityGroup,
			Score: sp.Score,
		})
		key := sp.EntityGroup + ":" + sp.Word
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		switch sp.EntityGroup {
		case "PER":
			out.People++
		case "ORG":
			out.Orgs++
		}
	}
	return out
}

// classify posts text to the model behind task and returns the raw
// response body. A 503 means the hosted model is still warming up;
// the request is retried exactly once after a fixed backoff. Any
// other failure returns nil.
func (c *Client) classify(ctx context.Context, task Task, text string) []byte {
	if !c.Available() {
		return nil
	}
	modelID := c.models[task]
	if modelID == "" {
		return nil
	}
	payload, err := json.Marshal(inferenceRequest{Inputs: truncateWords(text, c.maxWords)})
	if err != nil {
		return nil
	}

	body, status := c.post(ctx, modelID, payload)
	if status == http.StatusServiceUnavailable {
		warmupSleepFunc(c.backoff)
		body, status = c.post(ctx, modelID, payload)
	}
	if status != http.StatusOK {
		return nil
	}
	return body
}

// post sends one request. Status 0 signals a transport-level failure.
func (c *Client) post(ctx context.Context, modelID string, payload []byte) ([]byte, int) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/"+modelID, bytes.NewReader(payload))
	if err != nil {
		return nil, 0
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, 0
	}
	return body, resp.StatusCode
}

// parseLabelScores accepts both response nestings the hosted API uses:
// [[{label,score},...]] for single-input requests and [{label,score}]
// from some models.
func parseLabelScores(raw []byte) []labelScore {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil
		}
		return nested[0]
	}
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat
	}
	return nil
}

func normalizeSentimentLabel(label string) string {
	switch strings.ToUpper(label) {
	case "LABEL_0":
		return "negative"
	case "LABEL_1":
		return "neutral"
	case "LABEL_2":
		return "positive"
	}
	return strings.ToLower(label)
}

// truncateWords keeps the first n whitespace-separated words.
func truncateWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) <= n {
		return text
	}
	return strings.Join(fields[:n], " ")
}
