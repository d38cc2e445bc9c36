package corroborate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

func newTestCorroborator(baseURL string) *Client {
	return NewClient(model.CorroborationConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
}

func articlesResponse(articles ...searchArticle) []byte {
	body, _ := json.Marshal(searchResponse{
		Status:       "ok",
		TotalResults: len(articles),
		Articles:     articles,
	})
	return body
}

func namedArticle(source, title, description string) searchArticle {
	var a searchArticle
	a.Source.Name = source
	a.Title = title
	a.Description = description
	a.URL = "https://" + strings.ToLower(source) + ".example/story"
	return a
}

func TestBuildQueryRanksByFrequency(t *testing.T) {
	body := "Economy economy economy inflation inflation housing market growth banking sector employment figures"
	query := BuildQuery(body)

	terms := strings.Fields(query)
	if len(terms) == 0 {
		t.Fatal("expected a non-empty query")
	}
	if terms[0] != "economy" {
		t.Errorf("most frequent term should lead the query, got %q", query)
	}
	if terms[1] != "inflation" {
		t.Errorf("second term should be inflation, got %q", query)
	}
}

func TestBuildQueryDropsShortAndStopWords(t *testing.T) {
	query := BuildQuery("the and for but with this that from would should there")
	if query != "" {
		t.Errorf("stop words and short words should produce an empty query, got %q", query)
	}
}

func TestBuildQueryCapsTerms(t *testing.T) {
	body := "alpha1w bravo2w charlie delta3w echo4w foxtrot golf5w hotel6w india7w juliet kilo8w lima9w"
	query := BuildQuery(body)
	if got := len(strings.Fields(query)); got > queryTerms {
		t.Errorf("query should carry at most %d terms, got %d: %q", queryTerms, got, query)
	}
}

func TestCheckWithoutKeyMakesNoRequest(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	client := NewClient(model.CorroborationConfig{BaseURL: server.URL})
	result := client.Check(context.Background(), &model.Content{Body: "plenty of searchable qualifying newsworthy content here"})
	if result != nil {
		t.Errorf("expected nil without an API key, got %+v", result)
	}
	if atomic.LoadInt32(&requests) != 0 {
		t.Errorf("expected no requests, got %d", requests)
	}
}

func TestCheckSkipsUnsearchableBody(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	client := newTestCorroborator(server.URL)
	result := client.Check(context.Background(), &model.Content{Body: "a b c the and"})
	if result != nil {
		t.Errorf("expected nil for an unsearchable body, got %+v", result)
	}
	if atomic.LoadInt32(&requests) != 0 {
		t.Errorf("expected no requests for an unsearchable body, got %d", requests)
	}
}

func TestCheckSendsExpectedQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("X-Api-Key")
		w.Write(articlesResponse())
	}))
	defer server.Close()

	client := newTestCorroborator(server.URL)
	client.Check(context.Background(), &model.Content{Body: "substantial searchable economic policy announcement coverage"})

	if gotKey != "test-key" {
		t.Errorf("expected X-Api-Key header, got %q", gotKey)
	}
	if got := gotQuery["sortBy"]; len(got) != 1 || got[0] != "relevancy" {
		t.Errorf("expected sortBy=relevancy, got %v", got)
	}
	if got := gotQuery["pageSize"]; len(got) != 1 || got[0] != "10" {
		t.Errorf("expected pageSize=10, got %v", got)
	}
	if got := gotQuery["language"]; len(got) != 1 || got[0] != "en" {
		t.Errorf("expected language=en, got %v", got)
	}
	if got := gotQuery["q"]; len(got) != 1 || got[0] == "" {
		t.Errorf("expected a non-empty q parameter, got %v", got)
	}
}

func TestCheckTransportFailureIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestCorroborator(server.URL)
	result := client.Check(context.Background(), &model.Content{Body: "substantial searchable economic policy announcement coverage"})
	if result != nil {
		t.Errorf("a failed search must be nil, got %+v", result)
	}
}

func TestCheckZeroMatchesIsARealResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(articlesResponse())
	}))
	defer server.Close()

	client := newTestCorroborator(server.URL)
	result := client.Check(context.Background(), &model.Content{Body: "substantial searchable economic policy announcement coverage"})
	if result == nil {
		t.Fatal("zero matches is a real result, not a failure")
	}
	if result.Found != 0 {
		t.Errorf("expected Found=0, got %d", result.Found)
	}
	if result.Summary != summaryNoMatch {
		t.Errorf("expected the no-match summary, got %q", result.Summary)
	}
	if result.IndependentPhrasing {
		t.Error("zero matches cannot be independently corroborated")
	}
}

func TestCheckIndependentCoverage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(articlesResponse(
			namedArticle("Reuters", "Rate decision expected", "Officials weigh next steps"),
			namedArticle("Bloomberg", "Markets await guidance", "Investors watch closely"),
			namedArticle("Guardian", "What the decision means", "Households brace for change"),
			namedArticle("Tribune", "Regional impact unclear", "Analysts remain divided"),
		))
	}))
	defer server.Close()

	client := newTestCorroborator(server.URL)
	result := client.Check(context.Background(), &model.Content{
		Body: "The central bank announced interest rate cuts following months of economic pressure from manufacturing slowdowns.",
	})
	if result == nil {
		t.Fatal("expected a result")
	}
	if !result.IndependentPhrasing {
		t.Errorf("four distinct sources with unrelated phrasing should be independent: %+v", result)
	}
	if result.UniqueSourceCount != 4 {
		t.Errorf("expected 4 unique sources, got %d", result.UniqueSourceCount)
	}
	if !strings.Contains(result.Summary, "independent") {
		t.Errorf("expected the independent summary, got %q", result.Summary)
	}
}

func TestCheckOverlappingCoverage(t *testing.T) {
	copied := "central bank announced interest rate cuts following months economic pressure manufacturing slowdowns"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(articlesResponse(
			namedArticle("OutletA", copied, copied),
			namedArticle("OutletB", copied, copied),
			namedArticle("OutletC", copied, copied),
		))
	}))
	defer server.Close()

	client := newTestCorroborator(server.URL)
	result := client.Check(context.Background(), &model.Content{
		Body: "The central bank announced interest rate cuts following months of economic pressure from manufacturing slowdowns.",
	})
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.IndependentPhrasing {
		t.Errorf("three near-copies should not count as independent: %+v", result)
	}
	if !strings.Contains(result.Summary, "overlap") {
		t.Errorf("expected the overlapping summary, got %q", result.Summary)
	}
}

func TestCheckTooFewSources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(articlesResponse(
			namedArticle("OutletA", "Unrelated gardening tips", "Tulips and springtime flowerbeds"),
			namedArticle("OutletB", "Completely different topic", "Cooking seasonal vegetables nicely"),
		))
	}))
	defer server.Close()

	client := newTestCorroborator(server.URL)
	result := client.Check(context.Background(), &model.Content{
		Body: "The central bank announced interest rate cuts following months of economic pressure from manufacturing slowdowns.",
	})
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.IndependentPhrasing {
		t.Error("two sources cannot establish independent corroboration")
	}
}

func TestCheckBoundsSurfacedSources(t *testing.T) {
	var many []searchArticle
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"} {
		many = append(many, namedArticle("Outlet"+name, "Story from "+name, "Coverage text "+name))
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(articlesResponse(many...))
	}))
	defer server.Close()

	client := newTestCorroborator(server.URL)
	result := client.Check(context.Background(), &model.Content{
		Body: "The central bank announced interest rate cuts following months of economic pressure from manufacturing slowdowns.",
	})
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.Found != 10 {
		t.Errorf("expected Found=10, got %d", result.Found)
	}
	if len(result.Sources) > surfacedLimit {
		t.Errorf("expected at most %d surfaced sources, got %d", surfacedLimit, len(result.Sources))
	}
	// Only the first sampleLimit articles are compared.
	if result.UniqueSourceCount != sampleLimit {
		t.Errorf("expected %d sampled sources, got %d", sampleLimit, result.UniqueSourceCount)
	}
	for i := 1; i < len(result.Sources); i++ {
		if result.Sources[i].Similarity > result.Sources[i-1].Similarity {
			t.Errorf("sources should be ordered by similarity: %+v", result.Sources)
		}
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "alpha bravo charlie", "alpha bravo charlie", 1.0},
		{"disjoint", "alpha bravo charlie", "delta echo foxtrot", 0.0},
		{"half", "alpha bravo", "bravo charlie delta", 0.25},
		{"empty", "", "", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jaccard(overlapWords(tt.a), overlapWords(tt.b))
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("jaccard(%q,%q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
