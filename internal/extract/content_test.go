package extract

import (
	"strings"
	"testing"

	"github.com/ppiankov/credence/internal/model"
)

func TestExtractFullArticle(t *testing.T) {
	htmlContent := `<!DOCTYPE html>
<html>
<head>
	<title>Fallback Title</title>
	<meta property="og:title" content="City Approves Water Budget">
	<meta name="description" content="The council voted nine to two.">
	<meta name="author" content="Dana Writer">
	<meta property="article:published_time" content="2024-11-03T10:00:00Z">
</head>
<body>
	<article>
		<p>The city council approved the water budget on Tuesday.</p>
		<p>Members debated the projected costs for several hours.</p>
	</article>
</body>
</html>`

	extractor := NewExtractor()
	content, err := extractor.Extract(htmlContent, "https://www.example.com/news/budget")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if content.Title != "City Approves Water Budget" {
		t.Errorf("Expected og:title to win, got %q", content.Title)
	}
	if content.Meta != "The council voted nine to two." {
		t.Errorf("Unexpected meta description: %q", content.Meta)
	}
	if content.Author != "Dana Writer" {
		t.Errorf("Unexpected author: %q", content.Author)
	}
	if content.Date != "2024-11-03T10:00:00Z" {
		t.Errorf("Unexpected date: %q", content.Date)
	}
	if !strings.Contains(content.Body, "approved the water budget") ||
		!strings.Contains(content.Body, "debated the projected costs") {
		t.Errorf("Body should join both paragraphs, got %q", content.Body)
	}
	if content.Source != "example.com" {
		t.Errorf("Expected www-stripped host, got %q", content.Source)
	}
	if content.Platform != model.PlatformGeneric {
		t.Errorf("Expected generic platform, got %q", content.Platform)
	}
}

func TestExtractFallsBackToTitleTag(t *testing.T) {
	htmlContent := `<html><head><title>Plain Title</title></head>
<body><p>Some article text long enough to matter.</p></body></html>`

	content, err := NewExtractor().Extract(htmlContent, "https://example.org/a")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if content.Title != "Plain Title" {
		t.Errorf("Expected title tag fallback, got %q", content.Title)
	}
}

func TestExtractSkipsPageChrome(t *testing.T) {
	htmlContent := `<html><body>
<nav><p>Home | About | Contact</p></nav>
<script>var x = "tracking code";</script>
<p>Only this paragraph is the story.</p>
<footer><p>Copyright notice</p></footer>
</body></html>`

	content, err := NewExtractor().Extract(htmlContent, "https://example.org/a")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if content.Body != "Only this paragraph is the story." {
		t.Errorf("Navigation and footer text must not leak into the body, got %q", content.Body)
	}
}

func TestExtractFallsBackWithoutParagraphs(t *testing.T) {
	htmlContent := `<html><body><div>Text that lives
outside    any paragraph element.</div></body></html>`

	content, err := NewExtractor().Extract(htmlContent, "https://example.org/a")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if content.Body != "Text that lives outside any paragraph element." {
		t.Errorf("Expected whitespace-normalized body fallback, got %q", content.Body)
	}
}

func TestExtractEmptyDocumentFails(t *testing.T) {
	_, err := NewExtractor().Extract("<html><body></body></html>", "https://example.org/a")
	if err == nil {
		t.Fatal("Expected an error for a document with no text")
	}
}

func TestExtractVisibleByline(t *testing.T) {
	htmlContent := `<html><body>
<div class="article-byline">By Jane Doe</div>
<p>Story text goes here for the byline test.</p>
</body></html>`

	content, err := NewExtractor().Extract(htmlContent, "https://example.org/a")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if content.Author != "Jane Doe" {
		t.Errorf("Expected byline By-prefix stripped, got %q", content.Author)
	}
}

func TestExtractPlatformDetection(t *testing.T) {
	htmlContent := `<html><body><p>A short post about the event.</p></body></html>`

	cases := []struct {
		url  string
		want model.Platform
	}{
		{"https://twitter.com/user/status/1", model.PlatformTwitter},
		{"https://x.com/user/status/1", model.PlatformTwitter},
		{"https://old.reddit.com/r/news/comments/abc", model.PlatformReddit},
		{"https://www.example.com/post", model.PlatformGeneric},
	}
	for _, tc := range cases {
		content, err := NewExtractor().Extract(htmlContent, tc.url)
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", tc.url, err)
		}
		if content.Platform != tc.want {
			t.Errorf("%s: expected platform %q, got %q", tc.url, tc.want, content.Platform)
		}
	}
}
