// Package extract turns fetched HTML into an analyzable Content
// record: title, body text, byline, date, and platform.
package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/credence/internal/model"
	"golang.org/x/net/html"
)

// skipElements never contribute article text.
var skipElements = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "nav": {},
	"header": {}, "footer": {}, "aside": {}, "form": {},
}

// Extractor extracts article content from HTML documents.
type Extractor struct{}

// NewExtractor creates a new content extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses HTML and builds a Content record. It fails only when
// no usable body text can be recovered; every other field is optional.
func (e *Extractor) Extract(htmlContent string, finalURL string) (*model.Content, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	meta := collectMeta(doc)

	content := &model.Content{
		Title:  firstNonEmpty(meta["og:title"], meta["twitter:title"], elementText(doc, "title"), elementText(doc, "h1")),
		Meta:   firstNonEmpty(meta["description"], meta["og:description"]),
		Author: firstNonEmpty(meta["author"], meta["article:author"], byline(doc)),
		Date:   firstNonEmpty(meta["article:published_time"], meta["date"], timeAttr(doc)),
		Body:   bodyText(doc),
	}

	if parsed, err := url.Parse(finalURL); err == nil && parsed.Host != "" {
		host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
		content.Source = host
		content.Platform = model.PlatformForHost(host)
	}

	if strings.TrimSpace(content.Body) == "" {
		return nil, fmt.Errorf("no article text found")
	}

	return content, nil
}

// collectMeta gathers <meta> name/property -> content pairs. The first
// occurrence of a key wins.
func collectMeta(doc *html.Node) map[string]string {
	meta := make(map[string]string)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var key, content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name", "property":
					key = strings.ToLower(strings.TrimSpace(attr.Val))
				case "content":
					content = strings.TrimSpace(attr.Val)
				}
			}
			if key != "" && content != "" {
				if _, exists := meta[key]; !exists {
					meta[key] = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return meta
}

// bodyText joins the text of all paragraph elements. Documents without
// paragraphs fall back to the full body text.
func bodyText(doc *html.Node) string {
	var paragraphs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skipElements[n.Data]; skip {
				return
			}
			if n.Data == "p" {
				if text := strings.TrimSpace(nodeText(n)); text != "" {
					paragraphs = append(paragraphs, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n\n")
	}
	if body := findElement(doc, "body"); body != nil {
		return strings.Join(strings.Fields(nodeText(body)), " ")
	}
	return ""
}

// byline looks for the visible byline markup common on article pages.
func byline(doc *html.Node) string {
	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key != "class" && attr.Key != "rel" && attr.Key != "itemprop" {
					continue
				}
				val := strings.ToLower(attr.Val)
				if strings.Contains(val, "byline") || val == "author" {
					if text := strings.TrimSpace(nodeText(n)); text != "" {
						found = strings.TrimSpace(strings.TrimPrefix(text, "By "))
						return
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

// timeAttr returns the datetime attribute of the first <time> element.
func timeAttr(doc *html.Node) string {
	if n := findElement(doc, "time"); n != nil {
		for _, attr := range n.Attr {
			if attr.Key == "datetime" {
				return strings.TrimSpace(attr.Val)
			}
		}
	}
	return ""
}

// findElement returns the first element with the given tag name.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// elementText returns the trimmed text of the first element with the
// given tag name.
func elementText(doc *html.Node, tag string) string {
	if n := findElement(doc, tag); n != nil {
		return strings.TrimSpace(nodeText(n))
	}
	return ""
}

// nodeText concatenates all text nodes under n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode {
			if _, skip := skipElements[n.Data]; skip {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// firstNonEmpty returns the first non-empty candidate.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return ""
}
