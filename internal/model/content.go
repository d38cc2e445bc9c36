package model

import "strings"

// ManualSource marks content that was pasted in rather than fetched,
// so downstream advice can flag the missing provenance.
const ManualSource = "manual input"

// Platform identifies the kind of venue the content came from.
// Social platforms relax the short-body structural checks.
type Platform string

const (
	PlatformTwitter Platform = "twitter"
	PlatformReddit  Platform = "reddit"
	PlatformGeneric Platform = "generic"
)

// Content is the unit of analysis: one piece of text plus whatever
// surrounding metadata acquisition could recover. Body is the only
// required field.
type Content struct {
	Title    string   `json:"title,omitempty"`    // Headline, if any
	Body     string   `json:"body"`               // Main text (required)
	Meta     string   `json:"meta,omitempty"`     // Meta description or excerpt
	Author   string   `json:"author,omitempty"`   // Byline, if any
	Date     string   `json:"date,omitempty"`     // Publication date, ISO-ish or empty
	Source   string   `json:"source"`             // Domain, or ManualSource
	Platform Platform `json:"platform,omitempty"` // twitter, reddit, generic
}

// HasAuthor reports whether a non-empty byline was recovered.
func (c *Content) HasAuthor() bool {
	return strings.TrimSpace(c.Author) != ""
}

// IsSocial reports whether the content came from a platform where very
// short bodies are normal rather than a truncation signal.
func (c *Content) IsSocial() bool {
	return c.Platform == PlatformTwitter || c.Platform == PlatformReddit
}

// UnknownProvenance reports whether the origin of the content cannot be
// established (pasted text or missing source).
func (c *Content) UnknownProvenance() bool {
	s := strings.TrimSpace(c.Source)
	return s == "" || s == ManualSource
}

// PlatformForHost maps a hostname to a Platform.
func PlatformForHost(host string) Platform {
	h := strings.ToLower(strings.TrimPrefix(host, "www."))
	switch {
	case h == "twitter.com" || h == "x.com" || strings.HasSuffix(h, ".twitter.com") || strings.HasSuffix(h, ".x.com"):
		return PlatformTwitter
	case h == "reddit.com" || strings.HasSuffix(h, ".reddit.com"):
		return PlatformReddit
	default:
		return PlatformGeneric
	}
}
