package signal

import (
	"math"
	"regexp"
	"strings"
)

// Sentence length floors. Fragments shorter than these are noise, not
// sentences; sourcing uses the stricter floor because attribution
// patterns need room to appear.
const (
	minSentenceChars         = 5
	minSourcingSentenceChars = 10
)

var allCapsRe = regexp.MustCompile(`\b[A-Z]{2,}\b`)

// acronymAllowlist keeps common organizational and medical
// abbreviations from counting as shouting.
var acronymAllowlist = map[string]struct{}{
	"AI": {}, "BBC": {}, "CDC": {}, "CEO": {}, "CIA": {}, "CNN": {},
	"COVID": {}, "DNA": {}, "EU": {}, "FBI": {}, "FDA": {}, "GDP": {},
	"HIV": {}, "NASA": {}, "NATO": {}, "NHS": {}, "RNA": {}, "TV": {},
	"UK": {}, "UN": {}, "US": {}, "USA": {}, "WHO": {},
}

// titleStopwords are excluded when measuring headline/body overlap.
var titleStopwords = map[string]struct{}{
	"about": {}, "after": {}, "been": {}, "from": {}, "have": {},
	"here": {}, "into": {}, "just": {}, "more": {}, "over": {},
	"says": {}, "than": {}, "that": {}, "them": {}, "then": {},
	"they": {}, "this": {}, "what": {}, "when": {}, "will": {},
	"with": {}, "your": {},
}

// wordCount counts whitespace-separated words.
func wordCount(s string) int {
	return len(strings.Fields(s))
}

// splitSentences splits text on terminal punctuation and keeps
// fragments whose trimmed length exceeds minChars.
func splitSentences(text string, minChars int) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); len(trimmed) > minChars {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// countOccurrences sums substring occurrences of each phrase in text.
// Text and phrases must already share case.
func countOccurrences(text string, phrases []string) int {
	total := 0
	for _, p := range phrases {
		total += strings.Count(text, p)
	}
	return total
}

// perSentence divides hits by the sentence count, guarding zero.
func perSentence(hits, sentences int) float64 {
	if sentences == 0 {
		return 0
	}
	return float64(hits) / float64(sentences)
}

// allCapsWords counts fully capitalized words outside the acronym
// allowlist.
func allCapsWords(text string) int {
	count := 0
	for _, w := range allCapsRe.FindAllString(text, -1) {
		if _, ok := acronymAllowlist[w]; !ok {
			count++
		}
	}
	return count
}

// typeTokenRatio measures vocabulary variety: unique lowercase words
// over total words.
func typeTokenRatio(fields []string) float64 {
	if len(fields) == 0 {
		return 0
	}
	types := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		types[strings.ToLower(f)] = struct{}{}
	}
	return float64(len(types)) / float64(len(fields))
}

// variationCoefficient computes stddev/mean over per-sentence word
// counts. Low variation reads as machine cadence.
func variationCoefficient(sentences []string) float64 {
	if len(sentences) == 0 {
		return 0
	}
	lengths := make([]float64, len(sentences))
	sum := 0.0
	for i, s := range sentences {
		lengths[i] = float64(wordCount(s))
		sum += lengths[i]
	}
	mean := sum / float64(len(lengths))
	if mean == 0 {
		return 0
	}
	variance := 0.0
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))
	return math.Sqrt(variance) / mean
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundPct converts a [0,1] fraction to a rounded percentage.
func roundPct(fraction float64) int {
	return int(math.Round(fraction * 100))
}

// significantTitleWords returns lowercase title words of at least 4
// chars that are not stop-words.
func significantTitleWords(title string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, `.,:;!?"'()[]`)
		if len(w) < 4 {
			continue
		}
		if _, stop := titleStopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}
