package signal

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

const (
	minStructuralWords = 10
	minTitleChars      = 5
	ledeChars          = 200
	shortBodyChars     = 280
	structuralMaxRisk  = 10.0
	structuralHighAt   = 55
	structuralMediumAt = 25
)

// clickbaitPatterns are checked against the title and the lede. A hit
// counts once per pattern.
var clickbaitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)you won'?t believe`),
	regexp.MustCompile(`(?i)what happens next`),
	regexp.MustCompile(`(?i)will blow your mind`),
	regexp.MustCompile(`(?i)doctors hate`),
	regexp.MustCompile(`(?i)this one (?:simple |weird )?trick`),
	regexp.MustCompile(`(?i)\bnumber \d+ will\b`),
	regexp.MustCompile(`(?i)the real reason`),
	regexp.MustCompile(`(?i)gone (?:wrong|viral)`),
	regexp.MustCompile(`(?i)will shock you`),
	regexp.MustCompile(`(?i)what (?:they|nobody) (?:don'?t|doesn'?t|won'?t) (?:want|tell)`),
}

// sensationalWords flag charged headline vocabulary.
var sensationalWords = []string{
	"shocking",
	"outrageous",
	"unbelievable",
	"horrifying",
	"devastating",
	"explosive",
	"bombshell",
	"stunning",
	"insane",
	"jaw-dropping",
}

// truncationMarks suggest the text is a teaser cut from a longer
// piece rather than the piece itself.
var truncationMarks = []string{
	"read more",
	"continue reading",
	"click here",
	"full story at",
}

// Structural measures headline/body integrity: clickbait framing,
// headlines the body never delivers on, and teaser-style truncation.
// It is the one analyzer with no remote dependency.
type Structural struct{}

// NewStructural creates the structural-integrity analyzer.
func NewStructural() *Structural {
	return &Structural{}
}

// Name returns the wire name of this signal.
func (a *Structural) Name() string { return model.SignalStructural }

// Analyze scores the content's structural integrity.
func (a *Structural) Analyze(ctx context.Context, content *model.Content) model.SignalResult {
	wc := wordCount(content.Body)
	if wc < minStructuralWords {
		return model.SignalResult{
			Level:       model.LevelLow,
			Score:       15,
			Explanation: "Body is too short for structural analysis.",
			Details: map[string]interface{}{
				"wordCount": wc,
				"guard":     "word_count < 10",
			},
		}
	}

	title := strings.TrimSpace(content.Title)
	lowerBody := strings.ToLower(content.Body)
	lede := firstChars(lowerBody, ledeChars)

	risk := 0
	overlapRatio := -1.0
	clickbaitHits := 0
	sensationalHits := 0
	capsTitle := false
	questionTitle := false

	if len(title) > minTitleChars {
		lowerTitle := strings.ToLower(title)

		// 1. Headline the body never delivers on (0-2)
		significant := significantTitleWords(title)
		if len(significant) > 0 {
			found := 0
			for _, w := range significant {
				if strings.Contains(lowerBody, w) {
					found++
				}
			}
			overlapRatio = float64(found) / float64(len(significant))
			switch {
			case overlapRatio < 0.3:
				risk += 2
			case overlapRatio < 0.5:
				risk++
			}
		}

		// 2. Clickbait framing in title or lede (0-3)
		for _, re := range clickbaitPatterns {
			if re.MatchString(lowerTitle) || re.MatchString(lede) {
				clickbaitHits++
			}
		}
		switch {
		case clickbaitHits >= 2:
			risk += 3
		case clickbaitHits == 1:
			risk++
		}

		// 3. Sensational headline vocabulary (0-2)
		sensationalHits = countOccurrences(lowerTitle, sensationalWords)
		switch {
		case sensationalHits >= 2:
			risk += 2
		case sensationalHits == 1:
			risk++
		}

		// 4. Question-mark headline (0-1)
		if strings.HasSuffix(title, "?") {
			questionTitle = true
			risk++
		}

		// 5. Shouting headline (0-1)
		if len(title) > 10 && title == strings.ToUpper(title) && title != strings.ToLower(title) {
			capsTitle = true
			risk++
		}
	}

	// 6. Truncation marks (0-2): teaser endings and cut-off bodies.
	// Social posts are naturally short and do not count.
	truncationHits := 0
	trimmedBody := strings.TrimSpace(content.Body)
	if strings.HasSuffix(trimmedBody, "...") || strings.HasSuffix(trimmedBody, "…") {
		truncationHits++
	}
	for _, mark := range truncationMarks {
		if strings.Contains(lowerBody, mark) {
			truncationHits++
		}
	}
	if len(trimmedBody) < shortBodyChars && !content.IsSocial() {
		truncationHits++
	}
	switch {
	case truncationHits >= 2:
		risk += 2
	case truncationHits == 1:
		risk++
	}

	score := clamp(roundPct(float64(risk)/structuralMaxRisk), 5, 95)

	details := map[string]interface{}{
		"clickbaitHits":   clickbaitHits,
		"sensationalHits": sensationalHits,
		"questionTitle":   questionTitle,
		"allCapsTitle":    capsTitle,
		"truncationHits":  truncationHits,
		"formula":         "clamp(round(risk/10*100), 5, 95)",
	}
	if overlapRatio >= 0 {
		details["titleBodyOverlap"] = overlapRatio
	}

	return model.SignalResult{
		Level:       levelFor(score, structuralHighAt, structuralMediumAt),
		Score:       score,
		Explanation: structuralExplanation(risk, title, clickbaitHits, overlapRatio),
		Details:     details,
	}
}

func structuralExplanation(risk int, title string, clickbaitHits int, overlapRatio float64) string {
	if len(strings.TrimSpace(title)) <= minTitleChars {
		return fmt.Sprintf("No headline to check; body-structure checks accumulate %d of 10 risk points.", risk)
	}
	base := fmt.Sprintf("Headline and structure checks accumulate %d of 10 risk points", risk)
	if clickbaitHits > 0 {
		base += fmt.Sprintf(" with %d clickbait pattern(s)", clickbaitHits)
	}
	if overlapRatio >= 0 && overlapRatio < 0.5 {
		base += fmt.Sprintf("; only %d%% of headline terms appear in the body", roundPct(overlapRatio))
	}
	return base + "."
}

// firstChars bounds a string to its first n bytes.
func firstChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
