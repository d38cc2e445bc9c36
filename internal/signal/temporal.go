package signal

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

const (
	minTemporalSentences = 2
	temporalMaxRisk      = 10.0
	temporalHighAt       = 55
	temporalMediumAt     = 25
)

// urgencyPhrases push readers to act before thinking.
var urgencyPhrases = []string{
	"breaking",
	"urgent",
	"share this now",
	"before it's too late",
	"act now",
	"time is running out",
	"going viral",
	"right now",
	"immediately",
	"don't wait",
}

// pressurePhrases specifically claim the content is about to vanish.
var pressurePhrases = []string{
	"before it's deleted",
	"before they take it down",
	"before this gets removed",
	"they will delete this",
	"about to be censored",
}

// datePatternRe recognizes date-like text when no structured date is
// present: month-day, ISO, slashed, and relative forms.
var datePatternRe = regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}\b|\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b|\b(?:yesterday|today|this morning|last week|this week)\b`)

// contextPatterns are marks of verifiable grounding inside the text
// itself: wire services, peer review, attributed studies, links.
var contextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:reuters|associated press|afp|bloomberg)\b`),
	regexp.MustCompile(`(?i)\bpeer[- ]reviewed\b`),
	regexp.MustCompile(`(?i)\baccording to (?:a|the) (?:study|report|analysis)\b`),
	regexp.MustCompile(`(?i)\bpublished in\b`),
	regexp.MustCompile(`https?://`),
}

// Temporal measures urgency pressure and missing context: breathless
// now-or-never framing, absent dating, no verifiable grounding, and
// how the story sits against independent news coverage.
type Temporal struct {
	checker CorroborationChecker
}

// NewTemporal creates the temporal-context analyzer. A nil checker is
// valid; external corroboration is then skipped.
func NewTemporal(checker CorroborationChecker) *Temporal {
	return &Temporal{checker: checker}
}

// Name returns the wire name of this signal.
func (a *Temporal) Name() string { return model.SignalTemporal }

// Analyze scores the content's temporal and contextual risk.
func (a *Temporal) Analyze(ctx context.Context, content *model.Content) model.SignalResult {
	sentences := splitSentences(content.Body, minSentenceChars)
	if len(sentences) < minTemporalSentences {
		return model.SignalResult{
			Level:       model.LevelLow,
			Score:       20,
			Explanation: "Not enough content to evaluate temporal signals.",
			Details: map[string]interface{}{
				"sentences": len(sentences),
				"guard":     "sentences < 2",
			},
		}
	}

	// External search and the internal scan are independent.
	corrCh := make(chan *model.Corroboration, 1)
	if a.checker != nil {
		go func() { corrCh <- a.checker.Check(ctx, content) }()
	} else {
		corrCh <- nil
	}

	lower := strings.ToLower(content.Body)
	risk := 0

	// 1. Urgency framing (0-3)
	urgencyHits := countOccurrences(lower, urgencyPhrases)
	switch {
	case urgencyHits >= 3:
		risk += 3
	case urgencyHits >= 1:
		risk++
	}

	// 2. Undated content (0-1)
	dated := strings.TrimSpace(content.Date) != "" || datePatternRe.MatchString(content.Body)
	if !dated {
		risk++
	}

	// 3. Internal grounding (-1..+2)
	contextHits := countPatternMatches(content.Body, contextPatterns)
	switch {
	case contextHits == 0:
		risk += 2
	case contextHits >= 3:
		risk--
	}

	// 4. Disappearing-content pressure (0-2)
	pressureHits := countOccurrences(lower, pressurePhrases)
	if pressureHits > 0 {
		risk += 2
	}

	// 5. External corroboration blend. Unavailable changes nothing;
	// the score must not punish a missing search key.
	corroboration := <-corrCh
	status := "unavailable"
	switch {
	case corroboration == nil:
	case corroboration.Found == 0:
		risk += 2
		status = "none"
	case corroboration.IndependentPhrasing:
		risk -= 2
		status = "independent"
	default:
		risk++
		status = "overlapping"
	}

	if risk < 0 {
		risk = 0
	}
	score := clamp(roundPct(float64(risk)/temporalMaxRisk), 5, 95)

	details := map[string]interface{}{
		"urgencyHits":   urgencyHits,
		"dated":         dated,
		"contextHits":   contextHits,
		"pressureHits":  pressureHits,
		"corroboration": status,
		"formula":       "clamp(round(max(risk,0)/10*100), 5, 95)",
	}
	if corroboration != nil {
		details["corroborationQuery"] = corroboration.Query
		details["corroborationFound"] = corroboration.Found
		details["corroborationSummary"] = corroboration.Summary
		if len(corroboration.Sources) > 0 {
			details["corroborationSources"] = corroboration.Sources
		}
	}

	return model.SignalResult{
		Level:       levelFor(score, temporalHighAt, temporalMediumAt),
		Score:       score,
		Explanation: temporalExplanation(risk, urgencyHits, status),
		ModelUsed:   corroboration != nil,
		Details:     details,
	}
}

func temporalExplanation(risk, urgencyHits int, status string) string {
	base := fmt.Sprintf("Temporal analysis accumulates %d of 10 risk points with %d urgency cue(s)", risk, urgencyHits)
	switch status {
	case "unavailable":
		return base + "; news-index corroboration could not be checked."
	case "none":
		return base + "; no matching coverage found in the news index."
	case "independent":
		return base + "; independent coverage of the story was found."
	default:
		return base + "; matching coverage exists but overlaps heavily in phrasing."
	}
}
