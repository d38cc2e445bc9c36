// Package aggregate folds the five per-signal verdicts into one
// reader-facing result: a confidence band, a summary, suggestions, and
// any disagreements between signals.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// uncertaintyStatement ships with every aggregation, verbatim. The
// signals grade risk patterns, never truth, and the output must say so.
const uncertaintyStatement = "These signals measure stylistic and structural risk patterns, not factual accuracy. " +
	"A polished fabrication can score low and legitimate breaking news can score high. " +
	"Verify important claims independently before acting on them."

// concernPhrases name, per signal, what a non-low reading is worried
// about. Used to build the medium-band summary.
var concernPhrases = map[string]string{
	model.SignalSyntheticText: "phrasing patterns common in machine-generated text",
	model.SignalSourcing:      "claims resting on weak or anonymous attribution",
	model.SignalLinguistic:    "emotionally charged or absolutist language",
	model.SignalTemporal:      "urgency framing or missing temporal context",
	model.SignalStructural:    "a headline the body does not deliver on",
}

// suggestionTexts map each elevated signal to one concrete next step
// for the reader.
var suggestionTexts = map[string]string{
	model.SignalSyntheticText: "Check whether the outlet discloses automated or AI-assisted writing.",
	model.SignalSourcing:      "Trace the central claims back to a named primary source.",
	model.SignalLinguistic:    "Set the emotional language aside and re-read only the factual claims.",
	model.SignalTemporal:      "Search an established news index for independent coverage before sharing.",
	model.SignalStructural:    "Read past the headline and judge the full body on its own.",
}

// sourceSuggestion fires when provenance is unknown: no source field,
// or text pasted in by hand.
const sourceSuggestion = "Identify the original publisher; the provenance of this text is unknown."

// genericSuggestions are used, both of them, when no rule fires.
var genericSuggestions = []string{
	"Cross-check the story against an outlet you already trust.",
	"Look for the same facts reported by a second, unrelated source.",
}

// Aggregator blends a complete signal set. It is stateless; one
// instance serves any number of calls.
type Aggregator struct{}

// New creates an Aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// Combine computes the aggregate verdict over exactly five signal
// results. The signal set is a struct, so "exactly five" holds by
// construction and partial aggregation is unrepresentable.
func (g *Aggregator) Combine(signals *model.SignalSet, content *model.Content) model.Aggregation {
	all := signals.All()

	highs, mediums := 0, 0
	sum := 0
	for _, s := range all {
		sum += s.Result.Score
		switch s.Result.Level {
		case model.LevelHigh:
			highs++
		case model.LevelMedium:
			mediums++
		}
	}
	mean := float64(sum) / float64(len(all))

	band := model.LevelLow
	switch {
	case highs >= 3 || mean >= 65:
		band = model.LevelHigh
	case highs >= 1 || mediums >= 3 || mean >= 35:
		band = model.LevelMedium
	}

	return model.Aggregation{
		ConfidenceBand: band,
		Summary:        summarize(band, all),
		Uncertainty:    uncertaintyStatement,
		Suggestions:    suggest(all, content),
		Disagreements:  disagreements(all),
	}
}

// summarize renders the band-specific summary text.
func summarize(band model.Level, all []model.NamedSignal) string {
	switch band {
	case model.LevelHigh:
		// Up to two explanations from the high-reading signals carry
		// the detail; they are deterministic strings.
		var picks []string
		for _, s := range all {
			if s.Result.Level == model.LevelHigh && len(picks) < 2 {
				picks = append(picks, s.Result.Explanation)
			}
		}
		if len(picks) == 0 {
			return "Multiple credibility risk patterns detected across the signals. Treat the content with strong skepticism."
		}
		return "Multiple credibility risk patterns detected. " + strings.Join(picks, " ")
	case model.LevelMedium:
		var concerns []string
		for _, s := range all {
			if s.Result.Level != model.LevelLow {
				concerns = append(concerns, concernPhrases[s.Name])
			}
		}
		if len(concerns) == 0 {
			return "Some caution is warranted: individual signals sit in the middle of their ranges."
		}
		return "Some caution is warranted: the analysis found " + joinClauses(concerns) + "."
	default:
		return "No strong credibility risk patterns were detected. The content reads as conventionally structured and sourced; the usual caveats about unverified claims still apply."
	}
}

// suggest builds the deduplicated, ordered suggestion list.
func suggest(all []model.NamedSignal, content *model.Content) []string {
	var out []string
	seen := map[string]bool{}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, s := range all {
		if s.Result.Level != model.LevelLow {
			add(suggestionTexts[s.Name])
		}
	}
	if content == nil || strings.TrimSpace(content.Source) == "" || content.Source == model.ManualSource {
		add(sourceSuggestion)
	}
	if len(out) == 0 {
		out = append(out, genericSuggestions...)
	}
	return out
}

// disagreements reports when the set simultaneously contains a high
// and a low reading. Anything less is normal spread, not disagreement.
func disagreements(all []model.NamedSignal) []string {
	var high, low []string
	for _, s := range all {
		switch s.Result.Level {
		case model.LevelHigh:
			high = append(high, model.DisplayName(s.Name))
		case model.LevelLow:
			low = append(low, model.DisplayName(s.Name))
		}
	}
	if len(high) == 0 || len(low) == 0 {
		return nil
	}
	return []string{fmt.Sprintf(
		"The %s signal(s) read high while %s read(s) low; mixed readings usually mean the content blends styles, so weigh the high-risk findings first.",
		joinClauses(high), joinClauses(low))}
}

// joinClauses joins items into prose: "a", "a and b", "a, b and c".
func joinClauses(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
