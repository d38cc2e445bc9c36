package aggregate

import (
	"strings"
	"testing"

	"github.com/ppiankov/credence/internal/model"
)

func result(level model.Level, score int, explanation string) model.SignalResult {
	return model.SignalResult{Level: level, Score: score, Explanation: explanation}
}

func set(synthetic, sourcing, linguistic, temporal, structural model.SignalResult) *model.SignalSet {
	return &model.SignalSet{
		SyntheticText: synthetic,
		Sourcing:      sourcing,
		Linguistic:    linguistic,
		Temporal:      temporal,
		Structural:    structural,
	}
}

func TestCombineAllLow(t *testing.T) {
	signals := set(
		result(model.LevelLow, 10, "a"),
		result(model.LevelLow, 12, "b"),
		result(model.LevelLow, 8, "c"),
		result(model.LevelLow, 15, "d"),
		result(model.LevelLow, 5, "e"),
	)
	agg := New().Combine(signals, &model.Content{Source: "reuters.com"})

	if agg.ConfidenceBand != model.LevelLow {
		t.Errorf("expected low band, got %s", agg.ConfidenceBand)
	}
	if len(agg.Disagreements) != 0 {
		t.Errorf("uniform levels cannot disagree, got %v", agg.Disagreements)
	}
	if !strings.Contains(agg.Summary, "No strong credibility risk") {
		t.Errorf("expected the reassurance summary, got %q", agg.Summary)
	}
	if len(agg.Suggestions) != 2 {
		t.Errorf("expected exactly the two generic suggestions, got %v", agg.Suggestions)
	}
}

func TestCombineThreeHighsOutvoteLows(t *testing.T) {
	signals := set(
		result(model.LevelHigh, 70, "synthetic cadence detected"),
		result(model.LevelHigh, 75, "claims rest on anonymous sourcing"),
		result(model.LevelHigh, 80, "language is heavily charged"),
		result(model.LevelLow, 10, "well dated"),
		result(model.LevelLow, 15, "headline matches body"),
	)
	agg := New().Combine(signals, &model.Content{Source: "example.com"})

	if agg.ConfidenceBand != model.LevelHigh {
		t.Errorf("three highs must band high, got %s", agg.ConfidenceBand)
	}
	if len(agg.Disagreements) != 1 {
		t.Fatalf("expected one disagreement sentence, got %v", agg.Disagreements)
	}
	d := agg.Disagreements[0]
	for _, name := range []string{"synthetic text", "sourcing", "linguistic risk", "temporal context", "structural integrity"} {
		if !strings.Contains(d, name) {
			t.Errorf("disagreement should name %q, got %q", name, d)
		}
	}
	// The warning summary carries the first two high explanations.
	if !strings.Contains(agg.Summary, "synthetic cadence detected") ||
		!strings.Contains(agg.Summary, "anonymous sourcing") {
		t.Errorf("summary should quote the first two high explanations, got %q", agg.Summary)
	}
	if strings.Contains(agg.Summary, "heavily charged") {
		t.Errorf("summary should stop after two explanations, got %q", agg.Summary)
	}
}

func TestCombineMeanPushesHigh(t *testing.T) {
	// Only two highs, but the mean of 66 crosses the threshold.
	signals := set(
		result(model.LevelHigh, 90, "a"),
		result(model.LevelHigh, 90, "b"),
		result(model.LevelMedium, 50, "c"),
		result(model.LevelMedium, 50, "d"),
		result(model.LevelMedium, 50, "e"),
	)
	agg := New().Combine(signals, &model.Content{Source: "example.com"})
	if agg.ConfidenceBand != model.LevelHigh {
		t.Errorf("mean 66 must band high, got %s", agg.ConfidenceBand)
	}
	if len(agg.Disagreements) != 0 {
		t.Errorf("no low reading, so no disagreement, got %v", agg.Disagreements)
	}
}

func TestCombineSingleHighIsMedium(t *testing.T) {
	signals := set(
		result(model.LevelHigh, 60, "a"),
		result(model.LevelLow, 10, "b"),
		result(model.LevelLow, 10, "c"),
		result(model.LevelLow, 10, "d"),
		result(model.LevelLow, 10, "e"),
	)
	agg := New().Combine(signals, &model.Content{Source: "example.com"})
	if agg.ConfidenceBand != model.LevelMedium {
		t.Errorf("one high bands medium, got %s", agg.ConfidenceBand)
	}
	if len(agg.Disagreements) != 1 {
		t.Errorf("high and low coexist, expected a disagreement, got %v", agg.Disagreements)
	}
}

func TestCombineThreeMediumsBandMedium(t *testing.T) {
	signals := set(
		result(model.LevelMedium, 40, "a"),
		result(model.LevelMedium, 40, "b"),
		result(model.LevelMedium, 40, "c"),
		result(model.LevelLow, 10, "d"),
		result(model.LevelLow, 10, "e"),
	)
	agg := New().Combine(signals, &model.Content{Source: "example.com"})
	if agg.ConfidenceBand != model.LevelMedium {
		t.Errorf("three mediums band medium, got %s", agg.ConfidenceBand)
	}
	if !strings.Contains(agg.Summary, "machine-generated") ||
		!strings.Contains(agg.Summary, "attribution") {
		t.Errorf("medium summary should name the elevated concerns, got %q", agg.Summary)
	}
	if strings.Contains(agg.Summary, "urgency framing") {
		t.Errorf("medium summary must skip low signals, got %q", agg.Summary)
	}
}

func TestCombineMeanPushesMedium(t *testing.T) {
	// Two mediums and no high, but the mean of 36 crosses 35.
	signals := set(
		result(model.LevelMedium, 50, "a"),
		result(model.LevelMedium, 50, "b"),
		result(model.LevelLow, 30, "c"),
		result(model.LevelLow, 20, "d"),
		result(model.LevelLow, 30, "e"),
	)
	agg := New().Combine(signals, &model.Content{Source: "example.com"})
	if agg.ConfidenceBand != model.LevelMedium {
		t.Errorf("mean 36 must band medium, got %s", agg.ConfidenceBand)
	}
}

func TestCombineSuggestionsFollowElevatedSignals(t *testing.T) {
	signals := set(
		result(model.LevelLow, 10, "a"),
		result(model.LevelLow, 10, "b"),
		result(model.LevelLow, 10, "c"),
		result(model.LevelMedium, 40, "d"),
		result(model.LevelHigh, 60, "e"),
	)
	agg := New().Combine(signals, &model.Content{})

	if len(agg.Suggestions) != 3 {
		t.Fatalf("expected temporal, structural and provenance suggestions, got %v", agg.Suggestions)
	}
	if !strings.Contains(agg.Suggestions[0], "news index") {
		t.Errorf("first suggestion should be the temporal one, got %q", agg.Suggestions[0])
	}
	if !strings.Contains(agg.Suggestions[1], "headline") {
		t.Errorf("second suggestion should be the structural one, got %q", agg.Suggestions[1])
	}
	if !strings.Contains(agg.Suggestions[2], "provenance") {
		t.Errorf("missing source should add the provenance suggestion, got %q", agg.Suggestions[2])
	}
}

func TestCombineManualSourceAddsProvenanceSuggestion(t *testing.T) {
	signals := set(
		result(model.LevelLow, 10, "a"),
		result(model.LevelLow, 10, "b"),
		result(model.LevelLow, 10, "c"),
		result(model.LevelLow, 10, "d"),
		result(model.LevelLow, 10, "e"),
	)
	agg := New().Combine(signals, &model.Content{Source: model.ManualSource})
	if len(agg.Suggestions) != 1 || !strings.Contains(agg.Suggestions[0], "provenance") {
		t.Errorf("manual input should yield only the provenance suggestion, got %v", agg.Suggestions)
	}
}

func TestCombineUncertaintyIsConstant(t *testing.T) {
	low := set(
		result(model.LevelLow, 10, "a"),
		result(model.LevelLow, 10, "b"),
		result(model.LevelLow, 10, "c"),
		result(model.LevelLow, 10, "d"),
		result(model.LevelLow, 10, "e"),
	)
	high := set(
		result(model.LevelHigh, 90, "a"),
		result(model.LevelHigh, 90, "b"),
		result(model.LevelHigh, 90, "c"),
		result(model.LevelHigh, 90, "d"),
		result(model.LevelHigh, 90, "e"),
	)
	first := New().Combine(low, &model.Content{Source: "x"})
	second := New().Combine(high, &model.Content{Source: "x"})
	if first.Uncertainty == "" || first.Uncertainty != second.Uncertainty {
		t.Errorf("uncertainty statement must be a nonempty constant, got %q vs %q",
			first.Uncertainty, second.Uncertainty)
	}
}
