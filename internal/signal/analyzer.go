package signal

import (
	"context"

	"github.com/ppiankov/credence/internal/inference"
	"github.com/ppiankov/credence/internal/model"
)

// Analyzer produces one credibility signal for a piece of content.
// Implementations never fail the run: remote-classifier failures
// degrade to heuristic-only scoring, and degenerate input yields a
// fixed canned result. Given identical content and identical
// classifier answers, the result is byte-identical.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, content *model.Content) model.SignalResult
}

// SyntheticClassifier scores how likely text is machine-generated.
// Satisfied by *inference.Client; nil results mean unavailable.
type SyntheticClassifier interface {
	SyntheticProbability(ctx context.Context, text string) *float64
}

// SentimentClassifier grades the emotional tone of text.
type SentimentClassifier interface {
	Sentiment(ctx context.Context, text string) *inference.Sentiment
}

// EntityTagger recognizes named people and organizations.
type EntityTagger interface {
	Entities(ctx context.Context, text string) *inference.Entities
}

// CorroborationChecker searches for independent coverage of a story.
// Satisfied by *corroborate.Client.
type CorroborationChecker interface {
	Check(ctx context.Context, content *model.Content) *model.Corroboration
}

// levelFor grades a score against an analyzer's cutoffs. Cutoffs are
// inclusive, so every score maps to exactly one level.
func levelFor(score, high, medium int) model.Level {
	switch {
	case score >= high:
		return model.LevelHigh
	case score >= medium:
		return model.LevelMedium
	default:
		return model.LevelLow
	}
}
