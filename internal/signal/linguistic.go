package signal

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/credence/internal/inference"
	"github.com/ppiankov/credence/internal/model"
)

const (
	minLinguisticWords   = 15
	linguisticHighAt     = 55
	linguisticMediumAt   = 25
	linguisticMaxModel   = 12
	linguisticMaxNoModel = 10
)

// intensifiers amplify emotional charge.
var intensifiers = []string{
	"absolutely",
	"completely",
	"totally",
	"utterly",
	"unbelievable",
	"shocking",
	"outrageous",
	"devastating",
	"horrifying",
	"terrifying",
	"incredible",
	"massive",
	"explosive",
	"insane",
}

// certaintyPhrases assert absolute confidence, leaving no room for
// the hedging real reporting carries.
var certaintyPhrases = []string{
	"undeniable",
	"without a doubt",
	"definitely",
	"certainly",
	"the truth is",
	"wake up",
	"obviously",
	"clearly",
	"no doubt",
	"100%",
	"guaranteed",
	"irrefutable",
}

// tropePhrases are recurring misinformation-narrative framings.
var tropePhrases = []string{
	"they don't want you to know",
	"mainstream media won't",
	"do your own research",
	"what they aren't telling you",
	"what they're hiding",
	"big pharma",
	"cover-up",
	"sheeple",
	"open your eyes",
	"hidden agenda",
	"the elites",
	"wake up call",
}

// Linguistic measures emotionally manipulative language: charged
// tone, absolutist certainty, and misinformation tropes. A sentiment
// model sharpens the tone reading when available.
type Linguistic struct {
	classifier SentimentClassifier
}

// NewLinguistic creates the linguistic-risk analyzer. A nil
// classifier is valid; tone contributes nothing without it.
func NewLinguistic(classifier SentimentClassifier) *Linguistic {
	return &Linguistic{classifier: classifier}
}

// Name returns the wire name of this signal.
func (a *Linguistic) Name() string { return model.SignalLinguistic }

// Analyze scores the content's linguistic risk.
func (a *Linguistic) Analyze(ctx context.Context, content *model.Content) model.SignalResult {
	wc := wordCount(content.Body)
	if wc < minLinguisticWords {
		return model.SignalResult{
			Level:       model.LevelLow,
			Score:       10,
			Explanation: "Body is too short for linguistic risk analysis.",
			Details: map[string]interface{}{
				"wordCount": wc,
				"guard":     "word_count < 15",
			},
		}
	}

	// Sentiment call and phrase scan are independent.
	sentCh := make(chan *inference.Sentiment, 1)
	if a.classifier != nil {
		go func() { sentCh <- a.classifier.Sentiment(ctx, content.Body) }()
	} else {
		sentCh <- nil
	}

	lower := strings.ToLower(content.Body)
	sentences := splitSentences(content.Body, minSentenceChars)

	risk := 0

	// 1. Emotional intensity (0-3): intensifiers weigh double,
	// exclamations and shouting count once
	intensifierHits := countOccurrences(lower, intensifiers)
	exclamations := strings.Count(content.Body, "!")
	caps := allCapsWords(content.Body)
	intensity := perSentence(2*intensifierHits+exclamations+caps, len(sentences))
	switch {
	case intensity > 0.5:
		risk += 3
	case intensity > 0.2:
		risk++
	}

	// 2. Absolutist certainty (0-3)
	certaintyHits := countOccurrences(lower, certaintyPhrases)
	certaintyDensity := perSentence(certaintyHits, len(sentences))
	switch {
	case certaintyDensity > 0.15:
		risk += 3
	case certaintyDensity > 0.05:
		risk++
	}

	// 3. Misinformation tropes (0-3)
	tropeHits := countOccurrences(lower, tropePhrases)
	if tropeHits >= 3 {
		risk += 3
	} else {
		risk += tropeHits
	}

	// 4. Negative tone (0-3), model-backed only
	sentiment := <-sentCh
	sentimentRisk := 0
	if sentiment != nil {
		neg := sentiment.Negative()
		switch {
		case neg > 0.7:
			sentimentRisk = 3
		case neg > 0.5:
			sentimentRisk = 2
		case neg > 0.3:
			sentimentRisk = 1
		}
	}
	risk += sentimentRisk

	modelUsed := sentiment != nil
	maxRisk := linguisticMaxNoModel
	if modelUsed {
		maxRisk = linguisticMaxModel
	}
	score := clamp(roundPct(float64(risk)/float64(maxRisk)), 5, 95)

	details := map[string]interface{}{
		"intensity":        intensity,
		"certaintyDensity": certaintyDensity,
		"tropeHits":        tropeHits,
		"exclamations":     exclamations,
		"allCapsWords":     caps,
		"sentimentRisk":    sentimentRisk,
		"formula":          "clamp(round(risk/maxRisk*100), 5, 95), maxRisk = modelUsed ? 12 : 10",
	}
	if sentiment != nil {
		details["negativeProbability"] = sentiment.Negative()
		details["tone"] = sentiment.Label
	}

	return model.SignalResult{
		Level:       levelFor(score, linguisticHighAt, linguisticMediumAt),
		Score:       score,
		Explanation: linguisticExplanation(sentiment, risk, maxRisk, tropeHits),
		ModelUsed:   modelUsed,
		Details:     details,
	}
}

func linguisticExplanation(sentiment *inference.Sentiment, risk, maxRisk, tropeHits int) string {
	base := fmt.Sprintf("Language analysis accumulates %d of %d risk points", risk, maxRisk)
	if tropeHits > 0 {
		base += fmt.Sprintf(" including %d misinformation-trope phrase(s)", tropeHits)
	}
	if sentiment != nil {
		return base + fmt.Sprintf("; sentiment model reads the tone as %s.", sentiment.Label)
	}
	return base + "; sentiment model unavailable, phrasing heuristics only."
}
