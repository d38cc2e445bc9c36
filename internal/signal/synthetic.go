package signal

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

const (
	minSyntheticWords     = 15
	syntheticHeuristicMax = 9.0
	syntheticModelWeight  = 0.7
	syntheticHighAt       = 60
	syntheticMediumAt     = 30
)

// fillerPhrases are stock constructions that generated prose leans on
// far more often than human writing does.
var fillerPhrases = []string{
	"it is important to note",
	"it's important to note",
	"it is worth noting",
	"in today's world",
	"in today's fast-paced world",
	"plays a crucial role",
	"plays a vital role",
	"in the realm of",
	"the landscape of",
	"delve into",
	"a testament to",
	"when it comes to",
	"at the end of the day",
	"in conclusion",
	"first and foremost",
}

// transitionWords are classic connective adverbs; high density reads
// as template-driven composition.
var transitionWords = []string{
	"however",
	"furthermore",
	"moreover",
	"additionally",
	"consequently",
	"therefore",
	"nevertheless",
	"nonetheless",
	"subsequently",
	"accordingly",
	"likewise",
	"conversely",
}

// SyntheticText estimates how likely the body was machine-generated,
// blending a remote detector with stylistic heuristics. The detector
// dominates when available (0.7 weight); heuristics alone carry the
// score when it is not.
type SyntheticText struct {
	classifier SyntheticClassifier
}

// NewSyntheticText creates the synthetic-text analyzer. A nil
// classifier is valid and yields heuristic-only scoring.
func NewSyntheticText(classifier SyntheticClassifier) *SyntheticText {
	return &SyntheticText{classifier: classifier}
}

// Name returns the wire name of this signal.
func (a *SyntheticText) Name() string { return model.SignalSyntheticText }

// Analyze scores the content for machine-generation likelihood.
func (a *SyntheticText) Analyze(ctx context.Context, content *model.Content) model.SignalResult {
	wc := wordCount(content.Body)
	if wc < minSyntheticWords {
		return model.SignalResult{
			Level:       model.LevelLow,
			Score:       15,
			Explanation: "Body is too short to evaluate for machine-generation patterns.",
			Details: map[string]interface{}{
				"wordCount": wc,
				"guard":     "word_count < 15",
			},
		}
	}

	// The detector call and the heuristic scan are independent.
	probCh := make(chan *float64, 1)
	if a.classifier != nil {
		go func() { probCh <- a.classifier.SyntheticProbability(ctx, content.Body) }()
	} else {
		probCh <- nil
	}

	lower := strings.ToLower(content.Body)
	sentences := splitSentences(content.Body, minSentenceChars)
	fields := strings.Fields(content.Body)

	points := 0

	// 1. Filler-phrase density (0-3)
	fillerHits := countOccurrences(lower, fillerPhrases)
	fillerDensity := perSentence(fillerHits, len(sentences))
	switch {
	case fillerDensity > 0.15:
		points += 3
	case fillerDensity > 0.05:
		points++
	}

	// 2. Sentence-length uniformity (0-2), only meaningful with
	// enough sentences to measure cadence
	cv := 0.0
	if len(sentences) > 5 {
		cv = variationCoefficient(sentences)
		switch {
		case cv < 0.25:
			points += 2
		case cv < 0.35:
			points++
		}
	}

	// 3. Vocabulary variety (0-1): generated text tends to sit in a
	// mid band of type-token ratio
	ttr := typeTokenRatio(fields)
	if wc > 100 && ttr >= 0.35 && ttr <= 0.55 {
		points++
	}

	// 4. Transition-word density (0-2)
	transitionHits := countOccurrences(lower, transitionWords)
	transitionDensity := perSentence(transitionHits, len(sentences))
	switch {
	case transitionDensity > 0.2:
		points += 2
	case transitionDensity > 0.1:
		points++
	}

	heuristic := float64(points) / syntheticHeuristicMax

	prob := <-probCh
	combined := heuristic
	modelUsed := false
	if prob != nil {
		combined = syntheticModelWeight*(*prob) + (1-syntheticModelWeight)*heuristic
		modelUsed = true
	}

	score := clamp(roundPct(combined), 5, 95)

	details := map[string]interface{}{
		"heuristicPoints":   points,
		"fillerDensity":     fillerDensity,
		"transitionDensity": transitionDensity,
		"typeTokenRatio":    ttr,
		"sentenceLengthCV":  cv,
		"formula":           "modelUsed ? 0.7*model + 0.3*(points/9) : points/9",
	}
	if prob != nil {
		details["modelProbability"] = *prob
	}

	return model.SignalResult{
		Level:       levelFor(score, syntheticHighAt, syntheticMediumAt),
		Score:       score,
		Explanation: syntheticExplanation(prob, points),
		ModelUsed:   modelUsed,
		Details:     details,
	}
}

func syntheticExplanation(prob *float64, points int) string {
	if prob != nil {
		return fmt.Sprintf("Detector places machine-generation probability at %d%%; stylistic heuristics add %d of 9 risk points.",
			roundPct(*prob), points)
	}
	return fmt.Sprintf("Detector unavailable; stylistic heuristics (filler phrasing, cadence, transition density) accumulate %d of 9 risk points.",
		points)
}
