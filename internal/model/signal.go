package model

// Level grades how strongly a signal (or the blended result) suggests
// credibility risk. Levels grade risk patterns, never truth.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Rank orders levels for comparisons (low < medium < high).
func (l Level) Rank() int {
	switch l {
	case LevelHigh:
		return 2
	case LevelMedium:
		return 1
	default:
		return 0
	}
}

// Signal names. These are the wire keys of the five analyzers and must
// not change: downstream consumers key off them.
const (
	SignalSyntheticText = "syntheticText"
	SignalSourcing      = "sourcing"
	SignalLinguistic    = "linguistic"
	SignalTemporal      = "temporal"
	SignalStructural    = "structural"
)

// SignalResult is one analyzer's verdict: a risk level, a 0-100 score
// (analyzers clamp to [5,95]), a deterministic explanation, whether a
// remote model contributed, and the transparent inputs behind the score.
type SignalResult struct {
	Level       Level                  `json:"level"`
	Score       int                    `json:"score"`
	Explanation string                 `json:"explanation"`
	ModelUsed   bool                   `json:"modelUsed"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// SignalSet is the complete output of one analysis run: exactly five
// results, one per analyzer. Using a struct rather than a map makes an
// absent signal unrepresentable, which is what aggregation requires.
type SignalSet struct {
	SyntheticText SignalResult `json:"syntheticText"`
	Sourcing      SignalResult `json:"sourcing"`
	Linguistic    SignalResult `json:"linguistic"`
	Temporal      SignalResult `json:"temporal"`
	Structural    SignalResult `json:"structural"`
}

// All returns the five results in fixed order with their wire names.
// The order is stable so every derived string is deterministic.
func (s *SignalSet) All() []NamedSignal {
	return []NamedSignal{
		{SignalSyntheticText, s.SyntheticText},
		{SignalSourcing, s.Sourcing},
		{SignalLinguistic, s.Linguistic},
		{SignalTemporal, s.Temporal},
		{SignalStructural, s.Structural},
	}
}

// NamedSignal pairs a result with its wire name for iteration.
type NamedSignal struct {
	Name   string
	Result SignalResult
}

// DisplayName returns the reader-facing name for a signal wire name.
func DisplayName(signal string) string {
	switch signal {
	case SignalSyntheticText:
		return "synthetic text"
	case SignalSourcing:
		return "sourcing"
	case SignalLinguistic:
		return "linguistic risk"
	case SignalTemporal:
		return "temporal context"
	case SignalStructural:
		return "structural integrity"
	default:
		return signal
	}
}

// Aggregation is the blended verdict over a complete SignalSet.
type Aggregation struct {
	ConfidenceBand Level    `json:"confidenceBand"`
	Summary        string   `json:"summary"`
	Uncertainty    string   `json:"uncertaintyStatement"`
	Suggestions    []string `json:"suggestions"`
	Disagreements  []string `json:"disagreements,omitempty"`
}
