package signal

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ppiankov/credence/internal/inference"
	"github.com/ppiankov/credence/internal/model"
)

const (
	minSourcingSentences = 3
	sourcingBaseline     = 50
	sourcingHighAt       = 60
	sourcingMediumAt     = 35
)

// attributionPatterns catch explicit source naming; the capitalized
// groups keep generic phrases ("according to plan") from matching.
var attributionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[Aa]ccording to ([A-Z][A-Za-z.&'-]*(?: [A-Z][A-Za-z.&'-]*)*)`),
	regexp.MustCompile(`\b(?:said|reported|stated|confirmed) by ([A-Z][A-Za-z.&'-]*)`),
	regexp.MustCompile(`\b(?:[Ss]tudy|[Rr]eport|[Ss]urvey|[Aa]nalysis) (?:by|from) ([A-Z][A-Za-z.&'-]*)`),
	regexp.MustCompile(`\b([A-Z][a-z]+ [A-Z][a-z]+), (?:a|an|the) [a-z]+`),
}

// anonymousPatterns catch attribution that names nobody.
var anonymousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsources? (?:say|said|claim|told|confirm)`),
	regexp.MustCompile(`(?i)\bunnamed (?:sources?|officials?)\b`),
	regexp.MustCompile(`(?i)\bpeople familiar with\b`),
	regexp.MustCompile(`(?i)\binsiders? (?:say|said|claim|report)`),
	regexp.MustCompile(`(?i)\bit is (?:believed|said|reported|understood|rumored)\b`),
	regexp.MustCompile(`(?i)\b(?:some|many|several) (?:people|experts?|observers?) (?:say|believe|claim|argue)\b`),
}

// claimPatterns catch strong assertions that arrive with no
// attribution at all.
var claimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:will|would|could|may|might) (?:cause|lead to|result in|trigger|destroy|prevent)\b`),
	regexp.MustCompile(`(?i)\b(?:all|every|most|no) (?:doctors|scientists|experts|studies|researchers|people)\b`),
	regexp.MustCompile(`(?i)\b(?:proven|debunked|confirmed) that\b`),
	regexp.MustCompile(`(?i)\bstudies (?:show|prove|confirm|reveal)\b`),
}

var linkRe = regexp.MustCompile(`https?://[^\s]+`)

// Sourcing measures how well the content attributes its claims: named
// sources and links push the score down (less risk), anonymous and
// unattributed claims push it up. Entity recognition supplies the
// named-source count when available; a regex scan stands in when not.
type Sourcing struct {
	tagger EntityTagger
}

// NewSourcing creates the sourcing analyzer. A nil tagger is valid
// and selects the regex fallback.
func NewSourcing(tagger EntityTagger) *Sourcing {
	return &Sourcing{tagger: tagger}
}

// Name returns the wire name of this signal.
func (a *Sourcing) Name() string { return model.SignalSourcing }

// Analyze scores the content's attribution quality.
func (a *Sourcing) Analyze(ctx context.Context, content *model.Content) model.SignalResult {
	sentences := splitSentences(content.Body, minSourcingSentenceChars)
	if len(sentences) < minSourcingSentences {
		return model.SignalResult{
			Level:       model.LevelMedium,
			Score:       sourcingBaseline,
			Explanation: "Too few full sentences to evaluate sourcing and attribution.",
			Details: map[string]interface{}{
				"sentences": len(sentences),
				"guard":     "sentences < 3",
			},
		}
	}

	// Entity recognition and the regex fallback are independent; run
	// the remote call while the patterns scan locally.
	entCh := make(chan *inference.Entities, 1)
	if a.tagger != nil {
		go func() { entCh <- a.tagger.Entities(ctx, content.Body) }()
	} else {
		entCh <- nil
	}

	fallbackNamed := countPatternMatches(content.Body, attributionPatterns)
	anonymous := countPatternMatches(content.Body, anonymousPatterns)
	unattributed := countPatternMatches(content.Body, claimPatterns)
	links := len(linkRe.FindAllString(content.Body, -1))

	entities := <-entCh
	named := fallbackNamed
	modelUsed := false
	if entities != nil {
		named = entities.People + entities.Orgs
		modelUsed = true
	}

	authorBonus := 0
	if content.HasAuthor() {
		authorBonus = 5
	}

	raw := sourcingBaseline -
		min(named*8, 30) +
		min(anonymous*5, 15) +
		min(unattributed*3, 20) -
		min(links*3, 10) -
		authorBonus
	score := clamp(raw, 5, 95)

	details := map[string]interface{}{
		"namedSources":       named,
		"anonymousClaims":    anonymous,
		"unattributedClaims": unattributed,
		"links":              links,
		"authorPresent":      content.HasAuthor(),
		"formula":            "clamp(50 - min(named*8,30) + min(anon*5,15) + min(unattr*3,20) - min(links*3,10) - (author?5:0), 5, 95)",
	}
	if entities != nil {
		details["people"] = entities.People
		details["orgs"] = entities.Orgs
	}

	return model.SignalResult{
		Level:       levelFor(score, sourcingHighAt, sourcingMediumAt),
		Score:       score,
		Explanation: sourcingExplanation(modelUsed, named, anonymous, unattributed, links),
		ModelUsed:   modelUsed,
		Details:     details,
	}
}

func sourcingExplanation(modelUsed bool, named, anonymous, unattributed, links int) string {
	method := "Pattern matching"
	if modelUsed {
		method = "Entity recognition"
	}
	return fmt.Sprintf("%s found %d named source(s), %d anonymous attribution(s), %d unattributed claim(s), and %d supporting link(s).",
		method, named, anonymous, unattributed, links)
}

// countPatternMatches sums match counts across a pattern table.
func countPatternMatches(text string, patterns []*regexp.Regexp) int {
	total := 0
	for _, re := range patterns {
		total += len(re.FindAllString(text, -1))
	}
	return total
}
