package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/capevent/internal/model"
)

type semanticDetector struct {
	kind       model.SemanticKind
	re         *regexp.Regexp
	confidence float64
}

var semanticDetectors = []semanticDetector{
	{
		kind:       model.SemanticAchievement,
		re:         regexp.MustCompile(`(?i)\b(?:after|having)\s+(?:successfully\s+)?(?:solved|solving|achieved|achieving|built|building|created|creating|reached|reaching|crossed|crossing|surpassed|surpassing)\s+[^,;.]+`),
		confidence: 0.85,
	},
	{
		kind:       model.SemanticProblemSolved,
		re:         regexp.MustCompile(`(?i)\b(?:since|because|as)\s+(?:they|it|the\s+\w+)\s+(?:solved|cracked|figured\s+out|fixed|tackled)\s+[^,;.]+`),
		confidence: 0.9,
	},
	{
		kind:       model.SemanticMilestone,
		re:         regexp.MustCompile(`(?i)\b(?:following|after|post-?)\s*(?:their|its|the)\s+[^,;.]*?\b(?:milestone|launch|release|pivot|round)\b`),
		confidence: 0.8,
	},
	{
		kind:       model.SemanticRelationship,
		re:         regexp.MustCompile(`(?i)\b(?:working\s+with|backed\s+by|supported\s+by|partnering\s+with)\s+[^,;.]+`),
		confidence: 0.75,
	},
}

var (
	financingMentionRe = regexp.MustCompile(`(?i)\b(?:round|series\s+[a-e]|seed|pre-seed|funding|financing|raise)\b`)
	substantiveUnitRe  = regexp.MustCompile(`(?i)\b(?:users|customers|revenue|arr|transactions|downloads|subscribers)\b`)
)

// MineContext extracts secondary evidence from the text after the verb.
// Returns nil when no detector fires.
func MineContext(afterVerb string) []model.SemanticEvidence {
	text := strings.TrimSpace(afterVerb)
	if text == "" {
		return nil
	}

	var out []model.SemanticEvidence
	for _, d := range semanticDetectors {
		match := d.re.FindString(text)
		if match == "" {
			continue
		}
		if d.kind == model.SemanticMilestone && isFinancingOnly(match) {
			continue
		}
		out = append(out, model.SemanticEvidence{
			Kind:       d.kind,
			Text:       strings.TrimSpace(match),
			Confidence: d.confidence,
		})
	}
	return out
}

// isFinancingOnly reports a milestone phrase that is just a funding round
func isFinancingOnly(phrase string) bool {
	return financingMentionRe.MatchString(phrase) && !substantiveUnitRe.MatchString(phrase)
}
