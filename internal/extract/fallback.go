package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/capevent/internal/model"
)

// Fallback confidences by strategy
const (
	SlashPairConfidence     = 0.65
	PossessiveConfidence    = 0.6
	LeadingChunksConfidence = 0.5
)

var slashPairRe = regexp.MustCompile(`([A-Z][\w&.'-]*(?:\s+[A-Z][\w&.'-]*){0,3})\s*/\s*([A-Z][\w&.'-]*(?:\s+[A-Z][\w&.'-]*){0,3})`)

// FallbackResult carries heuristic entities and the strategy that found them
type FallbackResult struct {
	Strategy string
	Entities []model.Entity
}

// FallbackEntities runs the heuristic passes used when no frame matched.
// The first strategy that yields an admitted name wins.
func FallbackEntities(title string, accept func(string) bool) FallbackResult {
	if names := slashPairs(title, accept); len(names) > 0 {
		return FallbackResult{Strategy: "slash_pair", Entities: heuristicEntities(names, SlashPairConfidence)}
	}
	if names := possessiveChains(title, accept); len(names) > 0 {
		return FallbackResult{Strategy: "possessive", Entities: heuristicEntities(names, PossessiveConfidence)}
	}
	if names := leadingChunks(title, accept); len(names) > 0 {
		return FallbackResult{Strategy: "leading_chunks", Entities: heuristicEntities(names, LeadingChunksConfidence)}
	}
	return FallbackResult{}
}

func slashPairs(title string, accept func(string) bool) []string {
	var names []string
	for _, m := range slashPairRe.FindAllStringSubmatch(title, -1) {
		for _, raw := range m[1:] {
			names = appendUnique(names, CleanCandidate(raw), accept)
		}
	}
	return names
}

func possessiveChains(title string, accept func(string) bool) []string {
	var names []string
	for _, c := range TitleChunks(title) {
		if c.Possessive {
			names = appendUnique(names, CleanCandidate(c.Text), accept)
		}
	}
	return names
}

// descriptorHeads end a lowercase descriptor run such as "security
// startup"; the capitalized words before such a run modify it
var descriptorHeads = toSet(
	"startup", "startups", "company", "companies", "firm", "firms",
	"giant", "giants", "maker", "makers", "provider", "providers",
	"platform", "platforms", "unicorn", "unicorns", "player", "players",
	"major", "lender", "lenders", "app", "brand", "brands",
)

// leadingChunks takes up to two names that precede the first lowercase
// word, which is usually the verb or a connective. A leading modifier of
// a descriptor ("Cloud security startup Wiz hits") is skipped and the
// names after the descriptor are used instead.
func leadingChunks(title string, accept func(string) bool) []string {
	tokens := tokenize(title)
	start, cutoff := 0, len(title)
	for i := 0; i < len(tokens); i++ {
		if !startsLower(tokens[i].text) {
			continue
		}
		j := i
		for j+1 < len(tokens) && startsLower(tokens[j+1].text) {
			j++
		}
		if start == 0 && i > 0 && descriptorHeads[strings.ToLower(strings.Trim(tokens[j].text, leadingTrimSet+trailingTrimSet))] {
			if j+1 < len(tokens) {
				start = tokens[j+1].start
			} else {
				start = len(title)
			}
			i = j
			continue
		}
		cutoff = tokens[i].start
		break
	}

	var names []string
	for _, c := range TitleChunks(title[start:cutoff]) {
		names = appendUnique(names, CleanCandidate(c.Text), accept)
		if len(names) == 2 {
			break
		}
	}
	return names
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}

func heuristicEntities(names []string, confidence float64) []model.Entity {
	entities := make([]model.Entity, 0, len(names))
	for i, name := range names {
		role := model.RoleSubject
		if i > 0 {
			role = model.RoleObject
		}
		entities = append(entities, model.Entity{
			Name:       name,
			Role:       role,
			Provenance: model.ProvenanceHeuristic,
			Confidence: confidence,
		})
	}
	return entities
}

func appendUnique(names []string, name string, accept func(string) bool) []string {
	if !accepts(accept, name) {
		return names
	}
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}
