// Package extract turns a headline title into a frame, entity candidates,
// an amount, a round label and semantic evidence. Everything here is pure
// and total: malformed input degrades to empty results, never errors.
package extract

import (
	"regexp"
	"strings"
)

var quoteReplacer = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201a", "'", "\u2032", "'",
	"\u201c", `"`, "\u201d", `"`, "\u201e", `"`, "\u2033", `"`,
	"\u00a0", " ",
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Leading modifiers stripped in order. Each carries the note prefix it emits.
var prefixStrips = []struct {
	note string
	re   *regexp.Regexp
}{
	{"stripped_possessive_prefix", regexp.MustCompile(`^([A-Z][a-z]+ [A-Z][a-z]+)'s\s+`)},
	{"stripped_backed_prefix", regexp.MustCompile(`^([A-Z][a-z]+ [A-Z][a-z]+|[A-Z]{2,6})-backed\s+`)},
	{"stripped_founder_prefix", regexp.MustCompile(`^((?:Founder|Co-[Ff]ounder|CEO|Billionaire)\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?):\s*`)},
}

// NormalizeTitle straightens quotes, collapses whitespace and strips leading
// founder/backer noise. Returns the normalized title and one note per strip.
func NormalizeTitle(raw string) (string, []string) {
	title := quoteReplacer.Replace(raw)
	title = whitespaceRe.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)

	var notes []string
	for _, strip := range prefixStrips {
		m := strip.re.FindStringSubmatchIndex(title)
		if m == nil {
			continue
		}
		rest := strings.TrimSpace(title[m[1]:])
		if rest == "" {
			continue
		}
		notes = append(notes, strip.note+":"+title[m[2]:m[3]])
		title = rest
	}
	return title, notes
}
