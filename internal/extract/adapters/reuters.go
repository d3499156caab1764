package adapters

import (
	"regexp"
	"strings"
)

// Desk slugs prefixed to wire-service headlines, e.g. "UPDATE 2-"
var deskPrefixRe = regexp.MustCompile(`^(EXCLUSIVE|UPDATE\s+\d+|BRIEF|REFILE|CORRECTED|INSIGHT|ANALYSIS|BUZZ)\s*-\s*`)

// ReutersAdapter removes desk slugs from Reuters titles
type ReutersAdapter struct{}

// NewReutersAdapter creates a new Reuters adapter
func NewReutersAdapter() *ReutersAdapter {
	return &ReutersAdapter{}
}

// Name returns the adapter name
func (r *ReutersAdapter) Name() string {
	return "reuters"
}

// CanHandle matches the Reuters publisher name or domain
func (r *ReutersAdapter) CanHandle(publisher, rawURL string) bool {
	return strings.Contains(strings.ToLower(publisher), "reuters") || hostMatches(rawURL, "reuters.com")
}

// Clean strips stacked slugs such as "REFILE-UPDATE 1-"
func (r *ReutersAdapter) Clean(title, publisher string) (string, []string) {
	var notes []string
	for {
		m := deskPrefixRe.FindStringSubmatch(title)
		if m == nil || len(m[0]) == len(title) {
			return title, notes
		}
		slug := strings.Join(strings.Fields(m[1]), " ")
		notes = append(notes, "stripped_desk_prefix:"+slug)
		title = title[len(m[0]):]
	}
}
