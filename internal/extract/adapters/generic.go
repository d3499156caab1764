package adapters

import (
	"strings"

	"golang.org/x/net/html"
)

// GenericAdapter strips markup and a trailing publisher suffix. It runs for
// every headline.
type GenericAdapter struct{}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (g *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true
func (g *GenericAdapter) CanHandle(publisher, rawURL string) bool {
	return true
}

// Clean decodes entities, drops tags and removes " - Publisher" style tails
func (g *GenericAdapter) Clean(title, publisher string) (string, []string) {
	var notes []string

	if strings.ContainsAny(title, "<&") {
		if text := visibleText(title); text != title {
			title = text
			notes = append(notes, "stripped_html")
		}
	}

	if stripped, ok := stripPublisherSuffix(title, publisher); ok {
		title = stripped
		notes = append(notes, "stripped_publisher_suffix")
	}

	return title, notes
}

// visibleText renders title through the HTML tokenizer and keeps text only.
// Script and style content is dropped.
func visibleText(title string) string {
	z := html.NewTokenizer(strings.NewReader(title))
	var buf strings.Builder
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(buf.String()), " ")
		case html.StartTagToken:
			if hidden(z) {
				skip++
			}
		case html.EndTagToken:
			if hidden(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				buf.Write(z.Text())
			}
		}
	}
}

func hidden(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style", "noscript":
		return true
	}
	return false
}

var suffixSeparators = []string{" - ", " | ", " – ", " — "}

// stripPublisherSuffix removes a trailing separator plus publisher name.
// Only the named publisher is stripped so "Acme - Beta merge" survives.
func stripPublisherSuffix(title, publisher string) (string, bool) {
	publisher = strings.TrimSpace(publisher)
	if publisher == "" {
		return title, false
	}
	for _, sep := range suffixSeparators {
		idx := strings.LastIndex(title, sep)
		if idx <= 0 {
			continue
		}
		tail := strings.TrimSpace(title[idx+len(sep):])
		if strings.EqualFold(tail, publisher) {
			return strings.TrimSpace(title[:idx]), true
		}
	}
	return title, false
}
