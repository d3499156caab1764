package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/capevent/internal/model"
)

var (
	withRe     = regexp.MustCompile(`(?i)\bwith\b`)
	fromRe     = regexp.MustCompile(`(?i)\sfrom\s`)
	tertiaryRe = regexp.MustCompile(`(?i)\b(into|for|at|through)\s+`)
)

// Matcher applies an ordered pattern table to a normalized title
type Matcher struct {
	patterns []Pattern
}

// NewMatcher creates a matcher over the built-in pattern table
func NewMatcher() *Matcher {
	return &Matcher{patterns: defaultPatterns}
}

// NewMatcherWithPatterns creates a matcher over a custom table
func NewMatcherWithPatterns(patterns []Pattern) *Matcher {
	return &Matcher{patterns: patterns}
}

// Patterns returns the table in precedence order
func (m *Matcher) Patterns() []Pattern {
	return m.patterns
}

// Match returns the frame of the first pattern that matches title.
// accept picks among candidate chunks; nil admits every chunk.
func (m *Matcher) Match(title string, accept func(string) bool) model.Frame {
	for _, p := range m.patterns {
		loc := p.Regex.FindStringSubmatchIndex(title)
		if loc == nil {
			continue
		}
		frame := model.Frame{
			FrameType:  p.Frame,
			PatternID:  p.ID,
			VerbLabel:  p.Verb,
			Confidence: p.Confidence,
			VerbStart:  loc[0],
			VerbEnd:    loc[1],
			Notes:      []string{"pattern:" + p.ID},
		}
		frame.Slots, frame.TertiaryRole = extractSlots(p.Mode, title, loc, accept)
		return frame
	}
	return model.UnknownFrame()
}

func extractSlots(mode SlotMode, title string, loc []int, accept func(string) bool) (model.Slots, model.EntityRole) {
	var slots model.Slots
	tertiaryRole := model.RoleCounterparty
	start, end := loc[0], loc[1]
	left, right := title[:start], title[end:]

	switch mode {
	case ModeExec:
		slots.Subject = optional(LastChunk(left, accept))
		if len(loc) >= 6 && loc[2] >= 0 && loc[4] >= 0 {
			person := title[loc[2]:loc[3]] + " " + title[loc[4]:loc[5]]
			slots.Person = &person
		}

	case ModeSelf:
		slots.Subject = optional(LastChunk(left, accept))
		if slots.Subject == nil {
			slots.Subject = optional(FirstChunk(title, accept))
		}

	case ModeAfter:
		slots.Subject = optional(LastChunk(left, accept))
		slots.Object = optional(FirstChunk(right, accept))

	case ModeWith:
		slots.Subject = optional(LastChunk(left, accept))
		rest := right
		if w := withRe.FindStringIndex(title[start:]); w != nil {
			rest = title[start+w[1]:]
		}
		slots.Object = optional(FirstChunk(rest, accept))
		if name, role, ok := tertiarySlot(rest, slots.Object, accept); ok {
			slots.Tertiary = &name
			tertiaryRole = role
		}

	case ModeFrom:
		slots.Subject = optional(LastChunk(left, accept))
		rest := right
		if all := fromRe.FindAllStringIndex(title, -1); len(all) > 0 {
			if last := all[len(all)-1]; last[1] > start {
				rest = title[last[1]:]
			}
		}
		slots.Object = optional(FirstChunk(rest, accept))

	case ModeBy:
		slots.Subject = optional(FirstChunk(right, accept))
		slots.Object = optional(LastChunk(left, accept))

	case ModePair:
		names := acceptedChunks(left, accept)
		switch {
		case len(names) >= 2:
			slots.Subject = &names[len(names)-2]
			slots.Object = &names[len(names)-1]
		case len(names) == 1:
			slots.Subject = &names[0]
		}
	}

	return slots, tertiaryRole
}

// tertiarySlot finds an "into/for/at/through X" phrase whose X is a name
// immediately following the preposition
func tertiarySlot(text string, object *string, accept func(string) bool) (string, model.EntityRole, bool) {
	for _, m := range tertiaryRe.FindAllStringSubmatchIndex(text, -1) {
		chunks := TitleChunks(text[m[1]:])
		if len(chunks) == 0 || chunks[0].Start != 0 {
			continue
		}
		name := CleanCandidate(chunks[0].Text)
		if !accepts(accept, name) || (object != nil && *object == name) {
			continue
		}
		role := model.RoleCounterparty
		if strings.EqualFold(text[m[2]:m[3]], "through") {
			role = model.RoleChannel
		}
		return name, role, true
	}
	return "", "", false
}

func acceptedChunks(text string, accept func(string) bool) []string {
	var names []string
	for _, c := range TitleChunks(text) {
		if name := CleanCandidate(c.Text); accepts(accept, name) {
			names = append(names, name)
		}
	}
	return names
}

func optional(s string, ok bool) *string {
	if !ok || s == "" {
		return nil
	}
	return &s
}
