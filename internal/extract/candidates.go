package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxChunkTokens caps a title-case run
const maxChunkTokens = 5

// Chunk is a run of capitalized tokens inside a text segment
type Chunk struct {
	Text       string
	Start      int  // byte offset of the first token
	Possessive bool // last token carried a trailing 's
}

// Capitalized words that never belong to a name
var chunkBreakers = toSet(
	"For", "In", "To", "As", "With", "From", "At", "On", "By", "And", "Or",
	"Into", "After", "Amid", "Over", "Via", "Vs", "Is", "Are", "Was", "Be",
	"Its", "Their", "A", "An", "But", "Than", "Amidst", "Against", "Despite",
)

// Words that join two capitalized tokens inside a name
var chunkJoiners = toSet("of", "Of", "&", "de", "du", "van", "von", "der", "da")

// Standalone tokens that separate clauses
var separatorTokens = toSet("/", "-", "–", "—", "|", ":", "·", "•")

var (
	tokenRe         = regexp.MustCompile(`[^\s/]+|/`)
	leadingTrimSet  = `"'([{<`
	trailingTrimSet = `,;:!?)]}>"'`
)

type token struct {
	text  string
	start int
}

func tokenize(text string) []token {
	locs := tokenRe.FindAllStringIndex(text, -1)
	tokens := make([]token, 0, len(locs))
	for _, loc := range locs {
		tokens = append(tokens, token{text: text[loc[0]:loc[1]], start: loc[0]})
	}
	return tokens
}

// splitToken trims punctuation around a raw token. opens is true when an
// opening quote or bracket was removed; closes is true when the token ends
// a chunk (comma, closing quote, possessive, sentence period).
func splitToken(raw string) (core string, opens, closes, possessive bool) {
	core = strings.TrimLeft(raw, leadingTrimSet)
	opens = core != raw

	trimmed := strings.TrimRight(core, trailingTrimSet)
	if trimmed != core {
		closes = true
		core = trimmed
	}

	for _, suffix := range []string{"'s", "'S"} {
		if strings.HasSuffix(core, suffix) && len(core) > len(suffix) {
			core = core[:len(core)-len(suffix)]
			closes, possessive = true, true
		}
	}

	// "U.S." keeps its period, "Inc." loses it and ends the chunk
	if strings.HasSuffix(core, ".") {
		stem := strings.TrimRight(core, ".")
		if !strings.Contains(stem, ".") {
			core = stem
			closes = true
		}
	}
	return core, opens, closes, possessive
}

// isCapitalized reports whether a token can start or extend a name run.
// Digit-led tokens count only when they also carry a letter (3M, 23andMe).
func isCapitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	switch {
	case unicode.IsUpper(r):
		return true
	case unicode.IsDigit(r):
		return strings.IndexFunc(word, unicode.IsLetter) >= 0
	default:
		return false
	}
}

// TitleChunks returns the capitalized-word runs of text in order
func TitleChunks(text string) []Chunk {
	tokens := tokenize(text)

	var chunks []Chunk
	var words []string
	start := 0
	possessive := false

	flush := func() {
		if len(words) > 0 {
			// a trailing joiner never ends a name
			for len(words) > 0 && chunkJoiners[words[len(words)-1]] {
				words = words[:len(words)-1]
			}
			if len(words) > 0 {
				chunks = append(chunks, Chunk{Text: strings.Join(words, " "), Start: start, Possessive: possessive})
			}
		}
		words = nil
		possessive = false
	}

	for i, tok := range tokens {
		if separatorTokens[tok.text] {
			flush()
			continue
		}

		core, opens, closes, poss := splitToken(tok.text)
		if opens {
			flush()
		}
		if core == "" {
			flush()
			continue
		}

		switch {
		case core == "The" || core == "THE":
			flush()
			words = []string{core}
			start = tok.start
		case chunkBreakers[core]:
			flush()
		case chunkJoiners[core]:
			if len(words) == 0 || !nextIsCapitalized(tokens, i) {
				flush()
				continue
			}
			words = append(words, core)
		case isCapitalized(core):
			if len(words) >= maxChunkTokens {
				flush()
			}
			if len(words) == 0 {
				start = tok.start
			}
			words = append(words, core)
		default:
			flush()
		}

		if closes {
			possessive = poss
			flush()
		}
	}
	flush()

	// a lone "The" is not a name
	out := chunks[:0]
	for _, c := range chunks {
		if c.Text != "The" && c.Text != "THE" {
			out = append(out, c)
		}
	}
	return out
}

func nextIsCapitalized(tokens []token, i int) bool {
	if i+1 >= len(tokens) {
		return false
	}
	core, _, _, _ := splitToken(tokens[i+1].text)
	return isCapitalized(core) && !chunkBreakers[core]
}

// CleanCandidate strips separators, trailing punctuation and a trailing
// possessive from a raw slot string
func CleanCandidate(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "-–—:|,;/ \"'")
	s = strings.TrimSpace(s)
	for {
		before := s
		s = strings.TrimSuffix(s, "'s")
		s = strings.TrimSuffix(s, "'S")
		s = strings.TrimRight(s, ",;:!?-–—|\"') ")
		if strings.HasSuffix(s, ".") && !strings.Contains(strings.TrimRight(s, "."), ".") {
			s = strings.TrimRight(s, ".")
		}
		if s == before {
			break
		}
	}
	return strings.TrimSpace(s)
}

// LastChunk returns the last chunk of text admitted by accept. When none is
// admitted the positional last chunk is returned so callers can report it.
func LastChunk(text string, accept func(string) bool) (string, bool) {
	chunks := TitleChunks(text)
	for i := len(chunks) - 1; i >= 0; i-- {
		if name := CleanCandidate(chunks[i].Text); accepts(accept, name) {
			return name, true
		}
	}
	if len(chunks) > 0 {
		return CleanCandidate(chunks[len(chunks)-1].Text), true
	}
	return "", false
}

// FirstChunk returns the first chunk of text admitted by accept, falling
// back to the positional first chunk
func FirstChunk(text string, accept func(string) bool) (string, bool) {
	chunks := TitleChunks(text)
	for _, c := range chunks {
		if name := CleanCandidate(c.Text); accepts(accept, name) {
			return name, true
		}
	}
	if len(chunks) > 0 {
		return CleanCandidate(chunks[0].Text), true
	}
	return "", false
}

func accepts(accept func(string) bool, name string) bool {
	if name == "" {
		return false
	}
	return accept == nil || accept(name)
}

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
