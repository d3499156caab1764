package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/capevent/internal/model"
)

const systemPrompt = "You classify business news headlines into capital events. Reply with a single JSON object and nothing else."

// BuildPrompt constructs the classification prompt for one headline
func BuildPrompt(title string) string {
	types := make([]string, 0, len(model.EventTypes))
	for _, t := range model.EventTypes {
		if t == model.EventFiltered {
			continue
		}
		types = append(types, string(t))
	}

	return fmt.Sprintf(`Classify this headline.

Headline: %q

Rules:
1. event_type MUST be one of: %s
2. subject is the organization the event is about, exactly as written in the headline, or "" if none.
3. Never name a person, country, nationality or industry as the subject.
4. confidence is a number between 0 and 1.

Respond with JSON only:
{"event_type": "...", "confidence": 0.0, "subject": "...", "reasoning": "one short sentence"}`,
		title, strings.Join(types, ", "))
}

type verdictJSON struct {
	EventType  string  `json:"event_type"`
	Confidence float64 `json:"confidence"`
	Subject    string  `json:"subject"`
	Reasoning  string  `json:"reasoning"`
}

// ParseVerdict extracts the first JSON object from a model reply.
// Surrounding prose and code fences are ignored.
func ParseVerdict(text string) (*Verdict, error) {
	obj, ok := firstJSONObject(text)
	if !ok {
		return nil, errors.New("no JSON object in response")
	}

	var raw verdictJSON
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return nil, fmt.Errorf("decode verdict: %w", err)
	}

	eventType, _ := model.ParseEventType(raw.EventType)
	return &Verdict{
		Type:       eventType,
		Confidence: clamp01(raw.Confidence),
		Name:       strings.TrimSpace(raw.Subject),
		Reasoning:  strings.TrimSpace(raw.Reasoning),
	}, nil
}

// firstJSONObject returns the first balanced {...} span, respecting strings
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func clamp01(v float64) float64 {
	switch {
	case v != v || v < 0: // NaN or negative
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
