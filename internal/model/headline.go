package model

import (
	"strings"
	"time"
)

// Headline is the engine input contract
type Headline struct {
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at,omitempty"` // ISO-8601, optional
}

// publishedLayouts are tried in order when parsing PublishedAt
var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// PublishedTime parses PublishedAt. Returns false if absent or unparseable.
func (h Headline) PublishedTime() (time.Time, bool) {
	s := strings.TrimSpace(h.PublishedAt)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
