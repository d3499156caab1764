// Package adapters cleans publisher-specific noise out of headline titles
// before they reach the normalizer.
package adapters

import (
	"net/url"
	"strings"
)

// Adapter defines the interface for publisher-specific title cleaners
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter applies to the publisher or URL
	CanHandle(publisher, rawURL string) bool

	// Clean returns the cleaned title and one note per transformation
	Clean(title, publisher string) (string, []string)
}

// Registry manages publisher adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
		generic:  NewGenericAdapter(),
	}

	registry.Register(NewWireAdapter())
	registry.Register(NewReutersAdapter())

	return registry
}

// Register registers a new adapter. Earlier registrations win.
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter returns the first specific adapter that handles the source,
// or nil when only the generic cleaner applies
func (r *Registry) FindAdapter(publisher, rawURL string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(publisher, rawURL) {
			return adapter
		}
	}
	return nil
}

// Clean runs the generic cleaner and then the matching specific adapter
func (r *Registry) Clean(title, publisher, rawURL string) (string, []string) {
	cleaned, notes := r.generic.Clean(title, publisher)

	if adapter := r.FindAdapter(publisher, rawURL); adapter != nil {
		var more []string
		cleaned, more = adapter.Clean(cleaned, publisher)
		notes = append(notes, more...)
	}
	return cleaned, notes
}

// hostOf returns the lower-cased host without "www."
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// hostMatches reports host equal to or under any of the domains
func hostMatches(rawURL string, domains ...string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
