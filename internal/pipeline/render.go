package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/ppiankov/capevent/internal/model"
)

// Renderer writes events as JSON documents or JSON lines
type Renderer struct {
	pretty bool
}

// NewRenderer creates a renderer; pretty indents single-event output
func NewRenderer(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// WriteEvent writes one event as a JSON document
func (r *Renderer) WriteEvent(w io.Writer, event *model.CapitalEvent) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if r.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(event); err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return nil
}

// WriteJSONL writes one compact event per line
func (r *Renderer) WriteJSONL(w io.Writer, events []*model.CapitalEvent) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, ev := range events {
		if ev == nil {
			continue
		}
		if err := enc.Encode(ev); err != nil {
			return fmt.Errorf("encode event %s: %w", ev.EventID, err)
		}
	}
	return nil
}

// RenderJSONL writes events to path, creating parent directories
func (r *Renderer) RenderJSONL(events []*model.CapitalEvent, path string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", closeErr)
		}
	}()

	return r.WriteJSONL(f, events)
}

// Summary aggregates a batch of events
type Summary struct {
	Total     int
	Accepted  int
	Rejected  int
	GraphSafe int
	Filtered  int
	Overlay   int
	Failed    int // Headlines that produced no event
	ByType    map[model.EventType]int
}

// Summarize counts events; nil entries count as failures
func Summarize(events []*model.CapitalEvent) Summary {
	s := Summary{ByType: make(map[model.EventType]int)}
	for _, ev := range events {
		s.Total++
		if ev == nil {
			s.Failed++
			continue
		}
		s.ByType[ev.EventType]++
		switch ev.Extraction.Decision {
		case model.DecisionAccept:
			s.Accepted++
		case model.DecisionReject:
			s.Rejected++
		}
		if ev.Extraction.GraphSafe {
			s.GraphSafe++
		}
		if ev.EventType == model.EventFiltered {
			s.Filtered++
		}
		if ev.Extraction.OverlayUsed {
			s.Overlay++
		}
	}
	return s
}

// RenderSummary prints the batch summary block
func (r *Renderer) RenderSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Extraction Summary\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Headlines:   %d\n", s.Total)
	fmt.Fprintf(w, "  Accepted:    %d\n", s.Accepted)
	fmt.Fprintf(w, "  Rejected:    %d\n", s.Rejected)
	fmt.Fprintf(w, "  Graph-safe:  %d\n", s.GraphSafe)
	fmt.Fprintf(w, "  Filtered:    %d\n", s.Filtered)
	if s.Overlay > 0 {
		fmt.Fprintf(w, "  Overlay:     %d\n", s.Overlay)
	}
	if s.Failed > 0 {
		fmt.Fprintf(w, "  Failed:      %d\n", s.Failed)
	}

	if len(s.ByType) > 0 {
		fmt.Fprintf(w, "\n  By type:\n")
		types := make([]model.EventType, 0, len(s.ByType))
		for t := range s.ByType {
			types = append(types, t)
		}
		// Taxonomy order, unknown names last
		rank := make(map[model.EventType]int, len(model.EventTypes))
		for i, t := range model.EventTypes {
			rank[t] = i
		}
		sort.Slice(types, func(i, j int) bool {
			ri, okI := rank[types[i]]
			rj, okJ := rank[types[j]]
			if okI != okJ {
				return okI
			}
			if ri != rj {
				return ri < rj
			}
			return types[i] < types[j]
		})
		for _, t := range types {
			fmt.Fprintf(w, "    %-12s %d\n", t, s.ByType[t])
		}
	}
	fmt.Fprintf(w, "\n")
}
