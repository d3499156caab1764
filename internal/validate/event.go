package validate

import (
	"fmt"

	"github.com/ppiankov/capevent/internal/model"
)

// Result is the outcome of a structural event check
type Result struct {
	Valid  bool
	Errors []string
}

// ValidateEvent checks the invariants every emitted event must hold.
// It reports all violations rather than stopping at the first.
func ValidateEvent(e *model.CapitalEvent) Result {
	if e == nil {
		return Result{Errors: []string{"event is nil"}}
	}

	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if e.SchemaVersion == "" {
		fail("schema_version is empty")
	}
	if e.EventID == "" {
		fail("event_id is empty")
	}
	if !e.EventType.Valid() {
		fail("event_type %q is not in the taxonomy", e.EventType)
	}
	if e.FrameConfidence < 0 || e.FrameConfidence > 1 {
		fail("frame_confidence %.3f out of range", e.FrameConfidence)
	}

	filtered := e.EventType == model.EventFiltered
	if len(e.Entities) == 0 && !filtered {
		fail("no entities on a %s event", e.EventType)
	}
	if e.Subject != nil && !e.HasEntity(*e.Subject) {
		fail("subject %q missing from entities", *e.Subject)
	}
	if e.Object != nil && !e.HasEntity(*e.Object) {
		fail("object %q missing from entities", *e.Object)
	}

	wantFallback := e.FrameConfidence < 0.8 || e.EventType == model.EventOther || filtered
	if e.Extraction.FallbackUsed != wantFallback {
		fail("fallback_used=%v inconsistent with confidence %.2f and type %s",
			e.Extraction.FallbackUsed, e.FrameConfidence, e.EventType)
	}

	switch e.Extraction.Decision {
	case model.DecisionAccept:
	case model.DecisionReject:
		if e.Extraction.RejectReason == "" {
			fail("REJECT without reject_reason")
		}
	default:
		fail("decision %q is not ACCEPT or REJECT", e.Extraction.Decision)
	}

	if e.Extraction.GraphSafe && (filtered || e.FrameConfidence < 0.7 || len(e.Entities) == 0) {
		fail("graph_safe set on an event that fails the graph gate")
	}
	if filtered && e.Extraction.FilteredReason == "" {
		fail("FILTERED without filtered_reason")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
