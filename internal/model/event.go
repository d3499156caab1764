package model

import "strings"

// SchemaVersion identifies the CapitalEvent wire format
const SchemaVersion = "capital_event.v1"

// EngineVersion identifies the extraction rules that produced an event
const EngineVersion = "0.1.0"

// CapitalEvent is the durable output record for one headline.
// It is built once by the pipeline and never mutated afterwards.
type CapitalEvent struct {
	SchemaVersion   string             `json:"schema_version"`
	EngineVersion   string             `json:"engine_version"`
	EventID         string             `json:"event_id"`              // Derived from publisher + url only
	OccurredAt      *string            `json:"occurred_at"`           // RFC 3339, from published_at when parseable
	Source          Source             `json:"source"`                // Where the headline came from
	EventType       EventType          `json:"event_type"`            // Closed taxonomy, never empty
	Verb            string             `json:"verb"`                  // Verb label of the matched pattern
	FrameType       FrameType          `json:"frame_type"`            // Shape of the matched frame
	FrameConfidence float64            `json:"frame_confidence"`      // 0..1
	Subject         *string            `json:"subject"`               // Must appear in Entities
	Object          *string            `json:"object"`                // Must appear in Entities
	Tertiary        *string            `json:"tertiary"`              // Counterparty or channel
	Entities        []Entity           `json:"entities"`              // Non-empty unless FILTERED
	SemanticContext []SemanticEvidence `json:"semantic_context,omitempty"`
	Amount          *Amount            `json:"amount,omitempty"`
	Round           *string            `json:"round,omitempty"`
	Notes           []string           `json:"notes"`      // Transformation and gate annotations
	Extraction      Extraction         `json:"extraction"` // Decision gates
}

// Source describes the headline origin
type Source struct {
	Publisher   string  `json:"publisher"`
	URL         string  `json:"url"`
	Title       string  `json:"title"` // Raw title as received
	PublishedAt *string `json:"published_at,omitempty"`
	Authority   string  `json:"authority,omitempty"` // primary, secondary, tertiary
}

// Extraction holds the pattern provenance and the decision gates
type Extraction struct {
	PatternID      string   `json:"pattern_id,omitempty"`
	FilteredReason string   `json:"filtered_reason,omitempty"`
	FallbackUsed   bool     `json:"fallback_used"`
	Decision       Decision `json:"decision"`
	GraphSafe      bool     `json:"graph_safe"`
	RejectReason   string   `json:"reject_reason,omitempty"`
	OverlayUsed    bool     `json:"overlay_used,omitempty"` // Inference overlay changed the result
}

// EventType is the closed taxonomy of business events
type EventType string

const (
	EventFunding     EventType = "FUNDING"
	EventInvestment  EventType = "INVESTMENT"
	EventAcquisition EventType = "ACQUISITION"
	EventMerger      EventType = "MERGER"
	EventPartnership EventType = "PARTNERSHIP"
	EventLaunch      EventType = "LAUNCH"
	EventIPOFiling   EventType = "IPO_FILING"
	EventValuation   EventType = "VALUATION"
	EventExecChange  EventType = "EXEC_CHANGE"
	EventContract    EventType = "CONTRACT"
	EventOther       EventType = "OTHER"
	EventFiltered    EventType = "FILTERED"
)

// EventTypes lists the taxonomy in canonical order
var EventTypes = []EventType{
	EventFunding, EventInvestment, EventAcquisition, EventMerger,
	EventPartnership, EventLaunch, EventIPOFiling, EventValuation,
	EventExecChange, EventContract, EventOther, EventFiltered,
}

// Valid reports whether t is a taxonomy member
func (t EventType) Valid() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseEventType parses a taxonomy name case-insensitively.
// Separators are normalized so "ipo filing" and "ipo-filing" both resolve.
func ParseEventType(s string) (EventType, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	t := EventType(s)
	return t, t.Valid()
}

// Decision is the store/discard verdict
type Decision string

const (
	DecisionAccept Decision = "ACCEPT"
	DecisionReject Decision = "REJECT"
)

// EntityRole is the position an entity holds in the event
type EntityRole string

const (
	RoleSubject      EntityRole = "SUBJECT"
	RoleObject       EntityRole = "OBJECT"
	RoleCounterparty EntityRole = "COUNTERPARTY"
	RoleChannel      EntityRole = "CHANNEL"
)

// Provenance tags how an entity was found
type Provenance string

const (
	ProvenanceFrame     Provenance = "frame"
	ProvenanceHeuristic Provenance = "heuristic"
	ProvenanceOverlay   Provenance = "overlay"
)

// Entity is a validated organization name with its role
type Entity struct {
	Name          string     `json:"name"`
	Role          EntityRole `json:"role"`
	Provenance    Provenance `json:"provenance"`
	Confidence    float64    `json:"confidence"`
	OntologyKnown bool       `json:"ontology_known,omitempty"`
}

// Magnitude is the scale suffix of an amount
type Magnitude string

const (
	MagnitudeK Magnitude = "K"
	MagnitudeM Magnitude = "M"
	MagnitudeB Magnitude = "B"
)

// Multiplier returns the numeric factor for the magnitude
func (m Magnitude) Multiplier() float64 {
	switch m {
	case MagnitudeK:
		return 1e3
	case MagnitudeM:
		return 1e6
	case MagnitudeB:
		return 1e9
	default:
		return 1
	}
}

// Amount is a monetary amount mentioned in the headline
type Amount struct {
	Raw       string    `json:"raw"`      // Matched text span
	Currency  string    `json:"currency"` // ISO-like code
	Value     float64   `json:"value"`    // In units of Magnitude
	Magnitude Magnitude `json:"magnitude"`
	USDValue  *float64  `json:"usd_value,omitempty"` // Absolute USD, when an FX rate is known
}

// SemanticKind classifies a piece of semantic evidence
type SemanticKind string

const (
	SemanticAchievement   SemanticKind = "achievement"
	SemanticProblemSolved SemanticKind = "problem_solved"
	SemanticMilestone     SemanticKind = "milestone"
	SemanticRelationship  SemanticKind = "relationship"
)

// SemanticEvidence is a secondary phrase found after the verb
type SemanticEvidence struct {
	Kind       SemanticKind `json:"kind"`
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
}

// EntityNames returns the entity names in order
func (e *CapitalEvent) EntityNames() []string {
	names := make([]string, 0, len(e.Entities))
	for _, ent := range e.Entities {
		names = append(names, ent.Name)
	}
	return names
}

// HasEntity reports whether name is one of the event entities
func (e *CapitalEvent) HasEntity(name string) bool {
	for _, ent := range e.Entities {
		if ent.Name == name {
			return true
		}
	}
	return false
}
