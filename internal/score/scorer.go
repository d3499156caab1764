package score

import (
	"github.com/ppiankov/capevent/internal/model"
)

// Gate thresholds
const (
	GraphSafeMinConfidence = 0.7
	FallbackMaxConfidence  = 0.8
)

// Graph-unsafe reasons
const (
	UnsafeFiltered        = "filtered"
	UnsafeLowConfidence   = "low_confidence"
	UnsafeNoEntities      = "no_entities"
	UnsafeNoTrustedEntity = "no_trusted_entity"
)

// RejectTopicWithoutEntities is the only reject reason the gates produce
const RejectTopicWithoutEntities = "topic_headline_without_entities"

// GateInput is what the scorer needs to decide the gates
type GateInput struct {
	EventType    model.EventType
	Confidence   float64
	Entities     []model.Entity
	TopicFlagged bool

	// EntityValid re-checks an entity name independently of the frame.
	// Nil treats every entity as untrusted unless ontology-known.
	EntityValid func(name string) bool
}

// Gates is the decision block attached to every event
type Gates struct {
	Decision          model.Decision
	RejectReason      string
	GraphSafe         bool
	GraphUnsafeReason string
	FallbackUsed      bool
}

// Scorer evaluates the decision gates for an assembled event
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Evaluate computes decision, graph safety and the fallback flag
func (s *Scorer) Evaluate(in GateInput) Gates {
	var g Gates

	// 1. Store or discard
	g.Decision = model.DecisionAccept
	if in.TopicFlagged && len(in.Entities) == 0 {
		g.Decision = model.DecisionReject
		g.RejectReason = RejectTopicWithoutEntities
	}

	// 2. Safe to write into the relationship graph
	g.GraphUnsafeReason = s.graphUnsafeReason(in)
	g.GraphSafe = g.GraphUnsafeReason == ""

	// 3. Low-confidence marker
	g.FallbackUsed = in.Confidence < FallbackMaxConfidence ||
		in.EventType == model.EventOther ||
		in.EventType == model.EventFiltered

	return g
}

func (s *Scorer) graphUnsafeReason(in GateInput) string {
	switch {
	case in.EventType == model.EventFiltered:
		return UnsafeFiltered
	case in.Confidence < GraphSafeMinConfidence:
		return UnsafeLowConfidence
	case len(in.Entities) == 0:
		return UnsafeNoEntities
	}

	for _, e := range in.Entities {
		if e.OntologyKnown {
			return ""
		}
		if in.EntityValid != nil && in.EntityValid(e.Name) {
			return ""
		}
	}
	return UnsafeNoTrustedEntity
}
