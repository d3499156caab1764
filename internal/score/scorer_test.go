package score

import (
	"testing"

	"github.com/ppiankov/capevent/internal/model"
)

func entity(name string, known bool) model.Entity {
	return model.Entity{Name: name, Role: model.RoleSubject, Provenance: model.ProvenanceFrame, Confidence: 0.9, OntologyKnown: known}
}

func allValid(string) bool { return true }

func TestScorer_Evaluate_Decision(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		desc     string
		in       GateInput
		decision model.Decision
		reason   string
	}{
		{
			desc:     "Topic headline without entities is rejected",
			in:       GateInput{EventType: model.EventFiltered, TopicFlagged: true},
			decision: model.DecisionReject,
			reason:   RejectTopicWithoutEntities,
		},
		{
			desc: "Topic headline with entities is kept",
			in: GateInput{
				EventType:    model.EventFiltered,
				TopicFlagged: true,
				Entities:     []model.Entity{entity("Stripe", false)},
			},
			decision: model.DecisionAccept,
		},
		{
			desc:     "Non-topic headline without entities is kept",
			in:       GateInput{EventType: model.EventFiltered},
			decision: model.DecisionAccept,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			g := scorer.Evaluate(tt.in)
			if g.Decision != tt.decision {
				t.Errorf("Expected decision %s, got %s", tt.decision, g.Decision)
			}
			if g.RejectReason != tt.reason {
				t.Errorf("Expected reject reason %q, got %q", tt.reason, g.RejectReason)
			}
		})
	}
}

func TestScorer_Evaluate_GraphSafe(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		desc      string
		in        GateInput
		graphSafe bool
		reason    string
	}{
		{
			desc: "Confident frame with valid entity",
			in: GateInput{
				EventType: model.EventMerger, Confidence: 0.9,
				Entities: []model.Entity{entity("Barrick Gold", false)}, EntityValid: allValid,
			},
			graphSafe: true,
		},
		{
			desc: "Threshold is inclusive",
			in: GateInput{
				EventType: model.EventLaunch, Confidence: 0.7,
				Entities: []model.Entity{entity("Acme Robotics", true)},
			},
			graphSafe: true,
		},
		{
			desc:   "Filtered is never safe",
			in:     GateInput{EventType: model.EventFiltered, Confidence: 0.9, Entities: []model.Entity{entity("Acme", true)}},
			reason: UnsafeFiltered,
		},
		{
			desc:   "Low confidence",
			in:     GateInput{EventType: model.EventOther, Confidence: 0.5, Entities: []model.Entity{entity("Acme", true)}},
			reason: UnsafeLowConfidence,
		},
		{
			desc:   "No entities",
			in:     GateInput{EventType: model.EventFunding, Confidence: 0.9},
			reason: UnsafeNoEntities,
		},
		{
			desc: "Entities neither known nor valid",
			in: GateInput{
				EventType: model.EventFunding, Confidence: 0.9,
				Entities:    []model.Entity{entity("Acme", false)},
				EntityValid: func(string) bool { return false },
			},
			reason: UnsafeNoTrustedEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			g := scorer.Evaluate(tt.in)
			if g.GraphSafe != tt.graphSafe {
				t.Errorf("Expected graphSafe %v, got %v", tt.graphSafe, g.GraphSafe)
			}
			if g.GraphUnsafeReason != tt.reason {
				t.Errorf("Expected reason %q, got %q", tt.reason, g.GraphUnsafeReason)
			}
		})
	}
}

func TestScorer_Evaluate_FallbackUsed(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		eventType  model.EventType
		confidence float64
		expected   bool
	}{
		{model.EventFunding, 0.9, false},
		{model.EventFunding, 0.8, false},
		{model.EventFunding, 0.79, true},
		{model.EventOther, 0.95, true},
		{model.EventFiltered, 0.95, true},
		{model.EventLaunch, 0.75, true},
	}

	for _, tt := range tests {
		g := scorer.Evaluate(GateInput{EventType: tt.eventType, Confidence: tt.confidence})
		if g.FallbackUsed != tt.expected {
			t.Errorf("Expected fallbackUsed %v for %s@%.2f, got %v", tt.expected, tt.eventType, tt.confidence, g.FallbackUsed)
		}
	}
}
