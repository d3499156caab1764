package pipeline

import (
	"fmt"

	"github.com/ppiankov/capevent/internal/llm"
	"github.com/ppiankov/capevent/internal/model"
	"github.com/ppiankov/capevent/internal/score"
)

// Overlay thresholds
const (
	overlayMinConfidence     = 0.6
	overlayFrameTrustBelow   = 0.7
	overlayFundingConfidence = 0.75
)

// OverlayState is the rule-based result the overlay may refine
type OverlayState struct {
	FrameType  model.FrameType
	EventType  model.EventType
	Confidence float64
	Subject    *string
}

// OverlayResult is the merged outcome. When Applied is false the state is
// returned unchanged and Notes explain why.
type OverlayResult struct {
	Applied      bool
	FrameType    model.FrameType
	EventType    model.EventType
	Confidence   float64
	Subject      *string
	SubjectAdded bool
	Notes        []string
}

// DecideOverlay merges a classifier verdict into the rule-based state.
// Slots are never cleared and confidence is never lowered; the verdict's
// subject only fills an empty subject and only when accept admits it.
func DecideOverlay(state OverlayState, name string, v *llm.Verdict, accept func(string) bool) OverlayResult {
	res := OverlayResult{
		FrameType:  state.FrameType,
		EventType:  state.EventType,
		Confidence: state.Confidence,
		Subject:    state.Subject,
	}
	if v == nil {
		return res
	}

	ignore := func(reason string) OverlayResult {
		res.Notes = append(res.Notes, fmt.Sprintf("overlay_ignored:%s:%s", name, reason))
		return res
	}

	if !v.Type.Valid() || v.Type == model.EventFiltered {
		return ignore("invalid_type")
	}
	if v.Confidence < overlayMinConfidence {
		return ignore("low_confidence")
	}

	eligible := state.FrameType == model.FrameUnknown ||
		state.Confidence < overlayFrameTrustBelow ||
		(fundingLike(state.EventType) && fundingLike(v.Type) && v.Confidence > overlayFundingConfidence)
	if !eligible {
		return ignore("frame_confident")
	}

	res.Applied = true
	res.EventType = v.Type
	if v.Confidence > res.Confidence {
		res.Confidence = v.Confidence
	}
	if state.FrameType == model.FrameUnknown {
		res.FrameType = score.FrameTypeFor(v.Type)
	}
	if state.Subject == nil && v.Name != "" && accept != nil && accept(v.Name) {
		subject := v.Name
		res.Subject = &subject
		res.SubjectAdded = true
	}

	res.Notes = append(res.Notes, fmt.Sprintf("overlay:%s:%s@%.2f", name, v.Type, v.Confidence))
	return res
}

func fundingLike(t model.EventType) bool {
	return t == model.EventFunding || t == model.EventInvestment
}
