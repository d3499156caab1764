package score

import (
	"strings"

	"github.com/ppiankov/capevent/internal/model"
)

// patternEventTypes maps pattern-id substrings to event types.
// Order matters: "merge" wins over "partner", "acqui" over "invest".
var patternEventTypes = []struct {
	substr    string
	eventType model.EventType
}{
	{"merge", model.EventMerger},
	{"acqui", model.EventAcquisition},
	{"ipo", model.EventIPOFiling},
	{"contract", model.EventContract},
	{"partner", model.EventPartnership},
	{"invest", model.EventInvestment},
	{"fund", model.EventFunding},
	{"valu", model.EventValuation},
	{"launch", model.EventLaunch},
}

// MapEventType derives the event type from the frame shape and pattern id
func MapEventType(frameType model.FrameType, patternID string) model.EventType {
	switch frameType {
	case model.FrameExecEvent:
		return model.EventExecChange
	case model.FrameUnknown, "":
		return model.EventOther
	}

	id := strings.ToLower(patternID)
	for _, m := range patternEventTypes {
		if strings.Contains(id, m.substr) {
			return m.eventType
		}
	}
	return model.EventOther
}

// weights ranks event types by capital-graph relevance
var weights = map[model.EventType]float64{
	model.EventFunding:     1.0,
	model.EventInvestment:  0.9,
	model.EventAcquisition: 0.9,
	model.EventMerger:      0.85,
	model.EventIPOFiling:   0.85,
	model.EventValuation:   0.7,
	model.EventContract:    0.6,
	model.EventPartnership: 0.6,
	model.EventLaunch:      0.5,
	model.EventExecChange:  0.4,
	model.EventOther:       0.2,
	model.EventFiltered:    0.0,
}

// Weight returns the relevance weight of t; unknown types weigh 0
func Weight(t model.EventType) float64 {
	return weights[t]
}

// FrameTypeFor picks a frame shape for an event type supplied without a frame
func FrameTypeFor(t model.EventType) model.FrameType {
	switch t {
	case model.EventMerger, model.EventPartnership:
		return model.FrameBidirectional
	case model.EventAcquisition, model.EventInvestment, model.EventContract:
		return model.FrameDirectional
	case model.EventExecChange:
		return model.FrameExecEvent
	case model.EventOther, model.EventFiltered:
		return model.FrameUnknown
	default:
		return model.FrameSelfEvent
	}
}
