package model

// FrameType is the classified shape of a headline
type FrameType string

const (
	FrameBidirectional FrameType = "BIDIRECTIONAL" // A <verb> with B
	FrameDirectional   FrameType = "DIRECTIONAL"   // A <verb> B
	FrameSelfEvent     FrameType = "SELF_EVENT"    // A <verb>
	FrameExecEvent     FrameType = "EXEC_EVENT"    // A names Person as Role
	FrameUnknown       FrameType = "UNKNOWN"
)

// Slots holds raw slot strings produced by the matcher
type Slots struct {
	Subject  *string
	Object   *string
	Tertiary *string
	Person   *string
}

// Frame is the ephemeral matcher result for one headline
type Frame struct {
	FrameType  FrameType
	PatternID  string
	VerbLabel  string
	Slots      Slots
	Confidence float64
	Notes      []string

	// VerbStart and VerbEnd bound the matched verb span in the title
	VerbStart int
	VerbEnd   int

	// TertiaryRole is CHANNEL for "through X", COUNTERPARTY otherwise
	TertiaryRole EntityRole
}

// UnknownFrame returns the frame used when nothing matched
func UnknownFrame() Frame {
	return Frame{
		FrameType:  FrameUnknown,
		Confidence: 0,
		VerbStart:  -1,
		VerbEnd:    -1,
	}
}

// Matched reports whether a pattern produced this frame
func (f Frame) Matched() bool {
	return f.FrameType != FrameUnknown && f.PatternID != ""
}
