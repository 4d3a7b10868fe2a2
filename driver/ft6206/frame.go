package ft6206

import "fmt"

// Event is the 2-bit event flag reported for a touch slot.
type Event uint8

const (
	PressDown Event = iota
	LiftUp
	Contact
	NoEvent
)

func (e Event) String() string {
	switch e {
	case PressDown:
		return "down"
	case LiftUp:
		return "up"
	case Contact:
		return "contact"
	case NoEvent:
		return "none"
	default:
		return fmt.Sprintf("Event(%d)", uint8(e))
	}
}

// Active reports whether the event describes a finger on the panel.
func (e Event) Active() bool {
	return e == PressDown || e == Contact
}

// TouchPoint is one finger's state. X and Y are raw 12-bit
// coordinates when returned from DecodeFrame and screen
// coordinates when returned from a Device.
type TouchPoint struct {
	State Event
	// ID is the finger slot reported by the controller. It is
	// independent of the point's index in a Frame.
	ID uint8
	X  int
	Y  int
	// Z is the touch weight.
	Z uint8
}

// Frame is a decoded register snapshot. Points and Areas beyond
// Touches hold stale data and must not be treated as active.
type Frame struct {
	Touches int
	Gesture Gesture
	Points  [MaxPoints]TouchPoint
	Areas   [MaxPoints]uint8
}

// ActivePoints returns the points within the reported touch count.
func (f *Frame) ActivePoints() []TouchPoint {
	return f.Points[:f.Touches]
}

// ClampTouches converts a raw TD_STATUS value to a touch count. Only
// 0, 1 and 2 are valid; everything else counts as no touches.
func ClampTouches(v uint8) int {
	if v > MaxPoints {
		return 0
	}
	return int(v)
}

// ClampInterruptMode forces modes above InterruptTrigger to
// InterruptTrigger.
func ClampInterruptMode(mode uint8) uint8 {
	if mode > InterruptTrigger {
		return InterruptTrigger
	}
	return mode
}

// DecodeFrame decodes a full register snapshot starting at DEV_MODE.
// regs must hold at least FrameSize bytes.
func DecodeFrame(regs []byte) Frame {
	regs = regs[:FrameSize]
	f := Frame{
		Touches: ClampTouches(regs[regTD_STATUS]),
		Gesture: Gesture(regs[regGEST_ID]),
	}
	for i := range MaxPoints {
		start := slotReg(i)
		f.Points[i], f.Areas[i] = DecodeSlot(regs[start : start+slotSize])
	}
	return f
}

// DecodeSlot decodes one 6 byte slot record.
func DecodeSlot(rec []byte) (TouchPoint, uint8) {
	rec = rec[:slotSize]
	p := TouchPoint{
		// Event flag is XH[7:6].
		State: Event(rec[0] >> 6),
		// X is XH[3:0] and XL[7:0].
		X: int(rec[0]&0x0f)<<8 | int(rec[1]),
		// Touch ID is YH[7:4].
		ID: rec[2] >> 4,
		// Y is YH[3:0] and YL[7:0].
		Y: int(rec[2]&0x0f)<<8 | int(rec[3]),
		Z: rec[4],
	}
	// Area is MISC[7:4].
	return p, rec[5] >> 4
}
