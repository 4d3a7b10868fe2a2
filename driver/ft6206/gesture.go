package ft6206

// Gesture is the raw value of the GEST_ID register.
type Gesture uint8

const (
	GestureNone      Gesture = 0x00
	GestureMoveUp    Gesture = 0x10
	GestureMoveRight Gesture = 0x14
	GestureMoveDown  Gesture = 0x18
	GestureMoveLeft  Gesture = 0x1c
	GestureZoomIn    Gesture = 0x48
	GestureZoomOut   Gesture = 0x49
)

var gestureNames = map[Gesture]string{
	GestureMoveUp:    "Move Up",
	GestureMoveRight: "Move Right",
	GestureMoveDown:  "Move Down",
	GestureMoveLeft:  "Move Left",
	GestureZoomIn:    "Zoom In",
	GestureZoomOut:   "Zoom Out",
}

// String returns the gesture name, or "None" for unknown values.
func (g Gesture) String() string {
	if n, ok := gestureNames[g]; ok {
		return n
	}
	return "None"
}

// GestureParams holds the gesture recognition thresholds.
type GestureParams struct {
	// MinAngle is the minimum allowed angle while rotating.
	MinAngle uint8
	// OffsetLeftRight and OffsetUpDown are the maximum offsets while
	// moving horizontally and vertically.
	OffsetLeftRight uint8
	OffsetUpDown    uint8
	// Minimum distances for move and zoom gestures.
	DistanceLeftRight uint8
	DistanceUpDown    uint8
	DistanceZoom      uint8
}
