package ft6206

import "testing"

func TestGestureString(t *testing.T) {
	tests := []struct {
		id   Gesture
		want string
	}{
		{0x00, "None"},
		{0x10, "Move Up"},
		{0x14, "Move Right"},
		{0x18, "Move Down"},
		{0x1c, "Move Left"},
		{0x48, "Zoom In"},
		{0x49, "Zoom Out"},
		{0x99, "None"},
		{0x11, "None"},
	}
	for _, test := range tests {
		if got := test.id.String(); got != test.want {
			t.Errorf("Gesture(%#02x).String() = %q, want %q", uint8(test.id), got, test.want)
		}
	}
}
