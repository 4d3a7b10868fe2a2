package ft6206

import (
	"fmt"
	"image"
)

// Rotation is a panel orientation in quarter turns.
type Rotation uint8

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// NormalizeRotation maps any number of quarter turns to a Rotation.
func NormalizeRotation(r int) Rotation {
	return Rotation((r%4 + 4) % 4)
}

func (r Rotation) String() string {
	if r > Rotate270 {
		return fmt.Sprintf("Rotation(%d)", uint8(r))
	}
	return fmt.Sprintf("%d°", int(r)*90)
}

// Swapped reports whether the rotation exchanges the panel axes.
func (r Rotation) Swapped() bool {
	return r&1 == 1
}

// Size returns the screen dimensions of a panel with the native
// dimensions under rotation r.
func (r Rotation) Size(native image.Point) image.Point {
	if r.Swapped() {
		return image.Pt(native.Y, native.X)
	}
	return native
}

// Rotate maps a raw controller coordinate to screen space. size must
// be the rotated screen size, as returned by Rotation.Size. The result
// is clamped to [0, size] on both axes, so coordinates reported beyond
// the panel edge land on it.
func Rotate(p image.Point, r Rotation, size image.Point) image.Point {
	var q image.Point
	switch r {
	case Rotate90:
		q = image.Pt(p.Y, size.Y-p.X)
	case Rotate180:
		q = image.Pt(size.X-p.X, size.Y-p.Y)
	case Rotate270:
		q = image.Pt(size.X-p.Y, p.X)
	default:
		q = p
	}
	return image.Pt(clamp(q.X, size.X), clamp(q.Y, size.Y))
}

func clamp(v, dim int) int {
	return min(max(v, 0), dim)
}
