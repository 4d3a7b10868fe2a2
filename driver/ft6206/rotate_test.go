package ft6206

import (
	"image"
	"testing"
)

func TestRotate(t *testing.T) {
	native := image.Pt(240, 320)
	raw := image.Pt(10, 20)
	tests := []struct {
		r    Rotation
		size image.Point
		want image.Point
	}{
		{Rotate0, image.Pt(240, 320), image.Pt(10, 20)},
		{Rotate90, image.Pt(320, 240), image.Pt(20, 230)},
		{Rotate180, image.Pt(240, 320), image.Pt(230, 300)},
		{Rotate270, image.Pt(320, 240), image.Pt(300, 10)},
	}
	for _, test := range tests {
		size := test.r.Size(native)
		if size != test.size {
			t.Errorf("%v: size %v, want %v", test.r, size, test.size)
		}
		if got := Rotate(raw, test.r, size); got != test.want {
			t.Errorf("Rotate(%v, %v, %v) = %v, want %v", raw, test.r, size, got, test.want)
		}
	}
}

func TestRotateRoundTrip(t *testing.T) {
	native := image.Pt(240, 320)
	for _, p := range []image.Point{{0, 0}, {10, 20}, {239, 319}, {120, 160}} {
		// Half turns are their own inverse.
		for _, r := range []Rotation{Rotate0, Rotate180} {
			size := r.Size(native)
			if got := Rotate(Rotate(p, r, size), r, size); got != p {
				t.Errorf("%v twice: %v -> %v", r, p, got)
			}
		}
		// A quarter turn followed by a three quarter turn on the
		// swapped dimensions.
		q := Rotate(p, Rotate90, Rotate90.Size(native))
		if got := Rotate(q, Rotate270, native); got != p {
			t.Errorf("90° then 270°: %v -> %v -> %v", p, q, got)
		}
	}
}

func TestRotateClamps(t *testing.T) {
	native := image.Pt(240, 320)
	tests := []struct {
		r    Rotation
		raw  image.Point
		want image.Point
	}{
		{Rotate0, image.Pt(4095, 4095), image.Pt(240, 320)},
		{Rotate0, image.Pt(4095, 10), image.Pt(240, 10)},
		{Rotate90, image.Pt(4095, 10), image.Pt(10, 0)},
		{Rotate90, image.Pt(10, 4095), image.Pt(320, 230)},
		{Rotate180, image.Pt(4095, 4095), image.Pt(0, 0)},
		{Rotate270, image.Pt(4095, 4095), image.Pt(0, 240)},
		{Rotate270, image.Pt(0, 0), image.Pt(320, 0)},
	}
	for _, test := range tests {
		size := test.r.Size(native)
		got := Rotate(test.raw, test.r, size)
		if got != test.want {
			t.Errorf("Rotate(%v, %v, %v) = %v, want %v", test.raw, test.r, size, got, test.want)
		}
		if !got.In(image.Rectangle{Max: size.Add(image.Pt(1, 1))}) {
			t.Errorf("Rotate(%v, %v, %v) = %v is outside the screen", test.raw, test.r, size, got)
		}
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		in   int
		want Rotation
	}{
		{0, Rotate0}, {1, Rotate90}, {3, Rotate270}, {4, Rotate0},
		{7, Rotate270}, {255, Rotate270}, {-1, Rotate270},
	}
	for _, test := range tests {
		if got := NormalizeRotation(test.in); got != test.want {
			t.Errorf("NormalizeRotation(%d) = %v, want %v", test.in, got, test.want)
		}
	}
}
