// Package trace renders captured touch tracks, for checking panel
// orientation and coverage by eye.
package trace

import (
	"image"
	"image/color"
	"image/draw"

	"focaltouch.dev/capture"
	"focaltouch.dev/driver/ft6206"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/math/fixed"
)

// Track is the path of one finger. A new stroke starts every time
// the finger is pressed down.
type Track struct {
	ID      uint8
	Strokes [][]image.Point
}

// Tracks extracts the finger tracks of a capture, rotated to screen
// space.
func Tracks(samples []capture.Sample, r ft6206.Rotation, native image.Point) []Track {
	size := r.Size(native)
	var tracks []Track
	index := make(map[uint8]int)
	open := make(map[uint8]bool)
	for _, s := range samples {
		f := s.Frame()
		seen := make(map[uint8]bool)
		for _, p := range f.ActivePoints() {
			if p.State == ft6206.NoEvent {
				continue
			}
			seen[p.ID] = true
			i, ok := index[p.ID]
			if !ok {
				i = len(tracks)
				index[p.ID] = i
				tracks = append(tracks, Track{ID: p.ID})
			}
			t := &tracks[i]
			if p.State == ft6206.PressDown || !open[p.ID] {
				t.Strokes = append(t.Strokes, nil)
			}
			pt := ft6206.Rotate(image.Pt(p.X, p.Y), r, size)
			last := len(t.Strokes) - 1
			t.Strokes[last] = append(t.Strokes[last], pt)
			open[p.ID] = p.State != ft6206.LiftUp
		}
		// Fingers missing from the frame have lifted.
		for id := range open {
			if !seen[id] {
				open[id] = false
			}
		}
	}
	return tracks
}

type Options struct {
	// Scale is the number of pixels per screen unit.
	Scale float32
	// StrokeWidth is in pixels.
	StrokeWidth float32
}

var palette = []color.Color{
	color.RGBA{R: 0xd0, A: 0xff},
	color.RGBA{B: 0xd0, A: 0xff},
	color.RGBA{G: 0x90, A: 0xff},
	color.RGBA{R: 0x90, B: 0x90, A: 0xff},
}

// Render draws tracks on a white image of the screen size.
func Render(tracks []Track, screen image.Point, opts Options) *image.RGBA {
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.StrokeWidth == 0 {
		opts.StrokeWidth = 3
	}
	dims := image.Pt(int(float32(screen.X)*opts.Scale), int(float32(screen.Y)*opts.Scale))
	img := image.NewRGBA(image.Rectangle{Max: dims})
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	for i, t := range tracks {
		r := newRasterizer(img, opts.Scale, opts.StrokeWidth, palette[i%len(palette)])
		for _, stroke := range t.Strokes {
			if len(stroke) == 0 {
				continue
			}
			r.Move(stroke[0])
			if len(stroke) == 1 {
				// Draw a dot.
				r.Line(stroke[0])
			}
			for _, p := range stroke[1:] {
				r.Line(p)
			}
		}
		r.Rasterize()
	}
	return img
}

type rasterizer struct {
	p       f32.Vec2
	started bool
	dasher  *rasterx.Dasher
	scale   float32
}

func newRasterizer(img draw.Image, scale, strokeWidth float32, c color.Color) *rasterizer {
	dims := img.Bounds().Size()
	scanner := rasterx.NewScannerGV(dims.X, dims.Y, img, img.Bounds())
	r := &rasterizer{
		dasher: rasterx.NewDasher(dims.X, dims.Y, scanner),
		scale:  scale,
	}
	stroke := strokeWidth * 64
	r.dasher.SetStroke(fixed.Int26_6(stroke), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
	r.dasher.SetColor(c)
	return r
}

func (r *rasterizer) toPixels(p image.Point) f32.Vec2 {
	return f32.Vec2{float32(p.X) * r.scale, float32(p.Y) * r.scale}
}

func (r *rasterizer) Line(p image.Point) {
	pf := r.toPixels(p)
	if !r.started {
		r.dasher.Start(rasterx.ToFixedP(float64(r.p[0]), float64(r.p[1])))
		r.started = true
	}
	r.dasher.Line(rasterx.ToFixedP(float64(pf[0]), float64(pf[1])))
}

func (r *rasterizer) Move(p image.Point) {
	if r.started {
		r.dasher.Stop(false)
		r.started = false
	}
	r.p = r.toPixels(p)
}

func (r *rasterizer) Rasterize() {
	if r.started {
		r.dasher.Stop(false)
	}
	r.dasher.Draw()
}
