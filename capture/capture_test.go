package capture

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"focaltouch.dev/driver/ft6206"
	"github.com/google/go-cmp/cmp"
)

// frame returns a register frame with one contact at (x, y).
func frame(x, y int) []byte {
	regs := make([]byte, ft6206.FrameSize)
	regs[regTDStatus] = 1
	regs[3] = 0x80 | byte(x>>8)&0x0f
	regs[4] = byte(x)
	regs[5] = byte(y>>8) & 0x0f
	regs[6] = byte(y)
	return regs
}

func record(t *testing.T, h Header, frames ...[]byte) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w, err := NewWriter(buf, h)
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range frames {
		if err := w.Write(Sample{Time: int64(i) * int64(time.Millisecond), Regs: f}); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	h := Header{Width: 240, Height: 320, Rotation: 1}
	frames := [][]byte{frame(1, 2), frame(300, 400), frame(4095, 0)}
	data := record(t, h, frames...)

	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	h.Version = version
	if diff := cmp.Diff(h, r.Header, cmp.AllowUnexported(Header{})); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	samples, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != len(frames) {
		t.Fatalf("read %d samples, want %d", len(samples), len(frames))
	}
	for i, s := range samples {
		if !bytes.Equal(s.Regs, frames[i]) {
			t.Errorf("sample %d: %x, want %x", i, s.Regs, frames[i])
		}
		if got := s.Timestamp(); !got.Equal(time.Unix(0, int64(i)*int64(time.Millisecond))) {
			t.Errorf("sample %d: time %v", i, got)
		}
	}
	if p := samples[1].Frame().Points[0]; p.X != 300 || p.Y != 400 {
		t.Errorf("sample 1 decoded to %+v", p)
	}
}

func TestReaderErrors(t *testing.T) {
	if _, err := NewReader(bytes.NewReader(nil)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("empty capture: %v", err)
	}
	data := record(t, Header{})
	// Patch the version in the first array element.
	bad := bytes.Clone(data)
	bad[1] = 0x02
	if _, err := NewReader(bytes.NewReader(bad)); err == nil {
		t.Error("unsupported version accepted")
	}

	w, err := NewWriter(io.Discard, Header{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(Sample{Regs: []byte{1, 2, 3}}); err == nil {
		t.Error("short sample accepted")
	}
}

type fakeTransport struct {
	regs [256]byte
	err  error
}

func (f *fakeTransport) ReadRegisters(start uint8, dst []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return copy(dst, f.regs[start:]), nil
}

func (f *fakeTransport) WriteRegister(reg, val uint8) error {
	f.regs[reg] = val
	return nil
}

func TestTap(t *testing.T) {
	buf := new(bytes.Buffer)
	w, err := NewWriter(buf, Header{Width: 240, Height: 320})
	if err != nil {
		t.Fatal(err)
	}
	ft := new(fakeTransport)
	copy(ft.regs[:], frame(10, 20))
	tap := NewTap(ft, w)
	now := time.Unix(100, 0)
	tap.now = func() time.Time { return now }

	d := ft6206.New(tap, ft6206.Config{Width: 240, Height: 320})
	if _, err := d.ReadFrame(); err != nil {
		t.Fatal(err)
	}
	// Partial reads are not recorded.
	if _, err := d.Touches(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.SinglePoint(0); err != nil {
		t.Fatal(err)
	}
	ft.err = errors.New("nack")
	d.ReadFrame()
	ft.err = nil
	copy(ft.regs[:], frame(30, 40))
	if _, err := d.ReadFrame(); err != nil {
		t.Fatal(err)
	}
	if err := tap.Err(); err != nil {
		t.Fatal(err)
	}
	if n := tap.Samples(); n != 2 {
		t.Errorf("recorded %d samples, want 2", n)
	}

	r, err := NewReader(buf)
	if err != nil {
		t.Fatal(err)
	}
	samples, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := []Sample{
		{Time: now.UnixNano(), Regs: frame(10, 20)},
		{Time: now.UnixNano(), Regs: frame(30, 40)},
	}
	if diff := cmp.Diff(want, samples, cmp.AllowUnexported(Sample{})); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestReplay(t *testing.T) {
	data := record(t, Header{Width: 240, Height: 320}, frame(10, 20), frame(30, 40))
	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	p := NewReplay(r)
	d := ft6206.New(p, ft6206.Config{Width: 240, Height: 320})
	if err := d.SetThreshold(60); err != nil {
		t.Fatal(err)
	}
	for i, want := range []ft6206.TouchPoint{
		{State: ft6206.Contact, X: 10, Y: 20},
		{State: ft6206.Contact, X: 30, Y: 40},
	} {
		got, err := d.Point(0)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("frame %d: %+v, want %+v", i, got, want)
		}
		// Single slot reads serve the current sample.
		single, err := d.SinglePoint(0)
		if err != nil {
			t.Fatal(err)
		}
		if single != want {
			t.Errorf("frame %d: single point %+v, want %+v", i, single, want)
		}
	}
	th, err := d.Threshold()
	if err != nil {
		t.Fatal(err)
	}
	if th != 60 {
		t.Errorf("threshold %d, want 60", th)
	}
	// The exhausted capture leaves the last frame in place.
	got, err := d.Point(0)
	if !errors.Is(err, io.EOF) {
		t.Errorf("exhausted replay: %v, want EOF", err)
	}
	if got.X != 30 || got.Y != 40 {
		t.Errorf("exhausted replay point %+v", got)
	}
	if n := p.Samples(); n != 2 {
		t.Errorf("served %d samples, want 2", n)
	}
}
