package capture

import (
	"time"

	"focaltouch.dev/driver/ft6206"
)

// Tap is a transport that records every complete full-frame read of
// the transport it wraps.
type Tap struct {
	t   ft6206.Transport
	w   *Writer
	now func() time.Time
	err error
	n   int
}

func NewTap(t ft6206.Transport, w *Writer) *Tap {
	return &Tap{t: t, w: w, now: time.Now}
}

func (t *Tap) ReadRegisters(start uint8, dst []byte) (int, error) {
	n, err := t.t.ReadRegisters(start, dst)
	if err == nil && start == 0 && n >= ft6206.FrameSize && t.err == nil {
		s := Sample{
			Time: t.now().UnixNano(),
			Regs: append([]byte(nil), dst[:ft6206.FrameSize]...),
		}
		if t.err = t.w.Write(s); t.err == nil {
			t.n++
		}
	}
	return n, err
}

func (t *Tap) WriteRegister(reg, val uint8) error {
	return t.t.WriteRegister(reg, val)
}

// Samples returns the number of recorded samples.
func (t *Tap) Samples() int {
	return t.n
}

// Err returns the first error from writing a sample. Recording stops
// after an error.
func (t *Tap) Err() error {
	return t.err
}
