// Package capture records raw touch controller register frames to a
// CBOR stream and replays them as a register transport.
package capture

import (
	"errors"
	"fmt"
	"io"
	"time"

	"focaltouch.dev/driver/ft6206"
	"github.com/fxamacker/cbor/v2"
)

const version = 1

// Header describes the panel a capture was recorded from.
type Header struct {
	_        struct{} `cbor:",toarray"`
	Version  int
	Width    int
	Height   int
	Rotation int
}

// Sample is one full register frame.
type Sample struct {
	_ struct{} `cbor:",toarray"`
	// Time is the capture time in nanoseconds since the Unix epoch.
	Time int64
	Regs []byte
}

// Timestamp returns the capture time of the sample.
func (s Sample) Timestamp() time.Time {
	return time.Unix(0, s.Time)
}

// Frame decodes the sample. The points are in raw coordinates.
func (s Sample) Frame() ft6206.Frame {
	return ft6206.DecodeFrame(s.Regs)
}

type Writer struct {
	enc *cbor.Encoder
}

// NewWriter writes the capture header to w and returns a Writer for
// the samples.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	enc := mode.NewEncoder(w)
	h.Version = version
	if err := enc.Encode(h); err != nil {
		return nil, fmt.Errorf("capture: header: %w", err)
	}
	return &Writer{enc: enc}, nil
}

func (w *Writer) Write(s Sample) error {
	if len(s.Regs) != ft6206.FrameSize {
		return fmt.Errorf("capture: sample of %d bytes", len(s.Regs))
	}
	if err := w.enc.Encode(s); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	return nil
}

type Reader struct {
	Header Header
	dec    *cbor.Decoder
}

// NewReader reads the capture header from r.
func NewReader(r io.Reader) (*Reader, error) {
	mode, err := cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	rd := &Reader{dec: mode.NewDecoder(r)}
	if err := rd.dec.Decode(&rd.Header); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("capture: header: %w", err)
	}
	if v := rd.Header.Version; v != version {
		return nil, fmt.Errorf("capture: unsupported version %d", v)
	}
	return rd, nil
}

// Next returns the next sample, or io.EOF at the end of the capture.
func (r *Reader) Next() (Sample, error) {
	var s Sample
	if err := r.dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Sample{}, io.EOF
		}
		return Sample{}, fmt.Errorf("capture: %w", err)
	}
	if len(s.Regs) != ft6206.FrameSize {
		return Sample{}, fmt.Errorf("capture: sample of %d bytes", len(s.Regs))
	}
	return s, nil
}

// ReadAll reads every remaining sample.
func (r *Reader) ReadAll() ([]Sample, error) {
	var samples []Sample
	for {
		s, err := r.Next()
		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return samples, err
		}
		samples = append(samples, s)
	}
}
