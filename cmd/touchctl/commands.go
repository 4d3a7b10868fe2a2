package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"
	"time"

	"focaltouch.dev/capture"
	"focaltouch.dev/driver/ft6206"
	"focaltouch.dev/trace"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const defaultInterval = 20 * time.Millisecond

func infoCmd(c *cli.Context) (err error) {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, s.Close()) }()
	d, err := s.device(s.t)
	if err != nil {
		return err
	}
	info, err := d.Info()
	if err != nil {
		return err
	}
	thres, err := d.Threshold()
	if err != nil {
		return err
	}
	active, err := d.ActiveScanRate()
	if err != nil {
		return err
	}
	monitor, err := d.MonitorScanRate()
	if err != nil {
		return err
	}
	mode, err := d.InterruptMode()
	if err != nil {
		return err
	}
	gp, err := d.GestureParams()
	if err != nil {
		return err
	}
	w := c.App.Writer
	fmt.Fprintf(w, "panel id:        %#02x\n", info.PanelID)
	fmt.Fprintf(w, "chip id:         %#02x\n", info.ChipID)
	fmt.Fprintf(w, "firmware:        %#02x\n", info.Firmware)
	fmt.Fprintf(w, "library:         %#04x\n", info.LibVersion)
	fmt.Fprintf(w, "release code:    %#02x\n", info.ReleaseCode)
	fmt.Fprintf(w, "power mode:      %d\n", info.PowerMode)
	fmt.Fprintf(w, "state:           %d\n", info.State)
	fmt.Fprintf(w, "threshold:       %d\n", thres)
	fmt.Fprintf(w, "active rate:     %d\n", active)
	fmt.Fprintf(w, "monitor rate:    %d\n", monitor)
	fmt.Fprintf(w, "interrupt mode:  %s\n", interruptName(mode))
	fmt.Fprintf(w, "size:            %dx%d (%v)\n", d.Width(), d.Height(), d.Rotation())
	fmt.Fprintf(w, "gesture params:  %+v\n", gp)
	return nil
}

func interruptName(mode uint8) string {
	if mode == ft6206.InterruptTrigger {
		return "trigger"
	}
	return "polling"
}

func setCmd(c *cli.Context) (err error) {
	settings := []struct {
		flag string
		set  func(d *ft6206.Device, v uint8) error
	}{
		{"threshold", (*ft6206.Device).SetThreshold},
		{"active-rate", (*ft6206.Device).SetActiveScanRate},
		{"monitor-rate", (*ft6206.Device).SetMonitorScanRate},
		{"interrupt-mode", (*ft6206.Device).SetInterruptMode},
	}
	given := false
	for _, st := range settings {
		if !c.IsSet(st.flag) {
			continue
		}
		if v := c.Uint(st.flag); v > 0xff {
			return fmt.Errorf("--%s: %d out of range", st.flag, v)
		}
		given = true
	}
	if !given {
		return errors.New("set: no settings given")
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, s.Close()) }()
	d, err := s.device(s.t)
	if err != nil {
		return err
	}
	for _, st := range settings {
		if !c.IsSet(st.flag) {
			continue
		}
		v := uint8(c.Uint(st.flag))
		if err := st.set(d, v); err != nil {
			return fmt.Errorf("%s: %w", st.flag, err)
		}
		s.log.Info("set", zap.String("setting", st.flag), zap.Uint8("value", v))
	}
	return nil
}

func monitorCmd(c *cli.Context) (err error) {
	single := c.Bool("single")
	record := c.String("record")
	if single && record != "" {
		return errors.New("monitor: --record requires full frames")
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, s.Close()) }()
	t := s.t
	var tap *capture.Tap
	if record != "" {
		f, err := os.Create(record)
		if err != nil {
			return err
		}
		s.closers = append(s.closers, f)
		cw, err := capture.NewWriter(f, capture.Header{
			Width:    s.panel.Width,
			Height:   s.panel.Height,
			Rotation: int(ft6206.NormalizeRotation(s.panel.Rotation)),
		})
		if err != nil {
			return err
		}
		tap = capture.NewTap(t, cw)
		t = tap
	}
	d, err := s.device(t)
	if err != nil {
		return err
	}
	interval := c.Duration("interval")
	if interval <= 0 {
		interval = defaultInterval
	}
	limit := c.Int("frames")
	ctx := c.Context
	var tick *time.Ticker
	if s.intr == nil {
		tick = time.NewTicker(interval)
		defer tick.Stop()
	}
	for n := 0; limit == 0 || n < limit; n++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick.C:
			}
		} else {
			if ctx.Err() != nil {
				return nil
			}
			touched, err := d.WaitForTouch(interval)
			if err != nil {
				return err
			}
			if !touched {
				n--
				continue
			}
		}
		if single {
			p, err := d.SinglePoint(0)
			if err != nil {
				s.log.Warn("read failed", zap.Error(err))
			}
			fmt.Fprintf(c.App.Writer, "%s\n", formatPoint(p))
		} else {
			f, err := d.ReadFrame()
			if err != nil {
				s.log.Warn("read failed", zap.Error(err))
			}
			fmt.Fprintln(c.App.Writer, formatFrame(f))
		}
		if tap != nil && tap.Err() != nil {
			return fmt.Errorf("record: %w", tap.Err())
		}
	}
	if tap != nil {
		s.log.Info("recorded", zap.String("file", record), zap.Int("samples", tap.Samples()))
	}
	return nil
}

func formatPoint(p ft6206.TouchPoint) string {
	return fmt.Sprintf("%d:%s(%d,%d) z=%d", p.ID, p.State, p.X, p.Y, p.Z)
}

func formatFrame(f ft6206.Frame) string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "touches=%d", f.Touches)
	if f.Gesture != ft6206.GestureNone {
		fmt.Fprintf(b, " gesture=%q", f.Gesture)
	}
	for i, p := range f.ActivePoints() {
		fmt.Fprintf(b, " %s area=%d", formatPoint(p), f.Areas[i])
	}
	return b.String()
}

func openCapture(c *cli.Context) (*capture.Reader, io.Closer, error) {
	if c.NArg() != 1 {
		return nil, nil, fmt.Errorf("%s: specify a capture file", c.Command.Name)
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return nil, nil, err
	}
	r, err := capture.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f, nil
}

func captureRotation(c *cli.Context, h capture.Header) int {
	if c.IsSet("rotation") {
		return c.Int("rotation")
	}
	return h.Rotation
}

func replayCmd(c *cli.Context) (err error) {
	r, f, err := openCapture(c)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	h := r.Header
	log, sink, err := newLogger(c)
	if err != nil {
		return err
	}
	if sink != nil {
		defer func() { err = multierr.Append(err, sink.Close()) }()
	}
	defer log.Sync()
	rp := capture.NewReplay(r)
	var t ft6206.Transport = rp
	if c.Bool("trace-bus") {
		t = ft6206.Trace(t, log.Named("bus"))
	}
	d := ft6206.New(t, ft6206.Config{
		Width:       h.Width,
		Height:      h.Height,
		Logger:      log.Named("ft6206"),
		Sleep:       func(time.Duration) {},
		NoFrameDump: true,
	})
	d.SetRotation(captureRotation(c, h))
	if err := d.Configure(); err != nil {
		return err
	}
	for {
		fr, err := d.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, formatFrame(fr))
	}
	log.Info("replayed", zap.Int("samples", rp.Samples()))
	return nil
}

func traceCmd(c *cli.Context) (err error) {
	r, f, err := openCapture(c)
	if err != nil {
		return err
	}
	defer f.Close()
	h := r.Header
	samples, err := r.ReadAll()
	if err != nil {
		return err
	}
	rot := ft6206.NormalizeRotation(captureRotation(c, h))
	native := image.Pt(h.Width, h.Height)
	tracks := trace.Tracks(samples, rot, native)
	img := trace.Render(tracks, rot.Size(native), trace.Options{
		Scale:       float32(c.Float64("scale")),
		StrokeWidth: float32(c.Float64("stroke")),
	})
	out, err := os.Create(c.String("output"))
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, out.Close()) }()
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	return nil
}
