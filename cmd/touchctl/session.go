package main

import (
	"fmt"
	"io"
	"os"

	"focaltouch.dev/capture"
	"focaltouch.dev/config"
	"focaltouch.dev/driver/ft6206"
	"focaltouch.dev/driver/i2cdev"
	"focaltouch.dev/internal/debuglog"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// session is an open connection to a controller.
type session struct {
	panel   *config.Panel
	log     *zap.Logger
	t       ft6206.Transport
	reset   gpio.PinOut
	intr    gpio.PinIn
	closers []io.Closer
}

// loadPanel loads the configuration file, if any, and applies the
// command line overrides.
func loadPanel(c *cli.Context) (*config.Panel, error) {
	p := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if p, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if c.IsSet("driver") {
		p.Driver = c.String("driver")
	}
	if c.IsSet("bus") {
		p.Bus = c.String("bus")
	}
	if c.IsSet("speed") {
		p.Speed = c.String("speed")
	}
	if c.IsSet("width") {
		p.Width = c.Int("width")
	}
	if c.IsSet("height") {
		p.Height = c.Int("height")
	}
	if c.IsSet("rotation") {
		p.Rotation = c.Int("rotation")
	}
	if c.IsSet("reset-pin") {
		p.ResetPin = c.String("reset-pin")
	}
	if c.IsSet("interrupt-pin") {
		p.InterruptPin = c.String("interrupt-pin")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return p, nil
}

// newLogger returns the logger selected by the flags and a closer
// for its sink.
func newLogger(c *cli.Context) (*zap.Logger, io.Closer, error) {
	debug := c.Bool("debug") || c.Bool("trace-bus")
	if dev := c.String("debug-serial"); dev != "" {
		port, err := debuglog.OpenSerial(dev)
		if err != nil {
			return nil, nil, err
		}
		return debuglog.New(port, debug), port, nil
	}
	return debuglog.New(os.Stderr, debug), nil, nil
}

func openSession(c *cli.Context) (_ *session, err error) {
	p, err := loadPanel(c)
	if err != nil {
		return nil, err
	}
	log, sink, err := newLogger(c)
	if err != nil {
		return nil, err
	}
	s := &session{panel: p, log: log}
	if sink != nil {
		s.closers = append(s.closers, sink)
	}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()
	if p.Driver == config.DriverPeriph || p.ResetPin != "" || p.InterruptPin != "" {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("periph: %w", err)
		}
	}
	switch p.Driver {
	case config.DriverI2CDev:
		conn, err := i2cdev.Open(p.Bus, ft6206.Address)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, conn)
		s.t = conn
	default:
		bus, err := i2creg.Open(p.Bus)
		if err != nil {
			return nil, fmt.Errorf("periph: %w", err)
		}
		s.closers = append(s.closers, bus)
		speed, err := p.BusSpeed()
		if err != nil {
			return nil, err
		}
		if speed != 0 {
			if err := bus.SetSpeed(speed); err != nil {
				return nil, fmt.Errorf("periph: %s: %w", bus, err)
			}
		}
		s.t = ft6206.NewI2C(bus)
	}
	if c.Bool("trace-bus") {
		s.t = ft6206.Trace(s.t, log.Named("bus"))
	}
	if name := p.ResetPin; name != "" {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("unknown reset pin %q", name)
		}
		s.reset = pin
	}
	if name := p.InterruptPin; name != "" {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("unknown interrupt pin %q", name)
		}
		s.intr = pin
	}
	return s, nil
}

// device configures the controller over t and applies the register
// settings of the panel configuration. Frames read through a
// capture.Tap are recorded, so the debug frame dump is left out.
func (s *session) device(t ft6206.Transport) (*ft6206.Device, error) {
	p := s.panel
	_, recording := t.(*capture.Tap)
	d := ft6206.New(t, ft6206.Config{
		Width:       p.Width,
		Height:      p.Height,
		Reset:       s.reset,
		Interrupt:   s.intr,
		Logger:      s.log.Named("ft6206"),
		NoFrameDump: recording,
	})
	d.SetRotation(p.Rotation)
	if err := d.Configure(); err != nil {
		return nil, fmt.Errorf("device not usable: %w", err)
	}
	for _, set := range []struct {
		v   *uint8
		set func(uint8) error
	}{
		{p.Threshold, d.SetThreshold},
		{p.ActiveScanRate, d.SetActiveScanRate},
		{p.MonitorScanRate, d.SetMonitorScanRate},
		{p.InterruptMode, d.SetInterruptMode},
	} {
		if set.v == nil {
			continue
		}
		if err := set.set(*set.v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (s *session) Close() error {
	s.log.Sync()
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i].Close())
	}
	return err
}
