// Package config loads touch panel configuration files.
//
// A configuration file is YAML:
//
//	bus: "1"
//	width: 240
//	height: 320
//	rotation: 1
//	threshold: 128
//	reset_pin: GPIO17
//	interrupt_pin: GPIO27
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Drivers selecting the bus implementation.
const (
	DriverPeriph = "periph"
	DriverI2CDev = "i2cdev"
)

type Panel struct {
	// Driver is DriverPeriph or DriverI2CDev.
	Driver string `yaml:"driver"`
	// Bus is the periph.io bus name, or the i2c-dev device path.
	Bus string `yaml:"bus"`
	// Speed is the bus clock, such as "400kHz". Empty keeps the bus
	// default. Only the periph driver sets the clock.
	Speed string `yaml:"speed"`

	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Rotation int `yaml:"rotation"`

	ResetPin     string `yaml:"reset_pin"`
	InterruptPin string `yaml:"interrupt_pin"`

	// Register settings applied after initialization. Nil leaves the
	// controller default.
	Threshold       *uint8 `yaml:"threshold"`
	ActiveScanRate  *uint8 `yaml:"active_scan_rate"`
	MonitorScanRate *uint8 `yaml:"monitor_scan_rate"`
	InterruptMode   *uint8 `yaml:"interrupt_mode"`
}

// Default returns the configuration used without a file.
func Default() *Panel {
	return &Panel{
		Driver: DriverPeriph,
		Width:  240,
		Height: 320,
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Panel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return p, nil
}

// Parse parses a configuration on top of the defaults. Unknown
// fields are errors.
func Parse(data []byte) (*Panel, error) {
	p := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Panel) Validate() error {
	switch p.Driver {
	case DriverPeriph, DriverI2CDev:
	default:
		return fmt.Errorf("unknown driver %q", p.Driver)
	}
	if p.Driver == DriverI2CDev && p.Bus == "" {
		return errors.New("i2cdev driver requires a bus device path")
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid panel size %dx%d", p.Width, p.Height)
	}
	if p.InterruptMode != nil && *p.InterruptMode > 1 {
		return fmt.Errorf("invalid interrupt mode %d", *p.InterruptMode)
	}
	if _, err := p.BusSpeed(); err != nil {
		return err
	}
	return nil
}

// BusSpeed parses Speed. It returns zero if Speed is empty.
func (p *Panel) BusSpeed() (physic.Frequency, error) {
	var f physic.Frequency
	if p.Speed == "" {
		return 0, nil
	}
	if err := f.Set(p.Speed); err != nil {
		return 0, fmt.Errorf("invalid bus speed %q: %w", p.Speed, err)
	}
	return f, nil
}
