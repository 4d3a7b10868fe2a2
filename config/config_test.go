package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"
)

func TestParse(t *testing.T) {
	p, err := Parse([]byte(`
bus: "1"
speed: 400kHz
width: 320
height: 480
rotation: 3
reset_pin: GPIO17
interrupt_pin: GPIO27
threshold: 40
interrupt_mode: 0
`))
	if err != nil {
		t.Fatal(err)
	}
	threshold, mode := uint8(40), uint8(0)
	want := &Panel{
		Driver:        DriverPeriph,
		Bus:           "1",
		Speed:         "400kHz",
		Width:         320,
		Height:        480,
		Rotation:      3,
		ResetPin:      "GPIO17",
		InterruptPin:  "GPIO27",
		Threshold:     &threshold,
		InterruptMode: &mode,
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
	f, err := p.BusSpeed()
	if err != nil {
		t.Fatal(err)
	}
	if f != 400*physic.KiloHertz {
		t.Errorf("bus speed %v, want 400kHz", f)
	}
}

func TestParseEmpty(t *testing.T) {
	p, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), p); diff != "" {
		t.Errorf("empty config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	for _, conf := range []string{
		"unknown: 1",
		"driver: spi",
		"driver: i2cdev",
		"width: 0",
		"height: -1",
		"interrupt_mode: 2",
		"speed: fast",
		"threshold: 300",
	} {
		if _, err := Parse([]byte(conf)); err == nil {
			t.Errorf("Parse(%q) succeeded", conf)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.yaml")
	if err := os.WriteFile(path, []byte("driver: i2cdev\nbus: /dev/i2c-1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Driver != DriverI2CDev || p.Bus != "/dev/i2c-1" {
		t.Errorf("loaded %+v", p)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
}
