package debuglog

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	buf := new(bytes.Buffer)
	log := New(buf, false)
	log.Debug("hidden")
	log.Info("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("info logger wrote %q", out)
	}

	buf.Reset()
	log = New(buf, true).Named("ft6206")
	log.Debug("frame")
	out := buf.String()
	if !strings.Contains(out, "DEBUG") || !strings.Contains(out, "ft6206") {
		t.Errorf("debug logger wrote %q", out)
	}
}

func TestOpenSerialMissing(t *testing.T) {
	dev := filepath.Join(t.TempDir(), "ttyUSB9")
	if _, err := OpenSerial(dev); err == nil {
		t.Errorf("OpenSerial(%s) succeeded", dev)
	}
}
