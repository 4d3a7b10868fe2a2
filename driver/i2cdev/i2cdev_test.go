//go:build linux

package i2cdev

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"focaltouch.dev/driver/ft6206"
)

var _ ft6206.Transport = (*Conn)(nil)

func TestOpenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "i2c-9")
	_, err := Open(path, ft6206.Address)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open(%s) = %v, want not exist", path, err)
	}
}
