//go:build linux

// Package i2cdev implements a register transport over the Linux
// i2c-dev character devices.
package i2cdev

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Ioctl selecting the peripheral address, from linux/i2c-dev.h.
const i2cSLAVE = 0x0703

// Conn is an open i2c-dev device bound to one peripheral address.
type Conn struct {
	fd   int
	path string
	buf  [2]byte
}

// Open opens the i2c-dev device at path, such as /dev/i2c-1, and
// selects the peripheral at addr.
func Open(path string, addr uint16) (*Conn, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("i2cdev: %s: %w", path, err)
	}
	if err := unix.IoctlSetInt(fd, i2cSLAVE, int(addr)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("i2cdev: %s: I2C_SLAVE %#x: %w", path, addr, err)
	}
	return &Conn{fd: fd, path: path}, nil
}

// ReadRegisters writes the start register and reads len(dst) bytes.
// A short read delivers the bytes the adapter returned and leaves the
// remainder of dst untouched.
func (c *Conn) ReadRegisters(start uint8, dst []byte) (int, error) {
	wr := c.buf[:1]
	wr[0] = start
	if _, err := unix.Write(c.fd, wr); err != nil {
		return 0, fmt.Errorf("i2cdev: %s: %w", c.path, err)
	}
	n, err := unix.Read(c.fd, dst)
	if err != nil {
		return 0, fmt.Errorf("i2cdev: %s: %w", c.path, err)
	}
	return n, nil
}

func (c *Conn) WriteRegister(reg, val uint8) error {
	wr := c.buf[:2]
	wr[0], wr[1] = reg, val
	n, err := unix.Write(c.fd, wr)
	if err != nil {
		return fmt.Errorf("i2cdev: %s: %w", c.path, err)
	}
	if n != len(wr) {
		return fmt.Errorf("i2cdev: %s: short write (%d of %d bytes)", c.path, n, len(wr))
	}
	return nil
}

func (c *Conn) Close() error {
	return unix.Close(c.fd)
}
