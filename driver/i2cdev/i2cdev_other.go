//go:build !linux

package i2cdev

import "errors"

type Conn struct{}

func Open(path string, addr uint16) (*Conn, error) {
	return nil, errors.New("i2cdev: not supported on this platform")
}

func (c *Conn) ReadRegisters(start uint8, dst []byte) (int, error) {
	return 0, errors.New("i2cdev: not supported on this platform")
}

func (c *Conn) WriteRegister(reg, val uint8) error {
	return errors.New("i2cdev: not supported on this platform")
}

func (c *Conn) Close() error {
	return nil
}
