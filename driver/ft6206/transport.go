package ft6206

import (
	"encoding/hex"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/i2c"
)

// Transport reads and writes the controller's registers.
type Transport interface {
	// ReadRegisters reads len(dst) consecutive registers starting at
	// start. It returns the number of leading bytes of dst that were
	// filled; the rest of dst is left unmodified.
	ReadRegisters(start uint8, dst []byte) (int, error)
	WriteRegister(reg, val uint8) error
}

// I2C is a Transport over a periph.io I2C bus.
type I2C struct {
	dev i2c.Dev
	buf [2]byte
}

// NewI2C returns a Transport for the controller at Address on bus.
func NewI2C(bus i2c.Bus) *I2C {
	return &I2C{
		dev: i2c.Dev{Bus: bus, Addr: Address},
	}
}

func (t *I2C) ReadRegisters(start uint8, dst []byte) (int, error) {
	// Read into scratch space so a failed transfer leaves dst intact.
	var scratch [FrameSize]byte
	rd := scratch[:]
	if len(dst) > len(rd) {
		rd = make([]byte, len(dst))
	}
	rd = rd[:len(dst)]
	wr := t.buf[:1]
	wr[0] = start
	if err := t.dev.Tx(wr, rd); err != nil {
		return 0, err
	}
	return copy(dst, rd), nil
}

func (t *I2C) WriteRegister(reg, val uint8) error {
	wr := t.buf[:2]
	wr[0], wr[1] = reg, val
	return t.dev.Tx(wr, nil)
}

// Trace wraps t and logs every register transfer at debug level.
func Trace(t Transport, log *zap.Logger) Transport {
	return &tracer{t: t, log: log}
}

type tracer struct {
	t   Transport
	log *zap.Logger
}

func (t *tracer) ReadRegisters(start uint8, dst []byte) (int, error) {
	n, err := t.t.ReadRegisters(start, dst)
	t.log.Debug("read",
		zap.Uint8("reg", start),
		zap.String("data", hex.EncodeToString(dst[:n])),
		zap.Int("want", len(dst)),
		zap.Error(err),
	)
	return n, err
}

func (t *tracer) WriteRegister(reg, val uint8) error {
	err := t.t.WriteRegister(reg, val)
	t.log.Debug("write", zap.Uint8("reg", reg), zap.Uint8("val", val), zap.Error(err))
	return err
}
