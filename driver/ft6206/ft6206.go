// Package ft6206 implements a driver for the FocalTech FT6206 family of
// capacitive touch controllers.
//
// A Device keeps a shadow copy of the controller's register file.
// Reads land in the shadow, so registers the bus fails to deliver keep
// their previous values. Decoded touch points are rotated into screen
// space before they are returned.
//
// A Device is not safe for concurrent use.
//
// Datasheet: https://www.buydisplay.com/download/ic/FT6236-FT6336-FT6436L-FT6436_Datasheet.pdf
package ft6206

import (
	"errors"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
)

type Device struct {
	t     Transport
	reset gpio.PinOut
	intr  gpio.PinIn
	log   *zap.Logger
	sleep func(time.Duration)
	ready bool
	dump  bool

	native   image.Point
	rotation Rotation
	size     image.Point

	threshold   uint8
	activeRate  uint8
	monitorRate uint8
	intrMode    uint8
	gesture     Gesture
	touches     int

	// Shadow of the register file, indexed by register address.
	regs   [256]byte
	points [MaxPoints]TouchPoint
	areas  [MaxPoints]uint8
}

type Config struct {
	// Width and Height are the native panel dimensions.
	Width, Height int
	// Reset is the optional reset line.
	Reset gpio.PinOut
	// Interrupt is the optional interrupt line.
	Interrupt gpio.PinIn
	// Threshold is the detection threshold written by Configure.
	// Zero means DefaultThreshold.
	Threshold uint8
	Logger    *zap.Logger
	// NoFrameDump leaves the frame registers out of the debug
	// identification in Configure. Set it when frame reads are
	// recorded or replayed.
	NoFrameDump bool
	// Sleep replaces time.Sleep during the reset sequence.
	Sleep func(time.Duration)
}

// ErrNoInterrupt is returned by WaitForTouch when no interrupt line
// is configured.
var ErrNoInterrupt = errors.New("ft6206: no interrupt line")

const (
	resetPulse  = 10 * time.Millisecond
	resetSettle = 300 * time.Millisecond
)

func New(t Transport, cfg Config) *Device {
	d := &Device{
		t:         t,
		reset:     cfg.Reset,
		intr:      cfg.Interrupt,
		log:       cfg.Logger,
		sleep:     cfg.Sleep,
		dump:      !cfg.NoFrameDump,
		native:    image.Pt(cfg.Width, cfg.Height),
		threshold: cfg.Threshold,
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.sleep == nil {
		d.sleep = time.Sleep
	}
	if d.threshold == 0 {
		d.threshold = DefaultThreshold
	}
	d.size = d.native
	return d
}

// Configure resets the controller and writes the detection threshold.
// Calling Configure on a configured device does nothing.
func (d *Device) Configure() error {
	if d.ready {
		return nil
	}
	if d.reset != nil {
		for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
			if err := d.reset.Out(l); err != nil {
				return fmt.Errorf("ft6206: reset: %w", err)
			}
			d.sleep(resetPulse)
		}
	}
	d.sleep(resetSettle)
	if d.intr != nil {
		if err := d.intr.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return fmt.Errorf("ft6206: interrupt: %w", err)
		}
	}
	if d.log.Core().Enabled(zap.DebugLevel) {
		d.identify()
	}
	if err := d.SetThreshold(d.threshold); err != nil {
		return err
	}
	d.ready = true
	return nil
}

// Ready reports whether Configure has succeeded.
func (d *Device) Ready() bool {
	return d.ready
}

// identify logs the identification registers and the first
// registers of the register file.
func (d *Device) identify() {
	info, err := d.Info()
	if err != nil {
		d.log.Debug("identify", zap.Error(err))
		return
	}
	d.log.Debug("identify",
		zap.Uint8("panel", info.PanelID),
		zap.Uint8("chip", info.ChipID),
		zap.Uint8("firmware", info.Firmware),
		zap.Uint16("lib", info.LibVersion),
	)
	if info.ChipID != chipID {
		d.log.Warn("unexpected chip id", zap.Uint8("got", info.ChipID), zap.Uint8("want", chipID))
	}
	if info.PanelID != panelID {
		d.log.Warn("unexpected panel id", zap.Uint8("got", info.PanelID), zap.Uint8("want", panelID))
	}
	if !d.dump {
		return
	}
	if _, err := d.readRegs(regDEV_MODE, FrameSize); err != nil {
		d.log.Debug("dump", zap.Error(err))
		return
	}
	for r := range FrameSize {
		d.log.Debug("dump", zap.Int("reg", r), zap.Uint8("val", d.regs[r]))
	}
}

// SetRotation sets the orientation in quarter turns and returns the
// normalized rotation.
func (d *Device) SetRotation(r int) Rotation {
	d.rotation = NormalizeRotation(r)
	d.size = d.rotation.Size(d.native)
	return d.rotation
}

func (d *Device) Rotation() Rotation {
	return d.rotation
}

// Size returns the screen dimensions under the current rotation.
func (d *Device) Size() image.Point {
	return d.size
}

func (d *Device) Width() int {
	return d.size.X
}

func (d *Device) Height() int {
	return d.size.Y
}

// Touches reads the number of touches, 0, 1 or 2.
func (d *Device) Touches() (int, error) {
	v, err := d.readReg(regTD_STATUS)
	d.touches = ClampTouches(v)
	return d.touches, err
}

// Touched reports whether any finger is on the panel. It reads only
// the touch count.
func (d *Device) Touched() (bool, error) {
	n, err := d.Touches()
	return n > 0, err
}

// SlotTouched decodes a full frame and reports whether slot n is
// within the touch count and pressed or in contact.
func (d *Device) SlotTouched(n int) (bool, error) {
	if n < 0 || n >= MaxPoints {
		return false, nil
	}
	err := d.decode()
	return n < d.touches && d.points[n].State.Active(), err
}

// ReadFrame decodes a full frame.
func (d *Device) ReadFrame() (Frame, error) {
	err := d.decode()
	return Frame{
		Touches: d.touches,
		Gesture: d.gesture,
		Points:  d.points,
		Areas:   d.areas,
	}, err
}

// Point decodes a full frame and returns slot n. An out of range
// slot returns the zero TouchPoint without bus traffic.
func (d *Device) Point(n int) (TouchPoint, error) {
	if n < 0 || n >= MaxPoints {
		return TouchPoint{}, nil
	}
	err := d.decode()
	return d.points[n], err
}

// SinglePoint is like Point, but reads only the record of slot n. The
// touch count, gesture and other slots keep their previous values.
func (d *Device) SinglePoint(n int) (TouchPoint, error) {
	if n < 0 || n >= MaxPoints {
		return TouchPoint{}, nil
	}
	start := slotReg(n)
	_, err := d.readRegs(start, slotSize)
	d.store(n, d.regs[start:start+slotSize])
	return d.points[n], err
}

// Area returns the contact area code of slot n from the last decode.
func (d *Device) Area(n int) uint8 {
	if n < 0 || n >= MaxPoints {
		return 0
	}
	return d.areas[n]
}

// decode reads and decodes a full frame. Registers the transport
// fails to deliver keep their previous values.
func (d *Device) decode() error {
	_, err := d.readRegs(regDEV_MODE, FrameSize)
	d.touches = ClampTouches(d.regs[regTD_STATUS])
	d.gesture = Gesture(d.regs[regGEST_ID])
	for i := range MaxPoints {
		start := slotReg(i)
		d.store(i, d.regs[start:start+slotSize])
	}
	if ce := d.log.Check(zap.DebugLevel, "frame"); ce != nil {
		fields := []zap.Field{zap.Int("touches", d.touches)}
		if d.gesture != GestureNone {
			fields = append(fields, zap.Stringer("gesture", d.gesture))
		}
		for i, p := range d.points[:d.touches] {
			start := slotReg(i)
			raw, _ := DecodeSlot(d.regs[start : start+slotSize])
			fields = append(fields, zap.String(fmt.Sprintf("p%d", i),
				fmt.Sprintf("id=%d raw=(%d, %d) screen=(%d, %d) z=%d area=%d %s",
					p.ID, raw.X, raw.Y, p.X, p.Y, p.Z, d.areas[i], p.State)))
		}
		ce.Write(fields...)
	}
	return err
}

// store decodes a slot record, rotates it and saves it in slot i.
func (d *Device) store(i int, rec []byte) {
	p, area := DecodeSlot(rec)
	pt := Rotate(image.Pt(p.X, p.Y), d.rotation, d.size)
	p.X, p.Y = pt.X, pt.Y
	d.points[i], d.areas[i] = p, area
}

// Threshold reads the detection threshold.
func (d *Device) Threshold() (uint8, error) {
	v, err := d.readReg(regTH_GROUP)
	d.threshold = v
	return v, err
}

// SetThreshold sets the detection threshold. Lower values make the
// panel more sensitive.
func (d *Device) SetThreshold(v uint8) error {
	if err := d.WriteRegister(regTH_GROUP, v); err != nil {
		return err
	}
	d.threshold = v
	return nil
}

// ActiveScanRate reads the report rate in active mode.
func (d *Device) ActiveScanRate() (uint8, error) {
	v, err := d.readReg(regPERIODACTIVE)
	d.activeRate = v
	return v, err
}

func (d *Device) SetActiveScanRate(rate uint8) error {
	if err := d.WriteRegister(regPERIODACTIVE, rate); err != nil {
		return err
	}
	d.activeRate = rate
	return nil
}

// MonitorScanRate reads the report rate in monitor mode.
func (d *Device) MonitorScanRate() (uint8, error) {
	v, err := d.readReg(regPERIODMONITOR)
	d.monitorRate = v
	return v, err
}

func (d *Device) SetMonitorScanRate(rate uint8) error {
	if err := d.WriteRegister(regPERIODMONITOR, rate); err != nil {
		return err
	}
	d.monitorRate = rate
	return nil
}

// InterruptMode reads the interrupt mode, InterruptPolling or
// InterruptTrigger.
func (d *Device) InterruptMode() (uint8, error) {
	v, err := d.readReg(regG_MODE)
	d.intrMode = v
	return v, err
}

// SetInterruptMode sets the interrupt mode. Modes above
// InterruptTrigger select InterruptTrigger.
func (d *Device) SetInterruptMode(mode uint8) error {
	mode = ClampInterruptMode(mode)
	if err := d.WriteRegister(regG_MODE, mode); err != nil {
		return err
	}
	d.intrMode = mode
	return nil
}

// GestureID reads the gesture register.
func (d *Device) GestureID() (Gesture, error) {
	v, err := d.readReg(regGEST_ID)
	d.gesture = Gesture(v)
	return d.gesture, err
}

// GestureName reads the gesture register and returns its name.
func (d *Device) GestureName() (string, error) {
	g, err := d.GestureID()
	return g.String(), err
}

// GestureParams reads the gesture recognition parameters.
func (d *Device) GestureParams() (GestureParams, error) {
	_, err := d.readRegs(regRADIAN_VALUE, 6)
	r := d.regs[regRADIAN_VALUE:]
	return GestureParams{
		MinAngle:          r[0],
		OffsetLeftRight:   r[1],
		OffsetUpDown:      r[2],
		DistanceLeftRight: r[3],
		DistanceUpDown:    r[4],
		DistanceZoom:      r[5],
	}, err
}

func (d *Device) SetGestureParams(p GestureParams) error {
	for _, w := range []struct {
		reg uint8
		val uint8
	}{
		{regRADIAN_VALUE, p.MinAngle},
		{regOFFSET_LEFT_RIGHT, p.OffsetLeftRight},
		{regOFFSET_UP_DOWN, p.OffsetUpDown},
		{regDISTANCE_LEFT_RIGHT, p.DistanceLeftRight},
		{regDISTANCE_UP_DOWN, p.DistanceUpDown},
		{regDISTANCE_ZOOM, p.DistanceZoom},
	} {
		if err := d.WriteRegister(w.reg, w.val); err != nil {
			return err
		}
	}
	return nil
}

// Info describes the controller.
type Info struct {
	PanelID     uint8
	ChipID      uint8
	Firmware    uint8
	LibVersion  uint16
	ReleaseCode uint8
	PowerMode   uint8
	State       uint8
}

// Info reads the identification registers.
func (d *Device) Info() (Info, error) {
	// LIB_VERSION_H through FOCALTECH_ID are contiguous.
	if _, err := d.readRegs(regLIB_VERSION_H, regFOCALTECH_ID-regLIB_VERSION_H+1); err != nil {
		return Info{}, err
	}
	if _, err := d.readRegs(regRELEASE_CODE_ID, 1); err != nil {
		return Info{}, err
	}
	if _, err := d.readRegs(regSTATE, 1); err != nil {
		return Info{}, err
	}
	r := &d.regs
	return Info{
		PanelID:     r[regFOCALTECH_ID],
		ChipID:      r[regCIPHER],
		Firmware:    r[regFIRMID],
		LibVersion:  uint16(r[regLIB_VERSION_H])<<8 | uint16(r[regLIB_VERSION_L]),
		ReleaseCode: r[regRELEASE_CODE_ID],
		PowerMode:   r[regPWR_MODE],
		State:       r[regSTATE],
	}, nil
}

// WaitForTouch waits for the interrupt line to signal a touch. It
// returns false if the timeout expires first. A negative timeout
// waits forever.
func (d *Device) WaitForTouch(timeout time.Duration) (bool, error) {
	if d.intr == nil {
		return false, ErrNoInterrupt
	}
	return d.intr.WaitForEdge(timeout), nil
}

// ReadRegister reads a single register.
func (d *Device) ReadRegister(reg uint8) (uint8, error) {
	return d.readReg(reg)
}

// WriteRegister writes a single register.
func (d *Device) WriteRegister(reg, val uint8) error {
	if err := d.t.WriteRegister(reg, val); err != nil {
		return fmt.Errorf("ft6206: write %#02x: %w", reg, err)
	}
	d.regs[reg] = val
	return nil
}

func (d *Device) readReg(reg uint8) (uint8, error) {
	_, err := d.readRegs(reg, 1)
	return d.regs[reg], err
}

// readRegs reads n registers into the shadow starting at start.
func (d *Device) readRegs(start uint8, n int) (int, error) {
	got, err := d.t.ReadRegisters(start, d.regs[start:int(start)+n])
	if err != nil {
		return got, fmt.Errorf("ft6206: read %#02x: %w", start, err)
	}
	return got, nil
}
