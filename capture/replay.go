package capture

import "focaltouch.dev/driver/ft6206"

// Register holding the touch count.
const regTDStatus = 0x02

// Replay is a transport serving recorded frames. Every read covering
// the touch count register advances to the next sample; other reads
// serve the current sample. Writes are kept and read back, so
// configuration round-trips.
//
// When the capture is exhausted, reads deliver nothing and return
// io.EOF.
type Replay struct {
	r    *Reader
	regs [256]byte
	n    int
}

func NewReplay(r *Reader) *Replay {
	return &Replay{r: r}
}

func (p *Replay) ReadRegisters(start uint8, dst []byte) (int, error) {
	end := min(int(start)+len(dst), len(p.regs))
	if int(start) <= regTDStatus && regTDStatus < end {
		s, err := p.r.Next()
		if err != nil {
			return 0, err
		}
		copy(p.regs[:ft6206.FrameSize], s.Regs)
		p.n++
	}
	return copy(dst, p.regs[start:end]), nil
}

func (p *Replay) WriteRegister(reg, val uint8) error {
	p.regs[reg] = val
	return nil
}

// Samples returns the number of samples served.
func (p *Replay) Samples() int {
	return p.n
}
