package qmc5883

import (
	"fmt"
	"testing"
	"time"
)

// fakeTransport is an in-memory register file with programmable
// data-ready behavior and failure injection.
type fakeTransport struct {
	regs [16]byte

	// readyOn is the status-read attempt (1-based) on which DRDY first
	// appears. 0 means immediately, -1 means never.
	readyOn     int
	statusReads int

	axisData  [6]byte
	bulkReads int

	// writes records every WriteReg in order.
	writes []regWrite

	failReadReg  map[byte]error
	failWriteReg map[byte]error
}

type regWrite struct {
	reg, val byte
}

func newFakeTransport() *fakeTransport {
	t := &fakeTransport{}
	t.regs[RegChipID] = ChipIDValue
	return t
}

func (t *fakeTransport) ReadReg(reg byte) (byte, error) {
	if err := t.failReadReg[reg]; err != nil {
		return 0, err
	}
	if reg == RegStatus {
		t.statusReads++
		if t.readyOn >= 0 && t.statusReads >= t.readyOn {
			return t.regs[reg] | StatusDRDY, nil
		}
		return t.regs[reg] &^ StatusDRDY, nil
	}
	return t.regs[reg], nil
}

func (t *fakeTransport) WriteReg(reg, val byte) error {
	if err := t.failWriteReg[reg]; err != nil {
		return err
	}
	t.regs[reg] = val
	t.writes = append(t.writes, regWrite{reg, val})
	return nil
}

func (t *fakeTransport) ReadBlock(reg byte, n int) ([]byte, error) {
	if err := t.failReadReg[reg]; err != nil {
		return nil, err
	}
	if reg == RegDataOut && n == DataOutLen {
		t.bulkReads++
		buf := make([]byte, DataOutLen)
		copy(buf, t.axisData[:])
		return buf, nil
	}
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = t.regs[int(reg)+i]
	}
	return buf, nil
}

func (t *fakeTransport) UpdateBits(reg, mask, val byte) error {
	cur, err := t.ReadReg(reg)
	if err != nil {
		return err
	}
	return t.WriteReg(reg, (cur&^mask)|(val&mask))
}

// writesTo filters the write log to one register.
func (t *fakeTransport) writesTo(reg byte) []byte {
	var vals []byte
	for _, w := range t.writes {
		if w.reg == reg {
			vals = append(vals, w.val)
		}
	}
	return vals
}

func (t *fakeTransport) failWrite(reg byte, err error) {
	if t.failWriteReg == nil {
		t.failWriteReg = map[byte]error{}
	}
	t.failWriteReg[reg] = err
}

func (t *fakeTransport) failRead(reg byte, err error) {
	if t.failReadReg == nil {
		t.failReadReg = map[byte]error{}
	}
	t.failReadReg[reg] = err
}

// newTestDevice builds an initialized device over a fresh fake
// transport, with the poll sleep disabled so timeout paths run fast.
func newTestDevice(t *testing.T) (*Device, *fakeTransport) {
	t.Helper()
	tr := newFakeTransport()
	dev, err := New(tr, QMC5883L, "test-mag", IdentityMount)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	dev.sleep = func(d time.Duration) {}
	return dev, tr
}

var errBus = fmt.Errorf("bus failure")
