package qmc5883

import (
	"errors"
	"testing"
)

func TestNewConfiguresDefaults(t *testing.T) {
	_, tr := newTestDevice(t)

	if got := tr.regs[RegControl1]; got != ModeCont {
		t.Errorf("control register 1 = 0x%02X, want 0x%02X", got, ModeCont)
	}
	if got := tr.regs[RegControl2]; got != 0x00 {
		t.Errorf("control register 2 = 0x%02X, want 0x00", got)
	}
	if got := tr.regs[RegPeriod]; got != PeriodRecommended {
		t.Errorf("period register = 0x%02X, want 0x%02X", got, PeriodRecommended)
	}
}

func TestNewRejectsWrongChipID(t *testing.T) {
	tr := newFakeTransport()
	tr.regs[RegChipID] = 0x00

	if _, err := New(tr, QMC5883L, "test-mag", IdentityMount); err == nil {
		t.Fatal("New() with wrong chip id succeeded, want error")
	}
}

func TestNewInitFailureForcesStandby(t *testing.T) {
	tr := newFakeTransport()
	tr.failWrite(RegPeriod, errBus)

	if _, err := New(tr, QMC5883L, "test-mag", IdentityMount); !errors.Is(err, errBus) {
		t.Fatalf("New() error = %v, want %v", err, errBus)
	}
	if got := tr.regs[RegControl1] & ModeMask; got != ModeStandby {
		t.Errorf("mode after failed init = 0x%02X, want standby", got)
	}
}

func TestSetSampleRateLeavesOtherFieldsIntact(t *testing.T) {
	dev, tr := newTestDevice(t)

	// Preset gain code 1 and oversample code 2 around the mode bits.
	tr.regs[RegControl1] = ModeCont | 1<<RNGShift | 2<<OSRShift

	if err := dev.SetSampleRateCode(3); err != nil {
		t.Fatalf("SetSampleRateCode(3) error = %v", err)
	}
	want := byte(ModeCont | 3<<ODRShift | 1<<RNGShift | 2<<OSRShift)
	if got := tr.regs[RegControl1]; got != want {
		t.Errorf("control register 1 = 0x%02X, want 0x%02X", got, want)
	}
}

func TestSetSampleRateWritesResolvedCode(t *testing.T) {
	dev, tr := newTestDevice(t)

	if err := dev.SetSampleRate(200, 0); err != nil {
		t.Fatalf("SetSampleRate(200, 0) error = %v", err)
	}
	if got := (tr.regs[RegControl1] & ODRMask) >> ODRShift; got != 3 {
		t.Errorf("rate code = %d, want 3", got)
	}

	hz, frac, err := dev.ReadSampleRate()
	if err != nil {
		t.Fatalf("ReadSampleRate() error = %v", err)
	}
	if hz != 200 || frac != 0 {
		t.Errorf("ReadSampleRate() = (%d, %d), want (200, 0)", hz, frac)
	}
}

func TestSetSampleRateNoMatchWritesNothing(t *testing.T) {
	dev, tr := newTestDevice(t)
	before := len(tr.writes)

	if err := dev.SetSampleRate(75, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SetSampleRate(75, 0) error = %v, want ErrInvalidArgument", err)
	}
	if len(tr.writes) != before {
		t.Errorf("writes issued = %d, want none", len(tr.writes)-before)
	}
}

func TestResumeIdempotentTwoWrites(t *testing.T) {
	dev, tr := newTestDevice(t)
	before := len(tr.writesTo(RegControl1))

	if err := dev.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if err := dev.Resume(); err != nil {
		t.Fatalf("second Resume() error = %v", err)
	}

	writes := tr.writesTo(RegControl1)[before:]
	if len(writes) != 2 {
		t.Fatalf("control register 1 writes = %d, want 2", len(writes))
	}
	for i, w := range writes {
		if w&ModeMask != ModeCont {
			t.Errorf("write %d mode = 0x%02X, want continuous", i, w&ModeMask)
		}
	}
}

func TestSuspendResume(t *testing.T) {
	dev, tr := newTestDevice(t)

	if err := dev.Suspend(); err != nil {
		t.Fatalf("Suspend() error = %v", err)
	}
	if got := tr.regs[RegControl1] & ModeMask; got != ModeStandby {
		t.Errorf("mode after suspend = 0x%02X, want standby", got)
	}

	if err := dev.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if got := tr.regs[RegControl1] & ModeMask; got != ModeCont {
		t.Errorf("mode after resume = 0x%02X, want continuous", got)
	}
}

func TestCloseForcesStandby(t *testing.T) {
	dev, tr := newTestDevice(t)

	dev.Close()
	if got := tr.regs[RegControl1] & ModeMask; got != ModeStandby {
		t.Errorf("mode after close = 0x%02X, want standby", got)
	}
}

func TestCloseSwallowsModeError(t *testing.T) {
	dev, tr := newTestDevice(t)
	tr.failWrite(RegControl1, errBus)

	// Must not panic or propagate; teardown runs to completion.
	dev.Close()
}

func TestReadScale(t *testing.T) {
	dev, tr := newTestDevice(t)

	tr.regs[RegControl1] = ModeCont | 1<<RNGShift
	gauss, err := dev.ReadScale()
	if err != nil {
		t.Fatalf("ReadScale() error = %v", err)
	}
	if gauss != 8 {
		t.Errorf("ReadScale() = %d, want 8", gauss)
	}
}

func TestReadScaleReservedCode(t *testing.T) {
	dev, tr := newTestDevice(t)

	tr.regs[RegControl1] = ModeCont | 2<<RNGShift
	if _, err := dev.ReadScale(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ReadScale() error = %v, want ErrInvalidState", err)
	}
}

func TestReadScaleTransportError(t *testing.T) {
	dev, tr := newTestDevice(t)
	tr.failRead(RegControl1, errBus)

	if _, err := dev.ReadScale(); !errors.Is(err, errBus) {
		t.Errorf("ReadScale() error = %v, want transport error passthrough", err)
	}
}

func TestSetOversamplingRatio(t *testing.T) {
	dev, tr := newTestDevice(t)

	if err := dev.SetOversamplingRatio(128, 0); err != nil {
		t.Fatalf("SetOversamplingRatio(128, 0) error = %v", err)
	}
	if got := (tr.regs[RegControl1] & OSRMask) >> OSRShift; got != 2 {
		t.Errorf("oversample code = %d, want 2", got)
	}

	ratio, frac, err := dev.ReadOversamplingRatio()
	if err != nil {
		t.Fatalf("ReadOversamplingRatio() error = %v", err)
	}
	if ratio != 128 || frac != 0 {
		t.Errorf("ReadOversamplingRatio() = (%d, %d), want (128, 0)", ratio, frac)
	}
}

func TestSetScale(t *testing.T) {
	dev, tr := newTestDevice(t)

	if err := dev.SetScale(8); err != nil {
		t.Fatalf("SetScale(8) error = %v", err)
	}
	if got := (tr.regs[RegControl1] & RNGMask) >> RNGShift; got != 1 {
		t.Errorf("range code = %d, want 1", got)
	}

	if err := dev.SetScale(4); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetScale(4) error = %v, want ErrInvalidArgument", err)
	}
}

func TestReadTemperature(t *testing.T) {
	dev, tr := newTestDevice(t)

	// 2150 LSB = 21.5 degrees.
	tr.regs[RegTempLow] = byte(2150 & 0xFF)
	tr.regs[RegTempHigh] = byte(2150 >> 8)

	got, err := dev.ReadTemperature()
	if err != nil {
		t.Fatalf("ReadTemperature() error = %v", err)
	}
	if got != 21.5 {
		t.Errorf("ReadTemperature() = %v, want 21.5", got)
	}
}

func TestOrientationPassThrough(t *testing.T) {
	tr := newFakeTransport()
	mount := MountMatrix{{0, 1, 0}, {-1, 0, 0}, {0, 0, 1}}

	dev, err := New(tr, QMC5883L, "test-mag", mount)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if dev.Orientation() != mount {
		t.Errorf("Orientation() = %v, want %v", dev.Orientation(), mount)
	}
}
