// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package qmc5883 drives the QMC5883L three-axis magnetometer over a
// register-addressed bus. It owns the chip's operating state (mode,
// output data rate, oversampling, full-scale range), serializes all
// register access behind one lock, and provides both single-shot axis
// reads and a periodic triggered-capture path that timestamps scans
// and hands them to a consumer.
package qmc5883

import (
	"encoding/binary"
	"fmt"
	"log"
	"sync"
	"time"
)

// MountMatrix is the sensor orientation matrix supplied at
// initialization. The driver stores it and passes it through
// unchanged; consumers decide what to do with it.
type MountMatrix [3][3]float64

// IdentityMount is the default orientation.
var IdentityMount = MountMatrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// Scan mirrors the chip's output block: three raw little-endian
// 16-bit channel words, padded to an 8-byte boundary, then a
// nanosecond timestamp. Sign interpretation is left to the consumer.
type Scan struct {
	Chans     [3]uint16
	_         uint16
	Timestamp int64
}

// Device owns the serialized register state of one chip. The transport
// is borrowed for the device's lifetime. Every register transaction,
// configuration or measurement, runs under the device lock; nothing
// else may touch the control registers.
type Device struct {
	name    string
	tr      Transport
	variant *ChipInfo
	orient  MountMatrix

	mu   sync.Mutex
	scan Scan

	// sleep is the poll-wait hook, replaceable in tests.
	sleep func(time.Duration)
}

// New allocates the device state for a discovered chip, verifies its
// identity and runs the initialization sequence: known control state,
// SET/RESET period, default rate/range/oversampling, continuous mode.
// If any step past the identity check fails, the chip is forced back
// to standby before the error is returned so it is not left sampling
// with no registered consumer.
func New(tr Transport, chip ChipID, name string, orient MountMatrix) (*Device, error) {
	info, err := ChipInfoByID(chip)
	if err != nil {
		return nil, err
	}
	d := &Device{
		name:    name,
		tr:      tr,
		variant: info,
		orient:  orient,
		sleep:   time.Sleep,
	}

	id, err := tr.ReadReg(RegChipID)
	if err != nil {
		return nil, fmt.Errorf("%s: chip id: %w", name, err)
	}
	if id != ChipIDValue {
		return nil, fmt.Errorf("%s: unexpected chip id 0x%02X (want 0x%02X)", name, id, ChipIDValue)
	}

	if err := d.initChip(); err != nil {
		if sberr := d.SetMode(ModeStandby); sberr != nil {
			log.Printf("%s: standby after failed init: %v", name, sberr)
		}
		return nil, fmt.Errorf("%s: init: %w", name, err)
	}
	return d, nil
}

func (d *Device) initChip() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.tr.WriteReg(RegControl2, Ctl2SoftReset); err != nil {
		return err
	}
	if err := d.tr.WriteReg(RegControl2, 0x00); err != nil {
		return err
	}
	if err := d.tr.WriteReg(RegPeriod, PeriodRecommended); err != nil {
		return err
	}
	// Defaults: 10 Hz, 2 Gauss, oversample 512 (code 0 for each field).
	if err := d.tr.UpdateBits(RegControl1, ODRMask, 0<<ODRShift); err != nil {
		return err
	}
	if err := d.tr.UpdateBits(RegControl1, RNGMask, 0<<RNGShift); err != nil {
		return err
	}
	if err := d.tr.UpdateBits(RegControl1, OSRMask, 0<<OSRShift); err != nil {
		return err
	}
	return d.tr.UpdateBits(RegControl1, ModeMask, ModeCont)
}

// Name returns the instance name given at construction.
func (d *Device) Name() string { return d.name }

// Variant returns the immutable chip descriptor.
func (d *Device) Variant() *ChipInfo { return d.variant }

// Orientation returns the mount matrix, unchanged.
func (d *Device) Orientation() MountMatrix { return d.orient }

// SetMode does a masked update of the mode field in control
// register 1. Transport errors pass through unchanged.
func (d *Device) SetMode(mode byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tr.UpdateBits(RegControl1, ModeMask, mode)
}

// Suspend forces the chip into standby.
func (d *Device) Suspend() error {
	return d.SetMode(ModeStandby)
}

// Resume forces the chip back into continuous measurement.
func (d *Device) Resume() error {
	return d.SetMode(ModeCont)
}

// Close is the teardown path: force standby so the chip stops
// sampling. Failures are logged, not propagated; teardown runs to
// completion either way. The transport stays owned by the caller.
func (d *Device) Close() {
	if err := d.SetMode(ModeStandby); err != nil {
		log.Printf("%s: standby on close: %v", d.name, err)
	}
}

// SetSampleRateCode writes a raw 2-bit rate code, pre-shifted into
// its field.
func (d *Device) SetSampleRateCode(code byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tr.UpdateBits(RegControl1, ODRMask, code<<ODRShift)
}

// SetSampleRate resolves (Hz, millionths) to a rate code and writes
// it. A pair with no exact table match fails with ErrInvalidArgument
// and nothing is written.
func (d *Device) SetSampleRate(hz, frac int) error {
	code, err := d.variant.RateCode(hz, frac)
	if err != nil {
		return err
	}
	return d.SetSampleRateCode(code)
}

// ReadSampleRate reads and decodes the rate field into
// (Hz, millionths).
func (d *Device) ReadSampleRate() (int, int, error) {
	d.mu.Lock()
	ctl, err := d.tr.ReadReg(RegControl1)
	d.mu.Unlock()
	if err != nil {
		return 0, 0, err
	}
	return d.variant.SampleRate((ctl & ODRMask) >> ODRShift)
}

// SetOversamplingRatio resolves (ratio, millionths) to a code and
// writes it.
func (d *Device) SetOversamplingRatio(ratio, frac int) error {
	code, err := d.variant.OversampleCode(ratio, frac)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tr.UpdateBits(RegControl1, OSRMask, code<<OSRShift)
}

// ReadOversamplingRatio reads and decodes the oversample field.
func (d *Device) ReadOversamplingRatio() (int, int, error) {
	d.mu.Lock()
	ctl, err := d.tr.ReadReg(RegControl1)
	d.mu.Unlock()
	if err != nil {
		return 0, 0, err
	}
	return d.variant.Oversample((ctl & OSRMask) >> OSRShift)
}

// SetScale resolves a full-scale value in Gauss to a range code and
// writes it.
func (d *Device) SetScale(gauss int) error {
	code, err := d.variant.GainCode(gauss)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tr.UpdateBits(RegControl1, RNGMask, code<<RNGShift)
}

// ReadScale reads the range field and returns the full-scale value in
// Gauss. A reserved range code fails with ErrInvalidState.
func (d *Device) ReadScale() (int, error) {
	d.mu.Lock()
	ctl, err := d.tr.ReadReg(RegControl1)
	d.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return d.variant.Gain((ctl & RNGMask) >> RNGShift)
}

// ReadTemperature returns the die temperature in degrees Celsius.
// The sensor reports 100 LSB per degree; only the gradient is
// factory calibrated, the offset is not.
func (d *Device) ReadTemperature() (float64, error) {
	d.mu.Lock()
	buf, err := d.tr.ReadBlock(RegTempLow, 2)
	d.mu.Unlock()
	if err != nil {
		return 0, err
	}
	raw := int16(binary.LittleEndian.Uint16(buf))
	return float64(raw) / 100.0, nil
}

// ReadRegister reads one register under the device lock. For the
// register debug tool.
func (d *Device) ReadRegister(reg byte) (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tr.ReadReg(reg)
}

// WriteRegister writes one register under the device lock. For the
// register debug tool.
func (d *Device) WriteRegister(reg, val byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tr.WriteReg(reg, val)
}
