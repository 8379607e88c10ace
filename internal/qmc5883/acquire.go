// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package qmc5883

import (
	"encoding/binary"
	"fmt"
	"time"
)

// The chip has no interrupt line in this design, so readiness is a
// bounded status poll: 150 attempts 20 ms apart covers output rates
// down to a few Hz (~3 s worst case) without parking the device lock
// forever behind a stalled sensor.
const (
	readyPollInterval = 20 * time.Millisecond
	readyPollAttempts = 150
)

// pollUntil invokes check up to attempts times, sleeping interval
// between tries. It returns nil as soon as the condition holds,
// ErrTimeout when every attempt is exhausted, and the check's error
// verbatim if one occurs.
func pollUntil(interval time.Duration, attempts int, sleep func(time.Duration), check func() (bool, error)) error {
	for i := 0; i < attempts; i++ {
		if i > 0 {
			sleep(interval)
		}
		ok, err := check()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrTimeout
}

// waitReady polls the status register for DRDY. Caller must hold
// d.mu.
func (d *Device) waitReady() error {
	return pollUntil(readyPollInterval, readyPollAttempts, d.sleep, func() (bool, error) {
		status, err := d.tr.ReadReg(RegStatus)
		if err != nil {
			return false, err
		}
		return status&StatusDRDY != 0, nil
	})
}

// acquire waits for data ready and performs the single 6-byte bulk
// read of the axis block. The lock is held for the whole transaction
// and released by the caller; on any failure no partial data is
// produced.
func (d *Device) acquire() ([]byte, error) {
	if err := d.waitReady(); err != nil {
		return nil, err
	}
	return d.tr.ReadBlock(RegDataOut, DataOutLen)
}

// ReadAxis performs one measurement and returns the selected channel
// sign-extended from bit 15. The other two freshly read axes are
// discarded; this is the single-shot direct-read path.
func (d *Device) ReadAxis(idx int) (int32, error) {
	if idx < 0 || idx >= 3 {
		return 0, fmt.Errorf("axis index %d: %w", idx, ErrInvalidArgument)
	}
	d.mu.Lock()
	buf, err := d.acquire()
	d.mu.Unlock()
	if err != nil {
		return 0, err
	}
	raw := binary.LittleEndian.Uint16(buf[2*idx:])
	return int32(int16(raw)), nil
}

// ReadScan performs one measurement, fills the device's scan buffer
// with the three raw channel words and stamps it. This is the
// triggered-capture path; sign interpretation stays with the
// consumer.
func (d *Device) ReadScan() (Scan, error) {
	d.mu.Lock()
	buf, err := d.acquire()
	if err != nil {
		d.mu.Unlock()
		return Scan{}, err
	}
	for i := range d.scan.Chans {
		d.scan.Chans[i] = binary.LittleEndian.Uint16(buf[2*i:])
	}
	d.scan.Timestamp = time.Now().UnixNano()
	scan := d.scan
	d.mu.Unlock()
	return scan, nil
}

// ReadStatus returns the raw status register, exposing the overflow
// and data-skipped flags alongside DRDY.
func (d *Device) ReadStatus() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tr.ReadReg(RegStatus)
}
