// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package qmc5883

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// Transport is the byte-level register interface of the chip. The
// device serializes every call through its own lock; implementations
// only need to be safe for sequential use.
type Transport interface {
	ReadReg(reg byte) (byte, error)
	WriteReg(reg byte, val byte) error
	ReadBlock(reg byte, n int) ([]byte, error)
	UpdateBits(reg byte, mask byte, val byte) error
}

// I2CTransport implements Transport over a periph.io I2C bus.
type I2CTransport struct {
	dev i2c.Dev
}

// NewI2CTransport wraps an open bus and a device address. The bus
// stays owned by the caller.
func NewI2CTransport(bus i2c.Bus, addr uint16) *I2CTransport {
	return &I2CTransport{dev: i2c.Dev{Bus: bus, Addr: addr}}
}

func (t *I2CTransport) ReadReg(reg byte) (byte, error) {
	var buf [1]byte
	if err := t.dev.Tx([]byte{reg}, buf[:]); err != nil {
		return 0, fmt.Errorf("read reg 0x%02X: %w", reg, err)
	}
	return buf[0], nil
}

func (t *I2CTransport) WriteReg(reg, val byte) error {
	if err := t.dev.Tx([]byte{reg, val}, nil); err != nil {
		return fmt.Errorf("write reg 0x%02X: %w", reg, err)
	}
	return nil
}

func (t *I2CTransport) ReadBlock(reg byte, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := t.dev.Tx([]byte{reg}, buf); err != nil {
		return nil, fmt.Errorf("read block 0x%02X+%d: %w", reg, n, err)
	}
	return buf, nil
}

// UpdateBits does a read-modify-write of the masked field. The write
// is always issued, even when the register already holds the value,
// so repeated mode transitions stay observable on the bus.
func (t *I2CTransport) UpdateBits(reg, mask, val byte) error {
	cur, err := t.ReadReg(reg)
	if err != nil {
		return err
	}
	return t.WriteReg(reg, (cur&^mask)|(val&mask))
}
