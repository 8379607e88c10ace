// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package qmc5883

// Register addresses. The data-out block at 0x00 is contiguous and is
// always read as one 6-byte transfer (X/Y/Z, 16-bit little-endian).
const (
	RegDataOut  = 0x00
	RegStatus   = 0x06
	RegTempLow  = 0x07
	RegTempHigh = 0x08
	RegControl1 = 0x09
	RegControl2 = 0x0A
	RegPeriod   = 0x0B
	RegChipID   = 0x0D
)

// DataOutLen is the size of the data-out block in bytes.
const DataOutLen = 6

// Status register bits.
const (
	StatusDRDY = 0x01 // data ready
	StatusOVL  = 0x02 // measurement overflow
	StatusDOR  = 0x04 // data skipped for reading
)

// Control register 1 fields. Every field is written with a masked
// update pre-shifted into position; a full-byte overwrite would
// clobber the neighbouring fields.
const (
	ModeMask    = 0x03
	ModeStandby = 0x00
	ModeCont    = 0x01

	ODRShift = 2
	ODRMask  = 0x0C

	RNGShift = 4
	RNGMask  = 0x30

	OSRShift = 6
	OSRMask  = 0xC0
)

// Control register 2 bits.
const (
	Ctl2IntEnable = 0x01
	Ctl2RolPnt    = 0x40
	Ctl2SoftReset = 0x80
)

// PeriodRecommended is the SET/RESET period value the datasheet asks
// for after reset.
const PeriodRecommended = 0x01

// ChipIDValue is the fixed contents of the chip-ID register.
const ChipIDValue = 0xFF

// BitField describes one field inside a register, for the register
// debug tool.
type BitField struct {
	Bits        string `json:"bits"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// RegisterInfo holds metadata for one register.
type RegisterInfo struct {
	Address     byte       `json:"address"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R", "W", "RW"
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// RegisterMap returns metadata for all QMC5883L registers.
func RegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: 0x00, Name: "XOUT_L", Description: "X-axis data low byte", Access: "R"},
		{Address: 0x01, Name: "XOUT_H", Description: "X-axis data high byte", Access: "R"},
		{Address: 0x02, Name: "YOUT_L", Description: "Y-axis data low byte", Access: "R"},
		{Address: 0x03, Name: "YOUT_H", Description: "Y-axis data high byte", Access: "R"},
		{Address: 0x04, Name: "ZOUT_L", Description: "Z-axis data low byte", Access: "R"},
		{Address: 0x05, Name: "ZOUT_H", Description: "Z-axis data high byte", Access: "R"},
		{Address: 0x06, Name: "STATUS", Description: "Status register", Access: "R",
			BitFields: []BitField{
				{Bits: "0", Name: "DRDY", Description: "Data ready", Values: "0=Not ready, 1=New data"},
				{Bits: "1", Name: "OVL", Description: "Measurement overflow", Values: "0=Normal, 1=Overflow"},
				{Bits: "2", Name: "DOR", Description: "Data skipped for reading", Values: "0=Normal, 1=Skipped"},
			}},
		{Address: 0x07, Name: "TOUT_L", Description: "Temperature data low byte", Access: "R"},
		{Address: 0x08, Name: "TOUT_H", Description: "Temperature data high byte", Access: "R"},
		{Address: 0x09, Name: "CONTROL_1", Description: "Control register 1", Access: "RW",
			BitFields: []BitField{
				{Bits: "1:0", Name: "MODE", Description: "Operating mode", Values: "0=Standby, 1=Continuous"},
				{Bits: "3:2", Name: "ODR", Description: "Output data rate", Values: "0=10Hz, 1=50Hz, 2=100Hz, 3=200Hz"},
				{Bits: "5:4", Name: "RNG", Description: "Full-scale range", Values: "0=2G, 1=8G"},
				{Bits: "7:6", Name: "OSR", Description: "Oversample ratio", Values: "0=512, 1=256, 2=128, 3=64"},
			}},
		{Address: 0x0A, Name: "CONTROL_2", Description: "Control register 2", Access: "RW",
			BitFields: []BitField{
				{Bits: "0", Name: "INT_ENB", Description: "Interrupt pin enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6", Name: "ROL_PNT", Description: "Pointer roll-over", Values: "0=Normal, 1=Roll 0x00-0x06"},
				{Bits: "7", Name: "SOFT_RST", Description: "Soft reset", Values: "1=Reset registers"},
			}},
		{Address: 0x0B, Name: "SET/RESET_PERIOD", Description: "SET/RESET period (write 0x01)", Access: "RW"},
		{Address: 0x0D, Name: "CHIP_ID", Description: "Chip identification (always 0xFF)", Access: "R"},
	}
}
