// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package qmc5883

import (
	"fmt"
	"strings"
)

// ChipID selects a chip variant at construction time.
type ChipID int

// Supported variants.
const (
	QMC5883L ChipID = iota
)

// Channel describes one entry of the scan layout.
type Channel struct {
	Name      string
	ScanIndex int
	Bits      int
	Signed    bool
}

// ChipInfo is the immutable per-variant descriptor: channel layout and
// the lookup tables between 2-bit register codes and physical values.
// Rate and oversample entries are (value, fraction) pairs; fraction is
// in millionths, matching how the attribute surface reports them.
type ChipInfo struct {
	Name            string
	Channels        []Channel
	RateTable       [][2]int
	OversampleTable [][2]int
	GainTable       []int // full-scale in Gauss; missing codes are reserved
}

var chipInfoTbl = map[ChipID]*ChipInfo{
	QMC5883L: {
		Name: "qmc5883l",
		Channels: []Channel{
			{Name: "x", ScanIndex: 0, Bits: 16, Signed: true},
			{Name: "y", ScanIndex: 1, Bits: 16, Signed: true},
			{Name: "z", ScanIndex: 2, Bits: 16, Signed: true},
			{Name: "timestamp", ScanIndex: 3, Bits: 64, Signed: true},
		},
		RateTable:       [][2]int{{10, 0}, {50, 0}, {100, 0}, {200, 0}},
		OversampleTable: [][2]int{{512, 0}, {256, 0}, {128, 0}, {64, 0}},
		GainTable:       []int{2, 8},
	},
}

// ChipInfoByID resolves the variant descriptor for a chip identity.
func ChipInfoByID(id ChipID) (*ChipInfo, error) {
	info, ok := chipInfoTbl[id]
	if !ok {
		return nil, fmt.Errorf("unknown chip id %d: %w", id, ErrInvalidArgument)
	}
	return info, nil
}

// SampleRate decodes a 2-bit rate code into (Hz, millionths).
func (c *ChipInfo) SampleRate(code byte) (int, int, error) {
	if int(code) >= len(c.RateTable) {
		return 0, 0, fmt.Errorf("rate code %d: %w", code, ErrInvalidState)
	}
	e := c.RateTable[code]
	return e[0], e[1], nil
}

// RateCode is the reverse lookup: both components must match exactly.
func (c *ChipInfo) RateCode(hz, frac int) (byte, error) {
	for i, e := range c.RateTable {
		if e[0] == hz && e[1] == frac {
			return byte(i), nil
		}
	}
	return 0, fmt.Errorf("sample rate %d.%06d Hz: %w", hz, frac, ErrInvalidArgument)
}

// Oversample decodes a 2-bit oversample code into (ratio, millionths).
func (c *ChipInfo) Oversample(code byte) (int, int, error) {
	if int(code) >= len(c.OversampleTable) {
		return 0, 0, fmt.Errorf("oversample code %d: %w", code, ErrInvalidState)
	}
	e := c.OversampleTable[code]
	return e[0], e[1], nil
}

// OversampleCode is the reverse lookup for oversampling ratios.
func (c *ChipInfo) OversampleCode(ratio, frac int) (byte, error) {
	for i, e := range c.OversampleTable {
		if e[0] == ratio && e[1] == frac {
			return byte(i), nil
		}
	}
	return 0, fmt.Errorf("oversample ratio %d.%06d: %w", ratio, frac, ErrInvalidArgument)
}

// Gain decodes a 2-bit range code into the full-scale value in Gauss.
// Codes past the table are reserved on this chip family.
func (c *ChipInfo) Gain(code byte) (int, error) {
	if int(code) >= len(c.GainTable) {
		return 0, fmt.Errorf("range code %d: %w", code, ErrInvalidState)
	}
	return c.GainTable[code], nil
}

// GainCode is the reverse lookup for full-scale ranges.
func (c *ChipInfo) GainCode(gauss int) (byte, error) {
	for i, g := range c.GainTable {
		if g == gauss {
			return byte(i), nil
		}
	}
	return 0, fmt.Errorf("full scale %dG: %w", gauss, ErrInvalidArgument)
}

// AvailableSampleRates lists the supported rates in register-code
// order, formatted for the attribute surface.
func (c *ChipInfo) AvailableSampleRates() string {
	return formatPairs(c.RateTable)
}

// AvailableOversampleRatios lists the supported oversampling ratios.
func (c *ChipInfo) AvailableOversampleRatios() string {
	return formatPairs(c.OversampleTable)
}

// AvailableScales lists the supported full-scale ranges in Gauss.
func (c *ChipInfo) AvailableScales() string {
	var b strings.Builder
	for i, g := range c.GainTable {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", g)
	}
	return b.String()
}

func formatPairs(tbl [][2]int) string {
	var b strings.Builder
	for i, e := range tbl {
		if i > 0 {
			b.WriteByte(' ')
		}
		if e[1] == 0 {
			fmt.Fprintf(&b, "%d", e[0])
		} else {
			fmt.Fprintf(&b, "%d.%06d", e[0], e[1])
		}
	}
	return b.String()
}
