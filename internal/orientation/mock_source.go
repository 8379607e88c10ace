// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

// MockSource sweeps the heading around the compass rose, for wiring
// tests without hardware.
type MockSource struct {
	deg  float64
	step float64
}

// NewMockSource returns a source that advances 5 degrees per call.
func NewMockSource() *MockSource {
	return &MockSource{step: 5.0}
}

func (m *MockSource) Next() (Heading, error) {
	h := Heading{Degrees: m.deg}
	m.deg += m.step
	if m.deg >= 360.0 {
		m.deg -= 360.0
	}
	return h, nil
}
