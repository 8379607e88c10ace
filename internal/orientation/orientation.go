package orientation

import (
	"math"
)

// Heading is the canonical compass representation for your app.
type Heading struct {
	Degrees float64 `json:"degrees"`
}

// Source is anything that can provide headings over time.
// Later you'll have: mock source, live magnetometer source, maybe
// replay source from file, etc.
type Source interface {
	Next() (Heading, error)
}

// HeadingFromMag computes the compass heading from the horizontal
// field components, normalized to [0, 360). Assumes the sensor is
// level; tilt compensation would need an accelerometer.
//
//	heading = atan2(my, mx)
func HeadingFromMag(mx, my float64) Heading {
	deg := math.Atan2(my, mx) * 180.0 / math.Pi
	if deg < 0 {
		deg += 360.0
	}
	return Heading{Degrees: deg}
}
