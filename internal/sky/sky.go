// Package sky holds the small amount of spherical astronomy the dataset
// builder needs.
package sky

import (
	"github.com/soniakeys/meeus/v3/angle"
	"github.com/soniakeys/unit"
)

// Separation returns the angular distance in degrees between two equatorial
// positions given in degrees
func Separation(ra1, dec1, ra2, dec2 float64) float64 {
	return angle.Sep(
		unit.AngleFromDeg(ra1), unit.AngleFromDeg(dec1),
		unit.AngleFromDeg(ra2), unit.AngleFromDeg(dec2),
	).Deg()
}

// Within reports whether two positions lie within limit degrees of each other
func Within(ra1, dec1, ra2, dec2, limit float64) bool {
	return Separation(ra1, dec1, ra2, dec2) < limit
}
