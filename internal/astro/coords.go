// Package astro provides the sky math used to place catalog stars on the map.
package astro

import "math"

// Projection maps equatorial coordinates onto a flat map using a simple
// equirectangular projection. X grows westward (RA decreases left to right)
// and Y grows southward.
type Projection struct {
	Width  float64
	Height float64
}

// DefaultProjection returns the 10000x10000 map used by the fixtures.
func DefaultProjection() Projection {
	return Projection{Width: 10000, Height: 10000}
}

// Project converts RA/Dec in radians to map coordinates.
//
// RA is reduced modulo 2π (keeping its sign, so negative inputs land past the
// right edge); Dec is expected in [-π/2, π/2].
func (p Projection) Project(raRad, decRad float64) (x, y float64) {
	ra := math.Mod(raRad, 2*math.Pi)
	x = p.Width * (1 - ra/(2*math.Pi))
	y = p.Height * (0.5 - decRad/math.Pi)
	return x, y
}

// AngularSeparation calculates the angular separation between two points on the celestial sphere.
// All coordinates in degrees. Returns separation in degrees.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	ra1Rad := degToRad(ra1)
	dec1Rad := degToRad(dec1)
	ra2Rad := degToRad(ra2)
	dec2Rad := degToRad(dec2)

	// Haversine formula for angular separation
	dRA := ra2Rad - ra1Rad
	dDec := dec2Rad - dec1Rad

	a := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1Rad)*math.Cos(dec2Rad)*math.Sin(dRA/2)*math.Sin(dRA/2)

	// Clamp to avoid numerical errors with asin
	if a > 1 {
		a = 1
	}

	return radToDeg(2 * math.Asin(math.Sqrt(a)))
}

// HoursToDegrees converts right ascension in hours to degrees.
func HoursToDegrees(h float64) float64 {
	return h * 15
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
