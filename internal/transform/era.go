package transform

import "math"

// IAU 2000 Earth Rotation Angle coefficients (IERS Conventions 2010, Eq. 5.15):
//
//	ERA(Du) = 2π (0.7790572732640 + 1.00273781191135448 Du)
//
// where Du is the number of UT1 days since J2000.0.
const (
	eraAtJ2000 = 0.7790572732640
	eraRate    = 1.00273781191135448
)

// EarthRotationAngle returns the Earth Rotation Angle in radians, in [0, 2π),
// for the given UT1 instant.
func EarthRotationAngle(jd JDUT1) float64 {
	du := float64(jd) - J2000

	// math.Mod keeps the sign of its argument, so fold negative remainders
	// back into [0, 1) to get a true fractional turn for dates before J2000.
	f := math.Mod(eraAtJ2000+eraRate*du, 1.0)
	if f < 0 {
		f += 1.0
	}
	if f >= 1.0 {
		f = 0
	}
	return 2 * math.Pi * f
}

// EarthRotationMatrix returns R3(ERA), the rotation from the Celestial to the
// Terrestrial Intermediate Reference System.
func EarthRotationMatrix(jd JDUT1) Matrix {
	return R3(EarthRotationAngle(jd))
}
