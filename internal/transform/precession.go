package transform

import (
	"math"

	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/unit"
)

// PrecessionNutation supplies the celestial-to-intermediate matrix C that
// carries GCRS vectors into the Celestial Intermediate Reference System.
// Implementations must return an orthonormal matrix.
type PrecessionNutation interface {
	Matrix(jd JDTT) Matrix
}

// CIP holds the Celestial Intermediate Pole coordinates X, Y and the CIO
// locator s, all in radians.
type CIP struct {
	X, Y, S float64
}

// CelestialToIntermediate builds the GCRS→CIRS matrix from the CIP
// coordinates and CIO locator (IERS Conventions 2010, Eq. 5.10):
//
//	C = R3(-(E+s)) · R2(d) · R3(E)
//
// with E = atan2(Y, X) and d = atan(√((X²+Y²) / (1-X²-Y²))).
// It returns the identity exactly when X = Y = s = 0.
func CelestialToIntermediate(p CIP) Matrix {
	r2 := p.X*p.X + p.Y*p.Y
	var e float64
	if r2 > 0 {
		e = math.Atan2(p.Y, p.X)
	}
	d := math.Atan(math.Sqrt(r2 / (1 - r2)))
	return R3(-(e + p.S)).Mul(R2(d)).Mul(R3(e))
}

// IAU2006Series is the default PrecessionNutation provider. Precession uses
// the IAU 2006 Fukushima-Williams angles; nutation in longitude and obliquity
// comes from the abridged series in Meeus, "Astronomical Algorithms", Ch. 22.
// The CIP agrees with the full IAU 2006/2000A model to about one arcsecond,
// a few meters at low-Earth-orbit range.
type IAU2006Series struct{}

// Fukushima-Williams precession angles, arcseconds, polynomial in Julian
// centuries TT since J2000.0 (IERS Conventions 2010, Eq. 5.40). Coefficients
// are listed from t⁰ to t⁵.
var (
	fwGamma = [6]float64{-0.052928, 10.556378, 0.4932044, -0.00031238, -0.000002788, 0.0000000260}
	fwPhi   = [6]float64{84381.412819, -46.811016, 0.0511268, 0.00053289, -0.000000440, -0.0000000176}
	fwPsi   = [6]float64{-0.041775, 5038.481484, 1.5584175, -0.00018522, -0.000026452, -0.0000000148}
	fwEps   = [6]float64{84381.406, -46.836769, -0.0001831, 0.00200340, -0.000000576, -0.0000000434}
)

// polyArcsec evaluates a Horner polynomial in arcseconds and returns radians.
func polyArcsec(c [6]float64, t float64) float64 {
	v := c[5]
	for i := 4; i >= 0; i-- {
		v = v*t + c[i]
	}
	return unit.AngleFromSec(v).Rad()
}

// CIP returns the pole coordinates and CIO locator at the given TT instant.
func (IAU2006Series) CIP(jd JDTT) CIP {
	t := jd.J2000Offset() / 36525.0

	gamma := polyArcsec(fwGamma, t)
	phi := polyArcsec(fwPhi, t)
	psi := polyArcsec(fwPsi, t)
	eps := polyArcsec(fwEps, t)

	dPsi, dEps := nutation.Nutation(float64(jd))

	// Bias-precession-nutation matrix; the CIP is its third row.
	npb := R1(-(eps + dEps.Rad())).
		Mul(R3(-(psi + dPsi.Rad()))).
		Mul(R1(phi)).
		Mul(R3(gamma))

	x, y := npb[2][0], npb[2][1]

	// The series part of s + XY/2 stays under 0.1 mas until well past 2100.
	return CIP{X: x, Y: y, S: -x * y / 2}
}

// Matrix implements PrecessionNutation.
func (s IAU2006Series) Matrix(jd JDTT) Matrix {
	return CelestialToIntermediate(s.CIP(jd))
}

// IdentityPrecession is a PrecessionNutation that applies no precession or
// nutation. Use it when the input positions are already in CIRS.
type IdentityPrecession struct{}

// Matrix implements PrecessionNutation.
func (IdentityPrecession) Matrix(JDTT) Matrix {
	return Identity()
}
