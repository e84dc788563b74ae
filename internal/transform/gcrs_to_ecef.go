// Package transform provides the coordinate frame transformations behind the
// visibility calculator.
//
// The primary transform is GCRS (Geocentric Celestial Reference System, the
// quasi-inertial frame satellite positions are given in) to ECEF (ITRS, the
// Earth-fixed frame observers live in), following the IAU 2006/2000 CIO-based
// chain:
//
//	r_ECEF = W · R · C · r_GCRS
//
// where C is precession-nutation (GCRS → CIRS), R is Earth rotation through
// the Earth Rotation Angle (CIRS → TIRS) and W is polar motion (TIRS → ITRS).
//
// Inputs are assumed to be validated by the caller. Nothing in this package
// returns an error; NaN or infinite inputs propagate into the outputs.
//
// Reference: IERS Conventions (2010), IERS Technical Note 36, Ch. 5.
package transform

// PositionGCRS is a position in the GCRS frame, meters.
type PositionGCRS struct {
	X, Y, Z float64
}

// PositionECEF is a position in the Earth-fixed ITRS frame, meters.
type PositionECEF struct {
	X, Y, Z float64
}

// Vec returns the position as an unlabelled vector.
func (p PositionGCRS) Vec() Vec3 { return Vec3(p) }

// Vec returns the position as an unlabelled vector.
func (p PositionECEF) Vec() Vec3 { return Vec3(p) }

// CelestialToTerrestrial composes the full GCRS→ITRS matrix W·R·C from the
// precession-nutation matrix c, Earth rotation matrix r and polar motion
// matrix w. The order follows from the frame chain and must not change.
func CelestialToTerrestrial(c, r, w Matrix) Matrix {
	return w.Mul(r).Mul(c)
}

// GCRSToECEF applies a celestial-to-terrestrial matrix to a GCRS position.
func GCRSToECEF(pos PositionGCRS, m Matrix) PositionECEF {
	return PositionECEF(m.Apply(pos.Vec()))
}

// ECEFToGCRS inverts GCRSToECEF using the transpose of m.
func ECEFToGCRS(pos PositionECEF, m Matrix) PositionGCRS {
	return PositionGCRS(m.Transpose().Apply(pos.Vec()))
}

// FrameTransformer wires the time scales, Earth rotation, precession-nutation
// and polar motion together so callers never compose the factors by hand.
// The zero value uses IAU2006Series.
type FrameTransformer struct {
	PN PrecessionNutation
}

// NewFrameTransformer returns a FrameTransformer backed by pn, or by
// IAU2006Series when pn is nil.
func NewFrameTransformer(pn PrecessionNutation) FrameTransformer {
	if pn == nil {
		pn = IAU2006Series{}
	}
	return FrameTransformer{PN: pn}
}

// Matrix returns the GCRS→ITRS matrix for the given TT instant and Earth
// orientation parameters.
func (ft FrameTransformer) Matrix(jd JDTT, eop EOP) Matrix {
	pn := ft.PN
	if pn == nil {
		pn = IAU2006Series{}
	}
	c := pn.Matrix(jd)
	r := EarthRotationMatrix(UT1FromTT(jd, eop))
	w := PolarMotionMatrix(eop.XpArcsec, eop.YpArcsec)
	return CelestialToTerrestrial(c, r, w)
}

// ToECEF transforms a GCRS position at the given TT instant to ECEF.
func (ft FrameTransformer) ToECEF(pos PositionGCRS, jd JDTT, eop EOP) PositionECEF {
	return GCRSToECEF(pos, ft.Matrix(jd, eop))
}
