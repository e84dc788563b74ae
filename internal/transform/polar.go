package transform

import "github.com/soniakeys/unit"

// PolarMotionMatrix returns the polar motion matrix W for pole offsets given
// in arcseconds. As vector rotations W = R2(xp)·R1(yp); with the frame
// rotations of this package that is R2(-xp)·R1(-yp), so the third column is
// (xp, -yp, 1) to first order. R1 and R2 do not commute.
//
// The IERS TIO locator s' is below 0.1 mas over the whole century and is not
// applied.
func PolarMotionMatrix(xpArcsec, ypArcsec float64) Matrix {
	xp := unit.AngleFromSec(xpArcsec).Rad()
	yp := unit.AngleFromSec(ypArcsec).Rad()
	return R2(-xp).Mul(R1(-yp))
}
