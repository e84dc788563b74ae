package visibility

import "github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/transform"

// Query holds every input of a single visibility evaluation. Values are
// assumed to be validated already (see package input).
type Query struct {
	Satellite       transform.PositionGCRS
	Epoch           transform.JDTT
	EOP             transform.EOP
	Observer        transform.Geodetic
	MinElevationDeg float64
}

// Result is the outcome of one evaluation.
type Result struct {
	ECEF         transform.PositionECEF // satellite, Earth-fixed, meters
	ENU          transform.ENU          // satellite relative to observer, meters
	ElevationDeg float64
	AzimuthDeg   float64 // 0 = North, clockwise
	RangeM       float64
	Visible      bool
	SubSatellite transform.Geodetic // point on the ellipsoid below the satellite
	EpochUT1     transform.JDUT1
}
