package transform

import "math"

// WGS-84 ellipsoid parameters.
const (
	wgs84A  = 6378137.0             // semi-major axis (meters)
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Geodetic is a position on the WGS-84 ellipsoid.
type Geodetic struct {
	LatDeg  float64 // [-90, 90]
	LonDeg  float64 // [-180, 180]
	HeightM float64 // above the ellipsoid
}

// ObserverPosition holds a ground observer's location in both geodetic and ECEF frames.
// ECEF coordinates are precomputed once so they can be reused for every projection.
type ObserverPosition struct {
	Geodetic
	LatRad, LonRad float64
	ECEF           PositionECEF
}

// NewObserverPosition creates an ObserverPosition from geodetic coordinates.
// Latitude and longitude are in degrees, height in meters above the WGS-84 ellipsoid.
func NewObserverPosition(latDeg, lonDeg, heightM float64) ObserverPosition {
	lat := latDeg * degToRad
	lon := lonDeg * degToRad

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	// Radius of curvature in the prime vertical.
	N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return ObserverPosition{
		Geodetic: Geodetic{LatDeg: latDeg, LonDeg: lonDeg, HeightM: heightM},
		LatRad:   lat,
		LonRad:   lon,
		ECEF: PositionECEF{
			X: (N + heightM) * cosLat * cosLon,
			Y: (N + heightM) * cosLat * sinLon,
			Z: (N*(1-wgs84E2) + heightM) * sinLat,
		},
	}
}

// ECEFToGeodetic converts an ECEF position to geodetic coordinates
// using the iterative Bowring method. Converges in 2-3 iterations for Earth orbits.
func ECEFToGeodetic(pos PositionECEF) Geodetic {
	x, y, z := pos.X, pos.Y, pos.Z
	lon := math.Atan2(y, x)

	p := math.Hypot(x, y)

	// Initial estimate using Bowring's method.
	lat := math.Atan2(z, p*(1-wgs84E2))

	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(z+wgs84E2*N*sinLat, p)
	}

	sinLat, cosLat := math.Sincos(lat)
	N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	var h float64
	if math.Abs(cosLat) > 1e-10 {
		h = p/cosLat - N
	} else {
		h = math.Abs(z)/math.Abs(sinLat) - N*(1-wgs84E2)
	}

	return Geodetic{
		LatDeg:  lat * radToDeg,
		LonDeg:  lon * radToDeg,
		HeightM: h,
	}
}

// ENU is a vector in the observer's local East-North-Up frame, meters.
type ENU struct {
	E, N, U float64
}

// ToENU rotates an ECEF difference vector d (satellite minus observer) into
// the topocentric frame of an observer at the given geodetic latitude and
// longitude (degrees).
func ToENU(d Vec3, latDeg, lonDeg float64) ENU {
	sinLat, cosLat := math.Sincos(latDeg * degToRad)
	sinLon, cosLon := math.Sincos(lonDeg * degToRad)

	return ENU{
		E: -sinLon*d.X + cosLon*d.Y,
		N: -sinLat*cosLon*d.X - sinLat*sinLon*d.Y + cosLat*d.Z,
		U: cosLat*cosLon*d.X + cosLat*sinLon*d.Y + sinLat*d.Z,
	}
}

// ElevationFromENU returns the angle above the local horizontal plane in
// degrees, in [-90, 90].
//
// Coincident positions (E = N = U = 0) report 0° elevation; math.Atan2(0, 0)
// is 0 and this is not treated as an error.
func ElevationFromENU(v ENU) float64 {
	return math.Atan2(v.U, math.Hypot(v.E, v.N)) * radToDeg
}

// AzimuthFromENU returns the azimuth in degrees, 0 = North, measured
// clockwise, in [0, 360).
func AzimuthFromENU(v ENU) float64 {
	az := math.Atan2(v.E, v.N) * radToDeg
	if az < 0 {
		az += 360
	}
	return az
}

// LookAngles holds azimuth, elevation, and range from observer to satellite.
type LookAngles struct {
	AzimuthDeg   float64 // 0 = North, clockwise
	ElevationDeg float64 // 0 = horizon, 90 = zenith
	RangeM       float64
	ENU          ENU
}

// ECEFToLookAngles computes azimuth, elevation, and range from an observer
// to a satellite given in ECEF meters.
func ECEFToLookAngles(obs ObserverPosition, sat PositionECEF) LookAngles {
	d := sat.Vec().Sub(obs.ECEF.Vec())
	enu := ToENU(d, obs.LatDeg, obs.LonDeg)

	return LookAngles{
		AzimuthDeg:   AzimuthFromENU(enu),
		ElevationDeg: ElevationFromENU(enu),
		RangeM:       d.Norm(),
		ENU:          enu,
	}
}

// IsVisible reports whether a satellite at elevationDeg clears the minimum
// elevation threshold. The boundary is inclusive. The threshold may be any
// value: negative thresholds admit sub-horizon passes and thresholds above
// 90° are never met.
func IsVisible(elevationDeg, minElevationDeg float64) bool {
	return elevationDeg >= minElevationDeg
}
