// Package input turns raw textual fields into a validated visibility query.
// Every field is checked; failures are reported together as a
// *ValidationError holding one *FieldError per offending field.
package input

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/transform"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/visibility"
)

// Field names shared by the HTTP API, the CLI and error reports.
const (
	FieldX            = "x"
	FieldY            = "y"
	FieldZ            = "z"
	FieldJDOffsetTT   = "jd_offset_tt"
	FieldEpochUTC     = "epoch_utc"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
	FieldHeight       = "height"
	FieldMinElevation = "min_elevation"
	FieldLeapSeconds  = "leap_seconds"
	FieldUseEOP       = "use_eop"
	FieldDUT1         = "dut1"
	FieldXp           = "xp"
	FieldYp           = "yp"
)

// FieldNames lists every accepted field in form order.
var FieldNames = []string{
	FieldX, FieldY, FieldZ,
	FieldJDOffsetTT, FieldEpochUTC,
	FieldLatitude, FieldLongitude, FieldHeight,
	FieldMinElevation, FieldLeapSeconds,
	FieldUseEOP, FieldDUT1, FieldXp, FieldYp,
}

// Range is an inclusive bound on a numeric field.
type Range struct {
	Min, Max float64
}

// Unbounded accepts any finite value.
var Unbounded = Range{Min: math.Inf(-1), Max: math.Inf(1)}

var (
	latitudeRange     = Range{Min: -90, Max: 90}
	longitudeRange    = Range{Min: -180, Max: 180}
	minElevationRange = Range{Min: -90, Max: 90}
	eopRange          = Range{Min: -1, Max: 1}
)

const (
	minLeapSeconds = 0
	maxLeapSeconds = 100
)

// Form holds the raw, unvalidated text of every input field.
type Form struct {
	X, Y, Z      string // satellite GCRS position, meters
	JDOffsetTT   string // days since J2000.0, TT
	EpochUTC     string // RFC 3339 alternative to JDOffsetTT
	Latitude     string // degrees
	Longitude    string // degrees
	Height       string // meters
	MinElevation string // degrees
	LeapSeconds  string
	UseEOP       string // when false, DUT1/Xp/Yp are ignored and taken as 0
	DUT1         string // seconds
	Xp, Yp       string // arcseconds
}

// FormFromValues reads a Form from URL query or form values keyed by the
// Field* names.
func FormFromValues(v url.Values) Form {
	return Form{
		X:            v.Get(FieldX),
		Y:            v.Get(FieldY),
		Z:            v.Get(FieldZ),
		JDOffsetTT:   v.Get(FieldJDOffsetTT),
		EpochUTC:     v.Get(FieldEpochUTC),
		Latitude:     v.Get(FieldLatitude),
		Longitude:    v.Get(FieldLongitude),
		Height:       v.Get(FieldHeight),
		MinElevation: v.Get(FieldMinElevation),
		LeapSeconds:  v.Get(FieldLeapSeconds),
		UseEOP:       v.Get(FieldUseEOP),
		DUT1:         v.Get(FieldDUT1),
		Xp:           v.Get(FieldXp),
		Yp:           v.Get(FieldYp),
	}
}

// Query validates the form and builds a visibility query.
// The returned error, if any, is a *ValidationError.
func (f Form) Query() (visibility.Query, error) {
	var c collector
	var q visibility.Query

	float := func(field, raw string, r Range) float64 {
		v, err := ParseFloat(field, raw, r)
		c.add(err)
		return v
	}

	q.Satellite = transform.PositionGCRS{
		X: float(FieldX, f.X, Unbounded),
		Y: float(FieldY, f.Y, Unbounded),
		Z: float(FieldZ, f.Z, Unbounded),
	}
	q.Observer = transform.Geodetic{
		LatDeg:  float(FieldLatitude, f.Latitude, latitudeRange),
		LonDeg:  float(FieldLongitude, f.Longitude, longitudeRange),
		HeightM: float(FieldHeight, f.Height, Unbounded),
	}
	q.MinElevationDeg = float(FieldMinElevation, f.MinElevation, minElevationRange)

	leap, leapErr := ParseInt(FieldLeapSeconds, f.LeapSeconds, minLeapSeconds, maxLeapSeconds)
	c.add(leapErr)
	q.EOP.LeapSeconds = leap

	useEOP, err := ParseBool(FieldUseEOP, f.UseEOP)
	c.add(err)
	if useEOP {
		q.EOP.DUT1 = float(FieldDUT1, f.DUT1, eopRange)
		q.EOP.XpArcsec = float(FieldXp, f.Xp, eopRange)
		q.EOP.YpArcsec = float(FieldYp, f.Yp, eopRange)
	}

	switch {
	case strings.TrimSpace(f.EpochUTC) != "" && strings.TrimSpace(f.JDOffsetTT) != "":
		c.add(&FieldError{Field: FieldEpochUTC, Constraint: "cannot be combined with " + FieldJDOffsetTT})
	case strings.TrimSpace(f.EpochUTC) != "":
		t, err := ParseTime(FieldEpochUTC, f.EpochUTC)
		c.add(err)
		if err == nil && leapErr == nil {
			q.Epoch = transform.TTFromUTC(t, leap)
		}
	default:
		q.Epoch = transform.TTFromJ2000Offset(float(FieldJDOffsetTT, f.JDOffsetTT, Unbounded))
	}

	if err := c.err(); err != nil {
		return visibility.Query{}, err
	}
	return q, nil
}

// ParseFloat parses a finite number within r. Surrounding space is ignored
// and a comma is accepted as the decimal separator.
func ParseFloat(field, raw string, r Range) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &FieldError{Field: field, Constraint: "is required"}
	}
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &FieldError{Field: field, Constraint: "must be a number"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FieldError{Field: field, Constraint: "must be a finite number"}
	}
	if v < r.Min {
		return 0, &FieldError{Field: field, Constraint: fmt.Sprintf("must be >= %g", r.Min)}
	}
	if v > r.Max {
		return 0, &FieldError{Field: field, Constraint: fmt.Sprintf("must be <= %g", r.Max)}
	}
	return v, nil
}

// ParseInt parses an integer within [lo, hi].
func ParseInt(field, raw string, lo, hi int) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &FieldError{Field: field, Constraint: "is required"}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FieldError{Field: field, Constraint: "must be an integer"}
	}
	if v < lo {
		return 0, &FieldError{Field: field, Constraint: fmt.Sprintf("must be >= %d", lo)}
	}
	if v > hi {
		return 0, &FieldError{Field: field, Constraint: fmt.Sprintf("must be <= %d", hi)}
	}
	return v, nil
}

// ParseBool parses a boolean flag. An empty value is false.
func ParseBool(field, raw string) (bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, &FieldError{Field: field, Constraint: "must be a boolean"}
	}
	return v, nil
}

// ParseTime parses an RFC 3339 timestamp.
func ParseTime(field, raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, &FieldError{Field: field, Constraint: "must be an RFC 3339 timestamp"}
	}
	return t, nil
}
