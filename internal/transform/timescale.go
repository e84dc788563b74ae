package transform

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// J2000 is the Julian Date of the J2000.0 epoch (January 1, 2000, 12:00:00 TT).
const J2000 = 2451545.0

const (
	secondsPerDay = 86400.0

	// ttMinusTAI is the fixed offset TT - TAI in seconds.
	ttMinusTAI = 32.184
)

// Julian dates are tagged with their time scale through distinct types.
// Moving a date from one scale to another goes through the converters in
// this file; a plain float64 conversion between them is a bug.
type (
	// JDTT is a Julian Date on the Terrestrial Time scale.
	JDTT float64
	// JDUTC is a Julian Date on the UTC scale.
	JDUTC float64
	// JDUT1 is a Julian Date on the UT1 scale.
	JDUT1 float64
)

// EOP holds the Earth orientation parameters needed for a single epoch.
type EOP struct {
	LeapSeconds int     // TAI - UTC, whole seconds
	DUT1        float64 // UT1 - UTC, seconds
	XpArcsec    float64 // polar motion x, arcseconds
	YpArcsec    float64 // polar motion y, arcseconds
}

// DefaultEOP returns the leap second count in force since 2017 with no DUT1
// or polar motion correction.
func DefaultEOP() EOP {
	return EOP{LeapSeconds: 37}
}

// TTFromJ2000Offset converts a day offset from J2000.0 on the TT scale to a
// full Julian Date.
func TTFromJ2000Offset(days float64) JDTT {
	return JDTT(J2000 + days)
}

// J2000Offset returns the number of TT days since J2000.0.
func (jd JDTT) J2000Offset() float64 {
	return float64(jd) - J2000
}

// TTMinusUTC returns TT - UTC in seconds for the given leap second count.
func TTMinusUTC(leapSeconds int) float64 {
	return ttMinusTAI + float64(leapSeconds)
}

// UTCFromTT converts JD(TT) to JD(UTC).
func UTCFromTT(jd JDTT, leapSeconds int) JDUTC {
	return JDUTC(float64(jd) - TTMinusUTC(leapSeconds)/secondsPerDay)
}

// UT1FromUTC converts JD(UTC) to JD(UT1) given DUT1 = UT1 - UTC in seconds.
func UT1FromUTC(jd JDUTC, dut1 float64) JDUT1 {
	return JDUT1(float64(jd) + dut1/secondsPerDay)
}

// UT1FromTT converts JD(TT) to JD(UT1) through UTC.
func UT1FromTT(jd JDTT, eop EOP) JDUT1 {
	return UT1FromUTC(UTCFromTT(jd, eop.LeapSeconds), eop.DUT1)
}

// TTFromUTC converts a calendar instant (interpreted as UTC) to JD(TT).
func TTFromUTC(t time.Time, leapSeconds int) JDTT {
	jd := julian.TimeToJD(t.UTC())
	return JDTT(jd + TTMinusUTC(leapSeconds)/secondsPerDay)
}
