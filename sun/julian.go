package sun

import "time"

// Julian date epochs. J1970 is the Julian day number of the Unix epoch
// (midnight, so the -0.5 day correction applies when converting), J2000 is
// the standard astronomical epoch 2000 January 1, 12:00 TT.
const (
	J1970 = 2440588
	J2000 = 2451545

	msPerDay = 1000 * 60 * 60 * 24
)

// JulianDay converts an absolute instant to a fractional Julian day number.
func JulianDay(t time.Time) float64 {
	return float64(t.UnixMilli())/msPerDay - 0.5 + J1970
}

// DaysSinceJ2000 returns the fractional number of days elapsed between the
// J2000.0 epoch and t. This value is the sole time-dependent driver of the
// solar position pipeline.
func DaysSinceJ2000(t time.Time) float64 {
	return JulianDay(t) - J2000
}
