package geo

import "time"

// Epochs everywhere in this module are GPS time carried as time.Time (the wall
// clock reading of a GPS clock, location UTC). GPS time is continuous, which
// keeps tide arguments and ephemeris interpolation free of leap-second steps.

const (
	// MJDJ2000 is the modified Julian date of the J2000.0 reference epoch.
	MJDJ2000 = 51544.5

	// gpsToTTSeconds is TT − GPS, constant by definition.
	gpsToTTSeconds = 51.184

	// gpsToUTCSeconds is UTC − GPS. GPS−UTC has been 18 s since 2017-01-01;
	// epochs before the next leap second are represented exactly.
	gpsToUTCSeconds = -18.0

	secondsPerDay = 86400.0

	// unixMJD is the modified Julian date of the Unix epoch 1970-01-01.
	unixMJD = 40587.0
)

// MJD returns the modified Julian date of t, read in the time scale of t
// itself (no conversion applied).
func MJD(t time.Time) float64 {
	sec := float64(t.Unix()) + float64(t.Nanosecond())*1e-9
	return unixMJD + sec/secondsPerDay
}

// MJDGPS2TT converts a GPS epoch to a terrestrial-time MJD.
func MJDGPS2TT(t time.Time) float64 {
	return MJD(t) + gpsToTTSeconds/secondsPerDay
}

// MJDGPS2UTC converts a GPS epoch to a UTC MJD.
func MJDGPS2UTC(t time.Time) float64 {
	return MJD(t) + gpsToUTCSeconds/secondsPerDay
}

// JulianCenturiesTT returns terrestrial-time Julian centuries since J2000.0
// for a GPS epoch. Used for fundamental arguments and analytic ephemerides.
func JulianCenturiesTT(t time.Time) float64 {
	return (MJDGPS2TT(t) - MJDJ2000) / 36525.0
}

// JulianEphemerisDate returns the Julian ephemeris date (TT based) of a GPS
// epoch, the time argument expected by JPL development ephemerides.
func JulianEphemerisDate(t time.Time) float64 {
	return MJDGPS2TT(t) + 2400000.5
}
