package ephem

import (
	"errors"
	"fmt"
	"time"

	"github.com/mshafiee/jpleph"

	"github.com/signalsfoundry/tides-engine/geo"
)

// JPL serves body positions from a JPL development ephemeris file (DE405,
// DE430, ...). Interpolation outside the file's span is reported as
// ErrOutsideSpan with the offending epoch.
type JPL struct {
	eph    *jpleph.Ephemeris
	auInKM float64
	gm     map[Body]float64
}

var jplTargets = map[Body]jpleph.Planet{
	Sun:     jpleph.Sun,
	Moon:    jpleph.Moon,
	Mercury: jpleph.Mercury,
	Venus:   jpleph.Venus,
	Mars:    jpleph.Mars,
	Jupiter: jpleph.Jupiter,
	Saturn:  jpleph.Saturn,
	Uranus:  jpleph.Uranus,
	Neptune: jpleph.Neptune,
}

// OpenJPL opens a binary JPL ephemeris file. Additional gravitational
// parameters (beyond the built-in Sun/Moon values) can be supplied per body.
func OpenJPL(path string, gm map[Body]float64) (*JPL, error) {
	eph, err := jpleph.NewEphemeris(path, false)
	if err != nil {
		return nil, fmt.Errorf("open JPL ephemeris %s: %w", path, err)
	}
	merged := make(map[Body]float64, len(defaultGM)+len(gm))
	for b, v := range defaultGM {
		merged[b] = v
	}
	for b, v := range gm {
		merged[b] = v
	}
	return &JPL{
		eph:    eph,
		auInKM: eph.GetEphemerisDouble(jpleph.AUinKM),
		gm:     merged,
	}, nil
}

// Close releases the underlying ephemeris file.
func (j *JPL) Close() error { return j.eph.Close() }

// Position returns the geocentric celestial position of body at the GPS
// epoch t, interpolated from the ephemeris file.
func (j *JPL) Position(t time.Time, body Body) (geo.Vec3, error) {
	target, ok := jplTargets[body]
	if !ok {
		return geo.Vec3{}, fmt.Errorf("JPL ephemerides: body %s not available", body)
	}
	et := geo.JulianEphemerisDate(t)
	pos, _, err := j.eph.CalculatePV(et, target, jpleph.CenterEarth, false)
	if err != nil {
		if errors.Is(err, jpleph.ErrOutsideRange) {
			return geo.Vec3{}, fmt.Errorf("JPL ephemerides: %w: %s (body %s)", ErrOutsideSpan, t.Format(time.RFC3339), body)
		}
		return geo.Vec3{}, fmt.Errorf("JPL ephemerides: %s at %s: %w", body, t.Format(time.RFC3339), err)
	}
	scale := j.auInKM * 1e3 // AU -> metres
	return geo.Vec3{X: pos.X * scale, Y: pos.Y * scale, Z: pos.Z * scale}, nil
}

// GM returns the gravitational parameter of body.
func (j *JPL) GM(body Body) (float64, error) {
	gm, ok := j.gm[body]
	if !ok {
		return 0, fmt.Errorf("JPL ephemerides: no GM configured for body %s", body)
	}
	return gm, nil
}
