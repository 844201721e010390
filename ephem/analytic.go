package ephem

import (
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/tides-engine/geo"
)

const (
	deg2rad = math.Pi / 180
	arcsec  = deg2rad / 3600
	// astronomical unit in metres
	au = 149597870700.0
)

// Analytic is a closed-form low-precision ephemerides for the Sun and Moon,
// adequate for tide generation (relative accuracy of the resulting tidal
// signal well below the elastic-model uncertainty). It covers all epochs and
// only fails for bodies it does not model.
type Analytic struct{}

// Position returns the geocentric celestial position of the Sun or Moon.
func (Analytic) Position(t time.Time, body Body) (geo.Vec3, error) {
	switch body {
	case Sun:
		return sunPosition(t), nil
	case Moon:
		return moonPosition(t), nil
	}
	return geo.Vec3{}, fmt.Errorf("analytic ephemerides: body %s not modeled", body)
}

// GM returns the gravitational parameter of the Sun or Moon.
func (Analytic) GM(body Body) (float64, error) {
	gm, ok := defaultGM[body]
	if !ok {
		return 0, fmt.Errorf("analytic ephemerides: no GM for body %s", body)
	}
	return gm, nil
}

// sunPosition follows the Astronomical Almanac low-precision solar ephemeris
// (page C24): mean anomaly, ecliptic longitude, obliquity, distance.
func sunPosition(t time.Time) geo.Vec3 {
	d := geo.MJDGPS2TT(t) - geo.MJDJ2000 // days from J2000
	g := deg2rad * (357.528 + 0.9856003*d)
	lambda := deg2rad * (280.464 + 0.9856090*d + 1.915*math.Sin(g) + 0.02*math.Sin(2*g))
	eps := deg2rad * (23.439 - 0.0000004*d)
	r := au * (1.000142 - 0.01671*math.Cos(g) - 0.00014*math.Cos(2*g))
	return geo.Vec3{
		X: r * math.Cos(lambda),
		Y: r * math.Sin(lambda) * math.Cos(eps),
		Z: r * math.Sin(lambda) * math.Sin(eps),
	}
}

// moonPosition evaluates a truncated lunar series (mean elements plus the
// dominant evection/variation/annual terms), then rotates the ecliptic
// position to the equator.
func moonPosition(t time.Time) geo.Vec3 {
	T := geo.JulianCenturiesTT(t)

	l0 := deg2rad * math.Mod(218.31617+481267.88088*T, 360) // mean longitude
	l := deg2rad * math.Mod(134.96292+477198.86753*T, 360)  // mean anomaly moon
	lp := deg2rad * math.Mod(357.52543+35999.04944*T, 360)  // mean anomaly sun
	f := deg2rad * math.Mod(93.27283+483202.01873*T, 360)   // argument of latitude
	d := deg2rad * math.Mod(297.85027+445267.11135*T, 360)  // mean elongation

	lambda := l0 + arcsec*(22640*math.Sin(l)+769*math.Sin(2*l)-
		4586*math.Sin(l-2*d)+2370*math.Sin(2*d)-
		668*math.Sin(lp)-412*math.Sin(2*f)-
		212*math.Sin(2*l-2*d)-206*math.Sin(l+lp-2*d)+
		192*math.Sin(l+2*d)-165*math.Sin(lp-2*d)+
		148*math.Sin(l-lp)-125*math.Sin(d)-
		110*math.Sin(l+lp)-55*math.Sin(2*f-2*d))

	s := f + (lambda - l0) + arcsec*(412*math.Sin(2*f)+541*math.Sin(lp))
	beta := arcsec * (18520*math.Sin(s) - 526*math.Sin(f-2*d) +
		44*math.Sin(l+f-2*d) - 31*math.Sin(-l+f-2*d) -
		25*math.Sin(-2*l+f) - 23*math.Sin(lp+f-2*d) +
		21*math.Sin(-l+f) + 11*math.Sin(-lp+f-2*d))

	r := 1e3 * (385000 - 20905*math.Cos(l) - 3699*math.Cos(2*d-l) -
		2956*math.Cos(2*d) - 570*math.Cos(2*l) + 246*math.Cos(2*l-2*d) -
		205*math.Cos(lp-2*d) - 171*math.Cos(l+2*d) - 152*math.Cos(l+lp-2*d))

	eps := deg2rad * (23.43929111 - 0.013004*T)
	cl, sl := math.Cos(lambda), math.Sin(lambda)
	cb, sb := math.Cos(beta), math.Sin(beta)
	ce, se := math.Cos(eps), math.Sin(eps)
	return geo.Vec3{
		X: r * cb * cl,
		Y: r * (ce*cb*sl - se*sb),
		Z: r * (se*cb*sl + ce*sb),
	}
}
