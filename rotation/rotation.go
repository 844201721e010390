// Package rotation provides the Earth orientation contract consumed by the
// tide models: the celestial↔terrestrial frame rotation at an epoch and the
// Earth's angular-velocity vector, optionally corrected by an in-memory
// Earth orientation parameter series.
package rotation

import (
	"math"
	"time"

	"github.com/signalsfoundry/tides-engine/geo"
)

// MeanRotationRate is the nominal Earth rotation rate in rad/s.
const MeanRotationRate = 7.2921151467e-5

const arcsec2rad = math.Pi / 180 / 3600

// EarthRotation supplies the orientation of the Earth at a GPS epoch. It must
// be cheap to call repeatedly; implementations are read-only after
// construction and safe for concurrent use.
type EarthRotation interface {
	// Rotary returns the rotation taking celestial-frame vectors to the
	// terrestrial frame at the GPS epoch t.
	Rotary(t time.Time) (geo.Rotary3, error)

	// AngularVelocity returns the Earth's rotation vector in the terrestrial
	// frame (rad/s) at the GPS epoch t.
	AngularVelocity(t time.Time) (geo.Vec3, error)
}

// GMSTRotation models Earth orientation as a z-rotation by Greenwich mean
// sidereal time, with polar motion applied when an EOP series is attached.
// Precession and nutation are neglected, which is adequate for tide
// arguments and the slowly varying tidal fields.
type GMSTRotation struct {
	eop *EOPSeries // optional
}

// NewGMSTRotation returns a GMST-based Earth rotation. eop may be nil, in
// which case polar motion and ΔUT1 are taken as zero.
func NewGMSTRotation(eop *EOPSeries) *GMSTRotation {
	return &GMSTRotation{eop: eop}
}

// Rotary returns the celestial→terrestrial rotation at t.
func (g *GMSTRotation) Rotary(t time.Time) (geo.Rotary3, error) {
	mjdUTC := geo.MJDGPS2UTC(t)
	var xp, yp, dut1 float64
	if g.eop != nil {
		v, err := g.eop.At(t)
		if err != nil {
			return geo.Rotary3{}, err
		}
		xp, yp, dut1 = v.Xp, v.Yp, v.DUT1
	}
	spin := geo.RotaryZ(GMST(mjdUTC + dut1/86400))
	if xp == 0 && yp == 0 {
		return spin, nil
	}
	wobble := geo.RotaryY(xp * arcsec2rad).Mul(geo.RotaryX(yp * arcsec2rad))
	return wobble.Mul(spin), nil
}

// AngularVelocity returns the rotation vector in the terrestrial frame. With
// an EOP series attached the pole offset tilts the vector slightly away from
// the z-axis.
func (g *GMSTRotation) AngularVelocity(t time.Time) (geo.Vec3, error) {
	if g.eop == nil {
		return geo.Vec3{Z: MeanRotationRate}, nil
	}
	v, err := g.eop.At(t)
	if err != nil {
		return geo.Vec3{}, err
	}
	return geo.Vec3{
		X: MeanRotationRate * v.Xp * arcsec2rad,
		Y: -MeanRotationRate * v.Yp * arcsec2rad,
		Z: MeanRotationRate,
	}, nil
}

// GMST returns Greenwich mean sidereal time in radians for a UT1 epoch given
// as modified Julian date.
func GMST(mjdUT1 float64) float64 {
	mjdInt := math.Floor(mjdUT1)
	mjdMod := mjdUT1 - mjdInt
	tu0 := (mjdInt - 51544.5) / 36525.0

	gmst0 := (6.0/24 + 41.0/(24*60) + 50.54841/(24*60*60)) +
		(8640184.812866/(24*60*60))*tu0 +
		(0.093104/(24*60*60))*tu0*tu0 +
		(-6.2e-6/(24*60*60))*tu0*tu0*tu0
	r := 1.002737909350795 + 5.9006e-11*tu0 - 5.9e-15*tu0*tu0
	return math.Mod(2*math.Pi*(gmst0+r*mjdMod), 2*math.Pi)
}

// ERA returns the Earth rotation angle in radians for a UT1 epoch given as
// modified Julian date.
func ERA(mjdUT1 float64) float64 {
	d := mjdUT1 - geo.MJDJ2000
	frac := d - math.Floor(d)
	return math.Mod(2*math.Pi*(0.7790572732640+frac+0.00273781191135448*d), 2*math.Pi)
}

// Fundamentals returns the five fundamental lunisolar arguments of nutation
// theory (l, l', F, D, Ω) in radians at the GPS epoch t, per the IERS 2003
// conventions polynomials.
func Fundamentals(t time.Time) [5]float64 {
	T := geo.JulianCenturiesTT(t)
	poly := func(a0, a1, a2, a3, a4 float64) float64 {
		return arcsec2rad * (a0 + T*(a1+T*(a2+T*(a3+T*a4))))
	}
	return [5]float64{
		poly(485868.249036, 1717915923.2178, 31.8792, 0.051635, -0.00024470),
		poly(1287104.793048, 129596581.0481, -0.5532, 0.000136, -0.00001149),
		poly(335779.526232, 1739527262.8478, -12.7512, -0.001037, 0.00000417),
		poly(1072260.703692, 1602961601.2090, -6.3706, 0.006593, -0.00003169),
		poly(450160.398036, -6962890.5431, 7.4722, 0.007702, -0.00005939),
	}
}
