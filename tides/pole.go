package tides

import (
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/tides-engine/ephem"
	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/harmonics"
	"github.com/signalsfoundry/tides-engine/rotation"
)

// IERS 2010 conventions secular mean pole, arcsec and arcsec/year.
const (
	meanPoleX0    = 0.055
	meanPoleXRate = 0.001677
	meanPoleY0    = 0.3205
	meanPoleYRate = 0.00346
)

// poleCoordinates returns the wobble parameters m1, m2 in arcsec at the GPS
// epoch t: the observed pole offset by the secular mean pole, with the y
// component sign-flipped per convention.
func poleCoordinates(eop *rotation.EOPSeries, t time.Time) (float64, float64, error) {
	p, err := eop.At(t)
	if err != nil {
		return 0, 0, err
	}
	// years since J2000
	yr := (geo.MJDGPS2TT(t) - geo.MJDJ2000) / 365.25
	m1 := p.Xp - (meanPoleX0 + meanPoleXRate*yr)
	m2 := -(p.Yp - (meanPoleY0 + meanPoleYRate*yr))
	return m1, m2, nil
}

// PoleTide is the solid Earth pole tide: the elastic response of the Earth to
// the centrifugal perturbation of polar motion, expressed as (2,1)
// geopotential coefficient variations per the IERS 2010 conventions.
type PoleTide struct {
	expansion

	eop   *rotation.EOPSeries
	gm, r float64

	// scale converts the wobble parameters (arcsec) into the degree-2
	// coefficient variations: ΔC21 = scale·(m1 + couple·m2).
	scale  float64
	couple float64
}

// NewPoleTide builds the pole tide over the given Earth orientation series.
func NewPoleTide(eop *rotation.EOPSeries) (*PoleTide, error) {
	if eop == nil {
		return nil, fmt.Errorf("poleTide: field earthOrientation is required")
	}
	m := &PoleTide{
		eop:    eop,
		gm:     harmonics.DefaultGM,
		r:      harmonics.DefaultR,
		scale:  -1.333e-9,
		couple: 0.0115,
	}
	m.expansion.src = m
	return m, nil
}

// Name returns the configuration type tag.
func (m *PoleTide) Name() string { return "poleTide" }

func (m *PoleTide) expand(t time.Time, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (harmonics.SphericalHarmonics, error) {
	m1, m2, err := poleCoordinates(m.eop, t)
	if err != nil {
		return harmonics.SphericalHarmonics{}, fmt.Errorf("poleTide: %w", err)
	}
	coeff := make([]float64, harmonics.Coefficients(2))
	coeff[harmonics.Pack(2, 1, false)] = m.scale * (m1 + m.couple*m2)
	coeff[harmonics.Pack(2, 1, true)] = m.scale * (m2 - m.couple*m1)
	return harmonics.NewFromCoefficients(m.gm, m.r, 2, coeff)
}

// OceanPoleTide is the ocean response to polar motion: the equilibrium ocean
// pole tide of Desai (2002), synthesized from a pair of coefficient fields
// (real and imaginary part of the loading pattern) modulated by the wobble
// parameters.
type OceanPoleTide struct {
	expansion

	eop        *rotation.EOPSeries
	real, imag harmonics.SphericalHarmonics

	// γ2 = γ2R + iγ2I, the pole tide admittance of IERS 2010 table 6.4
	gamma2R, gamma2I float64
}

// NewOceanPoleTide builds the ocean pole tide from the Desai-style real and
// imaginary coefficient fields and the Earth orientation series.
func NewOceanPoleTide(eop *rotation.EOPSeries, real, imag harmonics.SphericalHarmonics) (*OceanPoleTide, error) {
	if eop == nil {
		return nil, fmt.Errorf("oceanPoleTide: field earthOrientation is required")
	}
	if real.MaxDegree() != imag.MaxDegree() {
		return nil, fmt.Errorf("oceanPoleTide: real part degree %d, imaginary part degree %d", real.MaxDegree(), imag.MaxDegree())
	}
	m := &OceanPoleTide{
		eop:     eop,
		real:    real,
		imag:    imag,
		gamma2R: 0.6870,
		gamma2I: 0.0036,
	}
	m.expansion.src = m
	return m, nil
}

// Name returns the configuration type tag.
func (m *OceanPoleTide) Name() string { return "oceanPoleTide" }

const arcsec2Rad = math.Pi / 180 / 3600

func (m *OceanPoleTide) expand(t time.Time, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (harmonics.SphericalHarmonics, error) {
	m1, m2, err := poleCoordinates(m.eop, t)
	if err != nil {
		return harmonics.SphericalHarmonics{}, fmt.Errorf("oceanPoleTide: %w", err)
	}
	m1 *= arcsec2Rad
	m2 *= arcsec2Rad
	h := m.real.Scale(m1*m.gamma2R + m2*m.gamma2I)
	return h.Add(m.imag.Scale(m2*m.gamma2R - m1*m.gamma2I)), nil
}
