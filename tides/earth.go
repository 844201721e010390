package tides

import (
	"fmt"
	"time"

	"github.com/signalsfoundry/tides-engine/ephem"
	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/harmonics"
	"github.com/signalsfoundry/tides-engine/rotation"
)

// Solid Earth tide response factors, IERS 2010 conventions Table 6.3
// (elastic Earth). k2plus couples the degree-2 excitation into degree-4
// response coefficients.
var (
	defaultK2     = [3]float64{0.29525, 0.29470, 0.29801}
	defaultK2Plus = [3]float64{-0.00087, -0.00079, -0.00057}
	defaultK3     = [4]float64{0.093, 0.093, 0.093, 0.094}
)

// SolidEarthTide is the elastic response of the solid Earth to the
// tide-generating potential of the Sun and Moon, expressed as variations of
// the geopotential coefficients: the frequency-independent step of the IERS
// conventions with order-dependent degree-2/3 potential Love numbers and the
// k⁺ degree-4 contribution.
type SolidEarthTide struct {
	expansion

	bodies []ephem.Body
	k2     [3]float64
	k2plus [3]float64
	k3     [4]float64
	gm, r  float64
}

// SolidEarthOption configures a SolidEarthTide.
type SolidEarthOption func(*SolidEarthTide)

// WithK2 overrides the degree-2 potential Love numbers (orders 0..2).
func WithK2(k2 [3]float64) SolidEarthOption {
	return func(m *SolidEarthTide) { m.k2 = k2 }
}

// WithK3 overrides the degree-3 potential Love numbers (orders 0..3).
func WithK3(k3 [4]float64) SolidEarthOption {
	return func(m *SolidEarthTide) { m.k3 = k3 }
}

// NewSolidEarthTide builds the solid Earth tide raised by the given bodies
// (Sun and Moon when empty).
func NewSolidEarthTide(bodies []ephem.Body, opts ...SolidEarthOption) *SolidEarthTide {
	if len(bodies) == 0 {
		bodies = []ephem.Body{ephem.Sun, ephem.Moon}
	}
	m := &SolidEarthTide{
		bodies: bodies,
		k2:     defaultK2,
		k2plus: defaultK2Plus,
		k3:     defaultK3,
		gm:     harmonics.DefaultGM,
		r:      harmonics.DefaultR,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.expansion.src = m
	return m
}

// Name returns the configuration type tag.
func (m *SolidEarthTide) Name() string { return "earthTide" }

func (m *SolidEarthTide) expand(t time.Time, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (harmonics.SphericalHarmonics, error) {
	coeff := make([]float64, harmonics.Coefficients(4))
	for _, b := range m.bodies {
		p, err := eph.Position(t, b)
		if err != nil {
			return harmonics.SphericalHarmonics{}, fmt.Errorf("earthTide: %w", err)
		}
		gm, err := eph.GM(b)
		if err != nil {
			return harmonics.SphericalHarmonics{}, fmt.Errorf("earthTide: %w", err)
		}
		rb := rotEarth.Transform(p)

		// degree 2 and 3 response
		addTideGeneratingPotential(coeff, 3, gm/m.gm, rb, m.r, func(n, mm int) float64 {
			if n == 2 {
				return m.k2[mm]
			}
			return m.k3[mm]
		})

		// k⁺: degree-4 coefficients driven by the degree-2 tide
		cnm, snm := harmonics.CnmSnm(rb.Scale(1/m.r), 2)
		for mm := 0; mm <= 2; mm++ {
			w := m.k2plus[mm] / 5 * gm / m.gm
			coeff[harmonics.Pack(4, mm, false)] += w * cnm[2][mm]
			if mm > 0 {
				coeff[harmonics.Pack(4, mm, true)] += w * snm[2][mm]
			}
		}
	}
	return harmonics.NewFromCoefficients(m.gm, m.r, 4, coeff)
}
