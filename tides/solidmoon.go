package tides

import (
	"fmt"
	"time"

	"github.com/signalsfoundry/tides-engine/ephem"
	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/harmonics"
	"github.com/signalsfoundry/tides-engine/rotation"
)

// Selenodetic constants for the solid Moon tide.
const (
	// MoonGM is the selenocentric gravitational constant in m³/s².
	MoonGM = 4.9027779e12
	// MoonR is the lunar reference radius in metres.
	MoonR = 1738000.0
	// moonK2 is the lunar degree-2 potential Love number.
	moonK2 = 0.024059
)

// SolidMoonTide is the degree-2 elastic tide raised on the Moon by the Earth
// and the Sun, for lunar-orbit and lunar-surface applications. Evaluation
// points are selenocentric body-frame metres; the rotation passed to queries
// is the celestial→lunar-frame rotation at the epoch.
type SolidMoonTide struct {
	expansion

	k2    float64
	gm, r float64
}

// SolidMoonOption configures a SolidMoonTide.
type SolidMoonOption func(*SolidMoonTide)

// WithMoonK2 overrides the lunar degree-2 Love number.
func WithMoonK2(k2 float64) SolidMoonOption {
	return func(m *SolidMoonTide) { m.k2 = k2 }
}

// NewSolidMoonTide builds the solid Moon tide.
func NewSolidMoonTide(opts ...SolidMoonOption) *SolidMoonTide {
	m := &SolidMoonTide{
		k2: moonK2,
		gm: MoonGM,
		r:  MoonR,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.expansion.src = m
	return m
}

// Name returns the configuration type tag.
func (m *SolidMoonTide) Name() string { return "solidMoonTide" }

func (m *SolidMoonTide) expand(t time.Time, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (harmonics.SphericalHarmonics, error) {
	rMoon, err := eph.Position(t, ephem.Moon)
	if err != nil {
		return harmonics.SphericalHarmonics{}, fmt.Errorf("solidMoonTide: %w", err)
	}
	rSun, err := eph.Position(t, ephem.Sun)
	if err != nil {
		return harmonics.SphericalHarmonics{}, fmt.Errorf("solidMoonTide: %w", err)
	}
	gmSun, err := eph.GM(ephem.Sun)
	if err != nil {
		return harmonics.SphericalHarmonics{}, fmt.Errorf("solidMoonTide: %w", err)
	}

	// selenocentric attractor positions in the lunar frame
	earth := rotEarth.Transform(rMoon.Scale(-1))
	sun := rotEarth.Transform(rSun.Sub(rMoon))

	weight := func(n, mm int) float64 { return m.k2 }
	coeff := make([]float64, harmonics.Coefficients(2))
	addTideGeneratingPotential(coeff, 2, harmonics.DefaultGM/m.gm, earth, m.r, weight)
	addTideGeneratingPotential(coeff, 2, gmSun/m.gm, sun, m.r, weight)
	return harmonics.NewFromCoefficients(m.gm, m.r, 2, coeff)
}
