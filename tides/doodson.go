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

// Doodson is the six-integer multiplier vector of a tidal constituent over
// the Doodson arguments (τ, s, h, p, N', ps).
type Doodson struct {
	K [6]int
}

// ParseDoodson parses a Doodson number such as "255.555" (M2) or "165555"
// (K1): the first digit is the τ multiplier, the remaining five are offset
// by 5.
func ParseDoodson(s string) (Doodson, error) {
	var d Doodson
	i := 0
	for _, ch := range s {
		if ch == '.' {
			continue
		}
		if ch < '0' || ch > '9' {
			return Doodson{}, fmt.Errorf("doodson number %q: invalid character %q", s, ch)
		}
		if i >= 6 {
			return Doodson{}, fmt.Errorf("doodson number %q: more than six digits", s)
		}
		d.K[i] = int(ch - '0')
		if i > 0 {
			d.K[i] -= 5
		}
		i++
	}
	if i != 6 {
		return Doodson{}, fmt.Errorf("doodson number %q: got %d digits, want 6", s, i)
	}
	return d, nil
}

// String formats the multipliers back into Doodson notation.
func (d Doodson) String() string {
	digit := func(i int) int {
		if i == 0 {
			return d.K[0]
		}
		return d.K[i] + 5
	}
	return fmt.Sprintf("%d%d%d.%d%d%d", digit(0), digit(1), digit(2), digit(3), digit(4), digit(5))
}

// Theta returns the constituent's astronomical argument at the GPS epoch t,
// in radians.
func (d Doodson) Theta(t time.Time) float64 {
	beta := DoodsonArguments(t)
	theta := 0.0
	for i, k := range d.K {
		theta += float64(k) * beta[i]
	}
	return math.Mod(theta, 2*math.Pi)
}

// DoodsonArguments returns the six Doodson arguments (τ, s, h, p, N', ps) in
// radians at the GPS epoch t, derived from the fundamental lunisolar
// arguments and Greenwich mean sidereal time.
func DoodsonArguments(t time.Time) [6]float64 {
	f := rotation.Fundamentals(t)
	gmst := rotation.GMST(geo.MJDGPS2UTC(t))

	s := f[2] + f[4]        // mean longitude of the Moon
	h := s - f[3]           // mean longitude of the Sun
	p := s - f[0]           // longitude of the lunar perigee
	np := -f[4]             // negative longitude of the lunar node
	ps := s - f[3] - f[1]   // longitude of the solar perigee
	tau := gmst + math.Pi - s // mean lunar time

	return [6]float64{tau, s, h, p, np, ps}
}

// Constituent is one entry of a harmonic tide catalog: a Doodson multiplier
// vector and the in-phase/quadrature coefficient fields.
type Constituent struct {
	Name    string
	Doodson Doodson
	Cos     harmonics.SphericalHarmonics
	Sin     harmonics.SphericalHarmonics
}

// DoodsonHarmonicTide synthesizes a harmonic tide catalog (typically ocean
// tides): at each epoch the field is Σ_f cos θ_f · C_f + sin θ_f · S_f over
// the catalog constituents.
type DoodsonHarmonicTide struct {
	expansion

	constituents []Constituent
}

// NewDoodsonHarmonicTide builds the model from an in-memory catalog; the
// catalog must not be empty.
func NewDoodsonHarmonicTide(constituents []Constituent) (*DoodsonHarmonicTide, error) {
	if len(constituents) == 0 {
		return nil, fmt.Errorf("doodsonHarmonicTide: field constituents is empty")
	}
	m := &DoodsonHarmonicTide{constituents: constituents}
	m.expansion.src = m
	return m, nil
}

// Name returns the configuration type tag.
func (m *DoodsonHarmonicTide) Name() string { return "doodsonHarmonicTide" }

func (m *DoodsonHarmonicTide) expand(t time.Time, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (harmonics.SphericalHarmonics, error) {
	first := m.constituents[0]
	sum := harmonics.New(first.Cos.GM(), first.Cos.R(), 0)
	for _, f := range m.constituents {
		theta := f.Doodson.Theta(t)
		sum = sum.Add(f.Cos.Scale(math.Cos(theta)))
		sum = sum.Add(f.Sin.Scale(math.Sin(theta)))
	}
	return sum, nil
}
