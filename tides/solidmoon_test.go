package tides

import (
	"math"
	"testing"

	"github.com/signalsfoundry/tides-engine/ephem"
	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/harmonics"
)

func TestSolidMoonTide_EarthRaisedZonalResponse(t *testing.T) {
	// Moon on the z-axis, Sun far along the same axis: with the lunar frame
	// aligned to the celestial frame, the Earth sits at selenocentric −z
	// and both attractors excite only zonal degree-2 terms.
	const d = 3.844e8
	const dSun = 1.496e11
	const gmSun = 1.32712442076e20
	eph := staticEphem{
		pos: map[ephem.Body]geo.Vec3{
			ephem.Moon: {Z: d},
			ephem.Sun:  {Z: dSun},
		},
		gm: map[ephem.Body]float64{ephem.Sun: gmSun},
	}

	m := NewSolidMoonTide()
	h, err := m.SphericalHarmonics(testEpoch, geo.Identity(), nil, eph, 2, 0, MoonGM, MoonR)
	if err != nil {
		t.Fatalf("SphericalHarmonics: %v", err)
	}

	// P̄20(±1) = √5, so the sign of the z-position drops out at degree 2.
	wantEarth := 0.024059 / 5 * (harmonics.DefaultGM / MoonGM) * math.Sqrt(5) * math.Pow(MoonR/d, 3)
	wantSun := 0.024059 / 5 * (gmSun / MoonGM) * math.Sqrt(5) * math.Pow(MoonR/(dSun-d), 3)
	want := wantEarth + wantSun
	if got := h.Cnm(2, 0); math.Abs(got-want) > 1e-12*math.Abs(want) {
		t.Fatalf("c20 = %v, want %v", got, want)
	}
	if h.Cnm(2, 1) != 0 || h.Cnm(2, 2) != 0 {
		t.Fatalf("unexpected tesseral terms: c21=%v c22=%v", h.Cnm(2, 1), h.Cnm(2, 2))
	}
}

func TestSolidMoonTide_LoveNumberOverride(t *testing.T) {
	eph := staticEphem{
		pos: map[ephem.Body]geo.Vec3{
			ephem.Moon: {Z: 3.844e8},
			ephem.Sun:  {Z: 1.496e11},
		},
		gm: map[ephem.Body]float64{ephem.Sun: 1.32712442076e20},
	}
	base := NewSolidMoonTide()
	doubled := NewSolidMoonTide(WithMoonK2(2 * 0.024059))

	hb, err := base.SphericalHarmonics(testEpoch, geo.Identity(), nil, eph, 2, 0, MoonGM, MoonR)
	if err != nil {
		t.Fatalf("SphericalHarmonics: %v", err)
	}
	hd, err := doubled.SphericalHarmonics(testEpoch, geo.Identity(), nil, eph, 2, 0, MoonGM, MoonR)
	if err != nil {
		t.Fatalf("SphericalHarmonics (doubled): %v", err)
	}
	if got, want := hd.Cnm(2, 0), 2*hb.Cnm(2, 0); math.Abs(got-want) > 1e-15*math.Abs(want) {
		t.Fatalf("doubled k2: c20 = %v, want %v", got, want)
	}
}
