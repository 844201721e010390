package tides

import (
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/harmonics"
)

func TestParseDoodson(t *testing.T) {
	d, err := ParseDoodson("255.555")
	if err != nil {
		t.Fatalf("ParseDoodson: %v", err)
	}
	if d.K != [6]int{2, 0, 0, 0, 0, 0} {
		t.Fatalf("M2 multipliers = %v", d.K)
	}
	if d.String() != "255.555" {
		t.Fatalf("String() = %q", d.String())
	}

	// the dot is optional
	k1, err := ParseDoodson("165555")
	if err != nil {
		t.Fatalf("ParseDoodson: %v", err)
	}
	if k1.K != [6]int{1, 1, 0, 0, 0, 0} {
		t.Fatalf("K1 multipliers = %v", k1.K)
	}

	for _, bad := range []string{"", "255.55", "255.5555", "2X5.555"} {
		if _, err := ParseDoodson(bad); err == nil {
			t.Fatalf("ParseDoodson(%q) succeeded, want error", bad)
		}
	}
}

func TestDoodson_M2Rate(t *testing.T) {
	// M2 advances by 28.984 degrees per hour.
	m2, _ := ParseDoodson("255.555")
	t0 := time.Date(2026, 2, 10, 3, 0, 0, 0, time.UTC)
	dt := time.Minute

	d := m2.Theta(t0.Add(dt)) - m2.Theta(t0)
	for d < 0 {
		d += 2 * math.Pi
	}
	ratePerHour := d / dt.Hours() * 180 / math.Pi
	if math.Abs(ratePerHour-28.984) > 0.02 {
		t.Fatalf("M2 rate = %v °/h, want ≈28.984", ratePerHour)
	}
}

func TestDoodson_SsaIsSemiannual(t *testing.T) {
	// Ssa (057.555) runs at twice the solar longitude rate: ~0.0822°/h.
	ssa, err := ParseDoodson("057.555")
	if err != nil {
		t.Fatalf("ParseDoodson: %v", err)
	}
	t0 := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	dt := 24 * time.Hour

	d := ssa.Theta(t0.Add(dt)) - ssa.Theta(t0)
	for d < 0 {
		d += 2 * math.Pi
	}
	ratePerHour := d / dt.Hours() * 180 / math.Pi
	if math.Abs(ratePerHour-0.0822) > 0.002 {
		t.Fatalf("Ssa rate = %v °/h, want ≈0.0822", ratePerHour)
	}
}

func tinyConstituent(t *testing.T, doodson string, cosAmp, sinAmp float64) Constituent {
	t.Helper()
	d, err := ParseDoodson(doodson)
	if err != nil {
		t.Fatalf("ParseDoodson: %v", err)
	}
	cc := make([]float64, harmonics.Coefficients(2))
	cc[harmonics.Pack(2, 2, false)] = cosAmp
	cos, _ := harmonics.NewFromCoefficients(harmonics.DefaultGM, harmonics.DefaultR, 2, cc)
	cs := make([]float64, harmonics.Coefficients(2))
	cs[harmonics.Pack(2, 2, false)] = sinAmp
	sin, _ := harmonics.NewFromCoefficients(harmonics.DefaultGM, harmonics.DefaultR, 2, cs)
	return Constituent{Name: doodson, Doodson: d, Cos: cos, Sin: sin}
}

func TestDoodsonHarmonicTide_SynthesizesCatalog(t *testing.T) {
	m2 := tinyConstituent(t, "255.555", 3.2e-10, -1.1e-10)
	o1 := tinyConstituent(t, "145.555", 1.5e-10, 0.7e-10)
	m, err := NewDoodsonHarmonicTide([]Constituent{m2, o1})
	if err != nil {
		t.Fatalf("NewDoodsonHarmonicTide: %v", err)
	}

	h, err := m.SphericalHarmonics(testEpoch, geo.Identity(), nil, nil, 2, 0, harmonics.DefaultGM, harmonics.DefaultR)
	if err != nil {
		t.Fatalf("SphericalHarmonics: %v", err)
	}

	want := 0.0
	for _, f := range []Constituent{m2, o1} {
		theta := f.Doodson.Theta(testEpoch)
		want += math.Cos(theta)*f.Cos.Cnm(2, 2) + math.Sin(theta)*f.Sin.Cnm(2, 2)
	}
	if got := h.Cnm(2, 2); math.Abs(got-want) > 1e-18+1e-12*math.Abs(want) {
		t.Fatalf("synthesized c22 = %v, want %v", got, want)
	}
}

func TestNewDoodsonHarmonicTide_EmptyCatalog(t *testing.T) {
	if _, err := NewDoodsonHarmonicTide(nil); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}
