package tides

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/harmonics"
	"github.com/signalsfoundry/tides-engine/rotation"
)

func constantEOP(t *testing.T, xp, yp float64) *rotation.EOPSeries {
	t.Helper()
	series, err := rotation.NewEOPSeries([]rotation.EOP{
		{Epoch: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Xp: xp, Yp: yp},
		{Epoch: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), Xp: xp, Yp: yp},
	})
	if err != nil {
		t.Fatalf("NewEOPSeries: %v", err)
	}
	return series
}

func TestPoleTide_Degree21Coefficients(t *testing.T) {
	eop := constantEOP(t, 0.12, 0.35)
	m, err := NewPoleTide(eop)
	if err != nil {
		t.Fatalf("NewPoleTide: %v", err)
	}

	epoch := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	h, err := m.SphericalHarmonics(epoch, geo.Identity(), nil, nil, 2, 0, harmonics.DefaultGM, harmonics.DefaultR)
	if err != nil {
		t.Fatalf("SphericalHarmonics: %v", err)
	}

	m1, m2, err := poleCoordinates(eop, epoch)
	if err != nil {
		t.Fatalf("poleCoordinates: %v", err)
	}
	wantC21 := -1.333e-9 * (m1 + 0.0115*m2)
	wantS21 := -1.333e-9 * (m2 - 0.0115*m1)
	if got := h.Cnm(2, 1); math.Abs(got-wantC21) > 1e-18 {
		t.Fatalf("c21 = %v, want %v", got, wantC21)
	}
	if got := h.Snm(2, 1); math.Abs(got-wantS21) > 1e-18 {
		t.Fatalf("s21 = %v, want %v", got, wantS21)
	}
	// no other coefficients
	if h.Cnm(2, 0) != 0 || h.Cnm(2, 2) != 0 || h.Snm(2, 2) != 0 {
		t.Fatalf("unexpected coefficients: c20=%v c22=%v s22=%v", h.Cnm(2, 0), h.Cnm(2, 2), h.Snm(2, 2))
	}
}

func TestPoleTide_WobbleSubtractsSecularMeanPole(t *testing.T) {
	// An observed pole sitting exactly on the secular mean pole raises no
	// pole tide.
	epoch := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	yr := (geo.MJDGPS2TT(epoch) - geo.MJDJ2000) / 365.25
	xp := 0.055 + 0.001677*yr
	yp := 0.3205 + 0.00346*yr

	m, err := NewPoleTide(constantEOP(t, xp, yp))
	if err != nil {
		t.Fatalf("NewPoleTide: %v", err)
	}
	h, err := m.SphericalHarmonics(epoch, geo.Identity(), nil, nil, 2, 0, harmonics.DefaultGM, harmonics.DefaultR)
	if err != nil {
		t.Fatalf("SphericalHarmonics: %v", err)
	}
	if math.Abs(h.Cnm(2, 1)) > 1e-20 || math.Abs(h.Snm(2, 1)) > 1e-20 {
		t.Fatalf("mean pole raised a tide: c21=%v s21=%v", h.Cnm(2, 1), h.Snm(2, 1))
	}
}

func TestPoleTide_OutsideSpanFails(t *testing.T) {
	m, err := NewPoleTide(constantEOP(t, 0.1, 0.3))
	if err != nil {
		t.Fatalf("NewPoleTide: %v", err)
	}
	_, err = m.Potential(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), testPoint, geo.Identity(), nil, nil)
	if !errors.Is(err, rotation.ErrOutsideSpan) {
		t.Fatalf("error = %v, want ErrOutsideSpan", err)
	}
}

func TestNewPoleTide_RequiresEOP(t *testing.T) {
	if _, err := NewPoleTide(nil); err == nil {
		t.Fatal("expected error for missing EOP series")
	}
}

func TestOceanPoleTide_ModulatesCoefficientFields(t *testing.T) {
	cr := make([]float64, harmonics.Coefficients(2))
	cr[harmonics.Pack(2, 1, false)] = 5.0e-4
	real, _ := harmonics.NewFromCoefficients(harmonics.DefaultGM, harmonics.DefaultR, 2, cr)
	ci := make([]float64, harmonics.Coefficients(2))
	ci[harmonics.Pack(2, 1, false)] = -2.0e-4
	imag, _ := harmonics.NewFromCoefficients(harmonics.DefaultGM, harmonics.DefaultR, 2, ci)

	eop := constantEOP(t, 0.12, 0.35)
	m, err := NewOceanPoleTide(eop, real, imag)
	if err != nil {
		t.Fatalf("NewOceanPoleTide: %v", err)
	}

	epoch := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	h, err := m.SphericalHarmonics(epoch, geo.Identity(), nil, nil, 2, 0, harmonics.DefaultGM, harmonics.DefaultR)
	if err != nil {
		t.Fatalf("SphericalHarmonics: %v", err)
	}

	m1, m2, err := poleCoordinates(eop, epoch)
	if err != nil {
		t.Fatalf("poleCoordinates: %v", err)
	}
	m1 *= arcsec2Rad
	m2 *= arcsec2Rad
	want := 5.0e-4*(m1*0.6870+m2*0.0036) + -2.0e-4*(m2*0.6870-m1*0.0036)
	if got := h.Cnm(2, 1); math.Abs(got-want) > 1e-20+1e-12*math.Abs(want) {
		t.Fatalf("c21 = %v, want %v", got, want)
	}
}

func TestNewOceanPoleTide_Validation(t *testing.T) {
	real := harmonics.New(harmonics.DefaultGM, harmonics.DefaultR, 2)
	imag := harmonics.New(harmonics.DefaultGM, harmonics.DefaultR, 3)
	if _, err := NewOceanPoleTide(nil, real, real); err == nil {
		t.Fatal("expected error for missing EOP series")
	}
	if _, err := NewOceanPoleTide(constantEOP(t, 0, 0), real, imag); err == nil {
		t.Fatal("expected error for degree mismatch")
	}
}
