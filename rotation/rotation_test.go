package rotation

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/tides-engine/geo"
)

func TestGMST_J2000(t *testing.T) {
	// GMST at the J2000 epoch is 18h 41m 50.548s ≈ 4.894961 rad.
	got := GMST(geo.MJDJ2000)
	if math.Abs(got-4.8949613) > 1e-6 {
		t.Fatalf("GMST(J2000) = %v, want ≈4.8949613", got)
	}
}

func TestGMST_AdvancesOneSiderealDay(t *testing.T) {
	// Over a solar day GMST advances a full turn plus ~3m56s worth of angle.
	mjd := 60000.0
	d := GMST(mjd+1) - GMST(mjd)
	for d < 0 {
		d += 2 * math.Pi
	}
	extra := d * 86400 / (2 * math.Pi) // seconds of sidereal gain per day
	if math.Abs(extra-236.555) > 0.01 {
		t.Fatalf("sidereal gain = %v s/day, want ≈236.555", extra)
	}
}

func TestERA_TracksGMST(t *testing.T) {
	// ERA and GMST differ by well under a degree for decades around J2000.
	for _, mjd := range []float64{51544.5, 55000.25, 61000.75} {
		d := math.Mod(ERA(mjd)-GMST(mjd)+3*math.Pi, 2*math.Pi) - math.Pi
		if math.Abs(d) > math.Pi/180 {
			t.Fatalf("ERA−GMST at mjd %v = %v rad", mjd, d)
		}
	}
}

func TestFundamentals_J2000(t *testing.T) {
	// IERS 2003 polynomial constant terms at T=0, reduced mod 2π.
	j2000 := time.Date(2000, 1, 1, 11, 59, 8, 816000000, time.UTC)
	f := Fundamentals(j2000)

	deg := func(rad float64) float64 {
		d := math.Mod(rad*180/math.Pi, 360)
		if d < 0 {
			d += 360
		}
		return d
	}
	want := [5]float64{134.96340251, 357.52910918, 93.27209062, 297.85019547, 125.04455501}
	for i := range want {
		if math.Abs(deg(f[i])-want[i]) > 1e-4 {
			t.Fatalf("argument %d = %v°, want %v°", i, deg(f[i]), want[i])
		}
	}
}

func TestGMSTRotation_WithoutEOP(t *testing.T) {
	rot := NewGMSTRotation(nil)
	epoch := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)

	r, err := rot.Rotary(epoch)
	if err != nil {
		t.Fatalf("Rotary: %v", err)
	}
	gmst := GMST(geo.MJDGPS2UTC(epoch))
	want := geo.RotaryZ(gmst)
	p := geo.Vec3{X: 1, Y: 2, Z: 3}
	if r.Transform(p).DistanceTo(want.Transform(p)) > 1e-12 {
		t.Fatal("rotation without EOP is not a pure GMST spin")
	}

	w, err := rot.AngularVelocity(epoch)
	if err != nil {
		t.Fatalf("AngularVelocity: %v", err)
	}
	if w.X != 0 || w.Y != 0 || w.Z != MeanRotationRate {
		t.Fatalf("angular velocity = %+v", w)
	}
}

func TestGMSTRotation_PolarMotionTiltsPole(t *testing.T) {
	epoch := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	series, err := NewEOPSeries([]EOP{
		{Epoch: epoch.Add(-time.Hour), Xp: 0.2, Yp: 0.4},
		{Epoch: epoch.Add(time.Hour), Xp: 0.2, Yp: 0.4},
	})
	if err != nil {
		t.Fatalf("NewEOPSeries: %v", err)
	}
	rot := NewGMSTRotation(series)

	w, err := rot.AngularVelocity(epoch)
	if err != nil {
		t.Fatalf("AngularVelocity: %v", err)
	}
	if math.Abs(w.X-MeanRotationRate*0.2*arcsec2rad) > 1e-20 ||
		math.Abs(w.Y+MeanRotationRate*0.4*arcsec2rad) > 1e-20 {
		t.Fatalf("tilted rotation vector = %+v", w)
	}

	// A terrestrial pole vector mapped back to the celestial frame must land
	// within the (sub-arcsecond) wobble of the celestial pole.
	r, err := rot.Rotary(epoch)
	if err != nil {
		t.Fatalf("Rotary: %v", err)
	}
	back := r.InverseTransform(geo.Vec3{Z: 1})
	offAxis := math.Hypot(back.X, back.Y)
	if offAxis == 0 || offAxis > 3e-6 {
		t.Fatalf("pole offset = %v rad", offAxis)
	}

	if _, err := rot.Rotary(epoch.Add(48 * time.Hour)); !errors.Is(err, ErrOutsideSpan) {
		t.Fatalf("error = %v, want ErrOutsideSpan", err)
	}
}

func TestEOPSeries_Interpolation(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	series, err := NewEOPSeries([]EOP{
		{Epoch: t0.Add(24 * time.Hour), Xp: 0.3, Yp: 0.1, DUT1: -0.1},
		{Epoch: t0, Xp: 0.1, Yp: 0.3, DUT1: 0.1}, // out of order on purpose
	})
	if err != nil {
		t.Fatalf("NewEOPSeries: %v", err)
	}

	first, last := series.Span()
	if !first.Equal(t0) || !last.Equal(t0.Add(24*time.Hour)) {
		t.Fatalf("span = [%s, %s]", first, last)
	}

	v, err := series.At(t0.Add(12 * time.Hour))
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if math.Abs(v.Xp-0.2) > 1e-15 || math.Abs(v.Yp-0.2) > 1e-15 || math.Abs(v.DUT1) > 1e-15 {
		t.Fatalf("midpoint = %+v", v)
	}

	v, err = series.At(t0)
	if err != nil {
		t.Fatalf("At(first): %v", err)
	}
	if v.Xp != 0.1 || v.Yp != 0.3 {
		t.Fatalf("exact sample = %+v", v)
	}

	if _, err := series.At(t0.Add(-time.Second)); !errors.Is(err, ErrOutsideSpan) {
		t.Fatalf("before span: %v", err)
	}
	if _, err := series.At(t0.Add(25 * time.Hour)); !errors.Is(err, ErrOutsideSpan) {
		t.Fatalf("after span: %v", err)
	}
}

func TestNewEOPSeries_Empty(t *testing.T) {
	if _, err := NewEOPSeries(nil); err == nil {
		t.Fatal("expected error for empty series")
	}
}
