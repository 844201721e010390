package tides

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/signalsfoundry/tides-engine/ephem"
	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/harmonics"
	"github.com/signalsfoundry/tides-engine/rotation"
)

// staticEphem serves fixed body positions, for deterministic tests.
type staticEphem struct {
	pos map[ephem.Body]geo.Vec3
	gm  map[ephem.Body]float64
}

func (e staticEphem) Position(t time.Time, body ephem.Body) (geo.Vec3, error) {
	p, ok := e.pos[body]
	if !ok {
		return geo.Vec3{}, fmt.Errorf("static ephemerides: body %s not configured", body)
	}
	return p, nil
}

func (e staticEphem) GM(body ephem.Body) (float64, error) {
	gm, ok := e.gm[body]
	if !ok {
		return 0, fmt.Errorf("static ephemerides: no GM for body %s", body)
	}
	return gm, nil
}

// constModel is a minimal Model returning fixed values, or failing every
// query when err is set.
type constModel struct {
	name string
	v    float64
	g    geo.Vec3
	d    geo.Vec3
	err  error
}

func (m constModel) Name() string { return m.name }

func (m constModel) Potential(time.Time, geo.Vec3, geo.Rotary3, rotation.EarthRotation, ephem.Ephemerides) (float64, error) {
	return m.v, m.err
}

func (m constModel) RadialGradient(time.Time, geo.Vec3, geo.Rotary3, rotation.EarthRotation, ephem.Ephemerides) (float64, error) {
	return m.v, m.err
}

func (m constModel) Gravity(time.Time, geo.Vec3, geo.Rotary3, rotation.EarthRotation, ephem.Ephemerides) (geo.Vec3, error) {
	return m.g, m.err
}

func (m constModel) GravityGradient(time.Time, geo.Vec3, geo.Rotary3, rotation.EarthRotation, ephem.Ephemerides) (geo.Tensor3, error) {
	return geo.Tensor3{XX: m.v, YY: m.v, ZZ: -2 * m.v}, m.err
}

func (m constModel) Deformation(t time.Time, p geo.Vec3, re geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides, gravity float64, hn, ln []float64) (geo.Vec3, error) {
	return m.d, m.err
}

func (m constModel) DeformationSeries(times []time.Time, points []geo.Vec3, rotEarth []geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides, gravity, hn, ln []float64, disp [][]geo.Vec3) error {
	if m.err != nil {
		return m.err
	}
	for k := range points {
		for i := range times {
			disp[k][i] = disp[k][i].Add(m.d)
		}
	}
	return nil
}

func (m constModel) SphericalHarmonics(t time.Time, re geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides, maxDegree, minDegree int, gm, r float64) (harmonics.SphericalHarmonics, error) {
	if m.err != nil {
		return harmonics.SphericalHarmonics{}, m.err
	}
	c := make([]float64, harmonics.Coefficients(0))
	c[0] = m.v
	h, _ := harmonics.NewFromCoefficients(gm, r, 0, c)
	return h.Rescale(maxDegree, minDegree, gm, r), nil
}

var (
	testEpoch = time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	testPoint = geo.Vec3{X: 4.1e6, Y: 0.6e6, Z: 4.8e6}
)

func TestAggregator_EmptyReturnsZero(t *testing.T) {
	agg := NewAggregator()
	v, err := agg.Potential(testEpoch, testPoint, geo.Identity(), nil, nil)
	if err != nil || v != 0 {
		t.Fatalf("empty potential = %v, %v", v, err)
	}
	g, err := agg.Acceleration(testEpoch, testPoint, geo.Identity(), nil, nil)
	if err != nil || g != (geo.Vec3{}) {
		t.Fatalf("empty acceleration = %+v, %v", g, err)
	}
	h, err := agg.SphericalHarmonics(testEpoch, geo.Identity(), nil, nil, 4, 0, harmonics.DefaultGM, harmonics.DefaultR)
	if err != nil {
		t.Fatalf("empty expansion: %v", err)
	}
	if h.MaxDegree() != 0 || h.Cnm(0, 0) != 0 {
		t.Fatalf("empty expansion not the zero field: degree=%d c00=%v", h.MaxDegree(), h.Cnm(0, 0))
	}
}

func TestAggregator_SumsContributions(t *testing.T) {
	a := constModel{name: "a", v: 1.5, g: geo.Vec3{X: 1}, d: geo.Vec3{Z: 0.01}}
	b := constModel{name: "b", v: -0.5, g: geo.Vec3{Y: 2}, d: geo.Vec3{Z: 0.02}}

	agg := NewAggregator(a, b)
	v, err := agg.Potential(testEpoch, testPoint, geo.Identity(), nil, nil)
	if err != nil || v != 1.0 {
		t.Fatalf("potential = %v, %v; want 1.0", v, err)
	}
	g, err := agg.Acceleration(testEpoch, testPoint, geo.Identity(), nil, nil)
	if err != nil || g != (geo.Vec3{X: 1, Y: 2}) {
		t.Fatalf("acceleration = %+v, %v", g, err)
	}
	tt, err := agg.Gradient(testEpoch, testPoint, geo.Identity(), nil, nil)
	if err != nil || tt.XX != 1.0 || tt.ZZ != -2.0 {
		t.Fatalf("gradient = %+v, %v", tt, err)
	}
	d, err := agg.Deformation(testEpoch, testPoint, geo.Identity(), nil, nil, 9.8, nil, nil)
	if err != nil || d != (geo.Vec3{Z: 0.03}) {
		t.Fatalf("deformation = %+v, %v", d, err)
	}
}

func TestAggregator_OrderIndependent(t *testing.T) {
	a := constModel{name: "a", v: 1.25}
	b := constModel{name: "b", v: 2.5}
	c := constModel{name: "c", v: -0.75}

	v1, _ := NewAggregator(a, b, c).Potential(testEpoch, testPoint, geo.Identity(), nil, nil)
	v2, _ := NewAggregator(c, a, b).Potential(testEpoch, testPoint, geo.Identity(), nil, nil)
	if v1 != v2 {
		t.Fatalf("order changed the sum: %v vs %v", v1, v2)
	}
}

func TestAggregator_PropagatesModelError(t *testing.T) {
	boom := errors.New("solidTide: epoch outside ephemerides time span")
	agg := NewAggregator(
		constModel{name: "ok", v: 1},
		constModel{name: "bad", err: boom},
	)
	if _, err := agg.Potential(testEpoch, testPoint, geo.Identity(), nil, nil); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
	if _, err := agg.SphericalHarmonics(testEpoch, geo.Identity(), nil, nil, 2, 0, 1, 1); !errors.Is(err, boom) {
		t.Fatalf("expansion error = %v, want %v", err, boom)
	}
}

func TestAggregator_CapabilityMismatchNamesModel(t *testing.T) {
	astro, err := NewAstronomicalTide([]ephem.Body{ephem.Moon})
	if err != nil {
		t.Fatalf("NewAstronomicalTide: %v", err)
	}
	agg := NewAggregator(astro)
	_, err = agg.SphericalHarmonics(testEpoch, geo.Identity(), nil, nil, 4, 0, harmonics.DefaultGM, harmonics.DefaultR)
	if err == nil || !strings.Contains(err.Error(), "astronomicalTide") {
		t.Fatalf("expected capability error naming astronomicalTide, got %v", err)
	}
}

func TestAggregator_MetricsCountQueriesAndErrors(t *testing.T) {
	agg := NewAggregator(constModel{name: "a", v: 1})
	metrics := NewMetrics()
	agg.SetMetrics(metrics)

	_, _ = agg.Potential(testEpoch, testPoint, geo.Identity(), nil, nil)
	_, _ = agg.RadialGradient(testEpoch, testPoint, geo.Identity(), nil, nil)
	_, _ = agg.Acceleration(testEpoch, testPoint, geo.Identity(), nil, nil)
	_, _ = agg.Acceleration(testEpoch, testPoint, geo.Identity(), nil, nil)

	failing := NewAggregator(constModel{name: "bad", err: errors.New("boom")})
	failing.SetMetrics(metrics)
	_, _ = failing.Gradient(testEpoch, testPoint, geo.Identity(), nil, nil)

	snap := metrics.Snapshot()
	if snap.NumPotential != 1 || snap.NumRadialGradient != 1 || snap.NumAcceleration != 2 || snap.NumGradient != 1 {
		t.Fatalf("counters = %+v", snap)
	}
	if snap.NumErrors != 1 {
		t.Fatalf("errors = %d, want 1", snap.NumErrors)
	}
}

func TestAggregator_DeformationSeriesAccumulates(t *testing.T) {
	a := constModel{name: "a", d: geo.Vec3{X: 0.001}}
	b := constModel{name: "b", d: geo.Vec3{Z: -0.002}}
	agg := NewAggregator(a, b)

	times := []time.Time{testEpoch, testEpoch.Add(time.Hour)}
	points := []geo.Vec3{testPoint}
	rotEarth := []geo.Rotary3{geo.Identity(), geo.Identity()}
	disp := [][]geo.Vec3{make([]geo.Vec3, len(times))}

	if err := agg.DeformationSeries(times, points, rotEarth, nil, nil, []float64{9.8}, nil, nil, disp); err != nil {
		t.Fatalf("DeformationSeries: %v", err)
	}
	// a second pass adds on top of the buffer
	if err := agg.DeformationSeries(times, points, rotEarth, nil, nil, []float64{9.8}, nil, nil, disp); err != nil {
		t.Fatalf("DeformationSeries (second): %v", err)
	}
	want := geo.Vec3{X: 0.002, Z: -0.004}
	for i := range times {
		if disp[0][i] != want {
			t.Fatalf("disp[0][%d] = %+v, want %+v", i, disp[0][i], want)
		}
	}
}
