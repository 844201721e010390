package tides

import (
	"time"

	"github.com/signalsfoundry/tides-engine/ephem"
	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/harmonics"
	"github.com/signalsfoundry/tides-engine/rotation"
)

// Aggregator owns an ordered collection of tide models and sums their
// contributions under each query. Order is insertion order; results are
// order-independent since all combinations are additive.
//
// Any per-model failure aborts the whole query with the originating model's
// error; no partial sums are returned. Failures are deterministic (missing
// coverage, capability mismatch), so there is no retry logic.
type Aggregator struct {
	models  []Model
	metrics *Metrics
}

// NewAggregator builds an aggregator owning the given models.
func NewAggregator(models ...Model) *Aggregator {
	return &Aggregator{models: models}
}

// SetMetrics attaches evaluation counters. Must be called before the
// aggregator is shared between goroutines.
func (a *Aggregator) SetMetrics(m *Metrics) { a.metrics = m }

// Models returns the owned models in insertion order.
func (a *Aggregator) Models() []Model { return a.models }

func (a *Aggregator) count(inc func(*Metrics), err error) {
	if a.metrics == nil {
		return
	}
	inc(a.metrics)
	if err != nil {
		a.metrics.IncErrors()
	}
}

// Potential returns the summed tidal potential at point.
func (a *Aggregator) Potential(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (v float64, err error) {
	defer func() { a.count((*Metrics).IncPotential, err) }()
	for _, m := range a.models {
		vm, err := m.Potential(t, point, rotEarth, rot, eph)
		if err != nil {
			return 0, err
		}
		v += vm
	}
	return v, nil
}

// RadialGradient returns the summed radial potential derivative at point.
func (a *Aggregator) RadialGradient(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (dvdr float64, err error) {
	defer func() { a.count((*Metrics).IncRadialGradient, err) }()
	for _, m := range a.models {
		dm, err := m.RadialGradient(t, point, rotEarth, rot, eph)
		if err != nil {
			return 0, err
		}
		dvdr += dm
	}
	return dvdr, nil
}

// Acceleration returns the summed tidal acceleration at point.
func (a *Aggregator) Acceleration(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (g geo.Vec3, err error) {
	defer func() { a.count((*Metrics).IncAcceleration, err) }()
	for _, m := range a.models {
		gm, err := m.Gravity(t, point, rotEarth, rot, eph)
		if err != nil {
			return geo.Vec3{}, err
		}
		g = g.Add(gm)
	}
	return g, nil
}

// Gradient returns the summed gravity gradient tensor at point.
func (a *Aggregator) Gradient(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (tt geo.Tensor3, err error) {
	defer func() { a.count((*Metrics).IncGradient, err) }()
	for _, m := range a.models {
		tm, err := m.GravityGradient(t, point, rotEarth, rot, eph)
		if err != nil {
			return geo.Tensor3{}, err
		}
		tt = tt.Add(tm)
	}
	return tt, nil
}

// Deformation returns the summed station displacement at a single epoch.
// Each model applies its own harmonic-to-displacement transform (or a direct
// displacement model); the aggregator never materializes a combined field
// for this query, since per-model transforms are degree-truncated
// differently.
func (a *Aggregator) Deformation(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
	gravity float64, hn, ln []float64) (d geo.Vec3, err error) {
	defer func() { a.count((*Metrics).IncDeformation, err) }()
	for _, m := range a.models {
		dm, err := m.Deformation(t, point, rotEarth, rot, eph, gravity, hn, ln)
		if err != nil {
			return geo.Vec3{}, err
		}
		d = d.Add(dm)
	}
	return d, nil
}

// DeformationSeries accumulates station displacements for a time series of
// epochs into the caller-owned buffer disp[station][epoch]. Contributions
// add in place, so one buffer can collect several aggregators or repeated
// calls; callers parallelizing by epoch range must pass disjoint buffers.
func (a *Aggregator) DeformationSeries(times []time.Time, points []geo.Vec3, rotEarth []geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
	gravity, hn, ln []float64, disp [][]geo.Vec3) (err error) {
	defer func() { a.count((*Metrics).IncDeformation, err) }()
	for _, m := range a.models {
		if err := m.DeformationSeries(times, points, rotEarth, rot, eph, gravity, hn, ln, disp); err != nil {
			return err
		}
	}
	return nil
}

// SphericalHarmonics returns the sum of all models' harmonic expansions,
// normalized to (gm, r) in the degree window [minDegree, maxDegree]. An
// aggregator without models returns an empty degree-0 zero field. A model
// that cannot express itself as an expansion fails this query (and only
// this query) with a descriptive error.
func (a *Aggregator) SphericalHarmonics(t time.Time, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
	maxDegree, minDegree int, gm, r float64) (h harmonics.SphericalHarmonics, err error) {
	defer func() { a.count((*Metrics).IncExpansions, err) }()
	if len(a.models) == 0 {
		return harmonics.SphericalHarmonics{}, nil
	}
	sum, err := a.models[0].SphericalHarmonics(t, rotEarth, rot, eph, maxDegree, minDegree, gm, r)
	if err != nil {
		return harmonics.SphericalHarmonics{}, err
	}
	for _, m := range a.models[1:] {
		hm, err := m.SphericalHarmonics(t, rotEarth, rot, eph, maxDegree, minDegree, gm, r)
		if err != nil {
			return harmonics.SphericalHarmonics{}, err
		}
		sum = sum.Add(hm)
	}
	return sum, nil
}
