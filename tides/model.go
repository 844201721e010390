// Package tides computes the time-varying gravitational effect of tidal
// phenomena on a point in the terrestrial frame, and converts those effects
// into station surface displacements.
//
// Each physical effect is one Model; an Aggregator owns an ordered set of
// models and sums their contributions. Models are immutable after
// construction and safe for concurrent evaluation.
package tides

import (
	"fmt"
	"time"

	"github.com/signalsfoundry/tides-engine/ephem"
	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/harmonics"
	"github.com/signalsfoundry/tides-engine/rotation"
)

// Model is one tidal contribution. Evaluation points are terrestrial-frame
// metres; rotEarth is the celestial→terrestrial rotation at the epoch, used
// to bring ephemerides positions into the terrestrial frame.
//
// Models that are defined through a spherical harmonic expansion answer
// every query; models whose field has no finite exterior expansion (direct
// point-mass attraction, centrifugal force) return a descriptive error from
// SphericalHarmonics and from the queries that require it, but still answer
// the direct-evaluation queries.
type Model interface {
	// Name is the configuration type tag of the model, used in error
	// messages so failures are attributable to a specific tide type.
	Name() string

	// Potential returns the tidal potential at point (m²/s²).
	Potential(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (float64, error)

	// RadialGradient returns ∂V/∂r at point (m/s²).
	RadialGradient(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (float64, error)

	// Gravity returns the tidal acceleration at point (m/s²).
	Gravity(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (geo.Vec3, error)

	// GravityGradient returns the tensor of second potential derivatives
	// at point (1/s²).
	GravityGradient(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (geo.Tensor3, error)

	// Deformation returns the elastic surface displacement at a station
	// with the given local gravity and Love numbers (metres).
	Deformation(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
		gravity float64, hn, ln []float64) (geo.Vec3, error)

	// DeformationSeries accumulates station displacements for a time series
	// into disp, indexed disp[station][epoch]. The displacement operator is
	// built once per station set and reused across the epochs.
	DeformationSeries(times []time.Time, points []geo.Vec3, rotEarth []geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
		gravity, hn, ln []float64, disp [][]geo.Vec3) error

	// SphericalHarmonics returns the model's field as an expansion up to
	// maxDegree, zero below minDegree, normalized to (gm, r).
	SphericalHarmonics(t time.Time, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
		maxDegree, minDegree int, gm, r float64) (harmonics.SphericalHarmonics, error)
}

// expansionSource is implemented by models that are defined through a
// spherical harmonic expansion; expansion provides the default evaluators
// on top of it.
type expansionSource interface {
	Name() string

	// expand returns the model's field at its native degree and scale.
	expand(t time.Time, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (harmonics.SphericalHarmonics, error)
}

// expansion supplies the Model evaluators for expansion-defined models:
// every query evaluates the expanded field. Embedding models must point src
// back at themselves during construction.
type expansion struct {
	src expansionSource
}

func (e expansion) Potential(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (float64, error) {
	h, err := e.src.expand(t, rotEarth, rot, eph)
	if err != nil {
		return 0, err
	}
	return h.Potential(point), nil
}

func (e expansion) RadialGradient(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (float64, error) {
	h, err := e.src.expand(t, rotEarth, rot, eph)
	if err != nil {
		return 0, err
	}
	return h.RadialGradient(point), nil
}

func (e expansion) Gravity(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (geo.Vec3, error) {
	h, err := e.src.expand(t, rotEarth, rot, eph)
	if err != nil {
		return geo.Vec3{}, err
	}
	return h.Gravity(point), nil
}

func (e expansion) GravityGradient(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (geo.Tensor3, error) {
	h, err := e.src.expand(t, rotEarth, rot, eph)
	if err != nil {
		return geo.Tensor3{}, err
	}
	return h.GravityGradient(point), nil
}

func (e expansion) Deformation(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
	gravity float64, hn, ln []float64) (geo.Vec3, error) {
	h, err := e.src.expand(t, rotEarth, rot, eph)
	if err != nil {
		return geo.Vec3{}, err
	}
	d, err := h.Deformation(point, gravity, hn, ln)
	if err != nil {
		return geo.Vec3{}, fmt.Errorf("%s: %w", e.src.Name(), err)
	}
	return d, nil
}

func (e expansion) DeformationSeries(times []time.Time, points []geo.Vec3, rotEarth []geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
	gravity, hn, ln []float64, disp [][]geo.Vec3) error {
	if len(times) == 0 || len(points) == 0 {
		return nil
	}
	if err := checkSeriesShape(e.src.Name(), times, points, rotEarth, disp); err != nil {
		return err
	}

	h, err := e.src.expand(times[0], rotEarth[0], rot, eph)
	if err != nil {
		return err
	}
	a, err := harmonics.NewDeformationMatrix(points, gravity, hn, ln, h.GM(), h.R(), h.MaxDegree())
	if err != nil {
		return fmt.Errorf("%s: %w", e.src.Name(), err)
	}
	for i, epoch := range times {
		if i > 0 {
			h, err = e.src.expand(epoch, rotEarth[i], rot, eph)
			if err != nil {
				return err
			}
		}
		ax := a.ApplyField(h)
		for k := range points {
			disp[k][i] = disp[k][i].Add(geo.Vec3{X: ax[3*k+0], Y: ax[3*k+1], Z: ax[3*k+2]})
		}
	}
	return nil
}

func (e expansion) SphericalHarmonics(t time.Time, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
	maxDegree, minDegree int, gm, r float64) (harmonics.SphericalHarmonics, error) {
	h, err := e.src.expand(t, rotEarth, rot, eph)
	if err != nil {
		return harmonics.SphericalHarmonics{}, err
	}
	return h.Rescale(maxDegree, minDegree, gm, r), nil
}

// checkSeriesShape validates the caller-owned slices of a batched
// deformation query. Shape mismatches are configuration errors.
func checkSeriesShape(name string, times []time.Time, points []geo.Vec3, rotEarth []geo.Rotary3, disp [][]geo.Vec3) error {
	if len(rotEarth) != len(times) {
		return fmt.Errorf("%s: %d rotations for %d epochs", name, len(rotEarth), len(times))
	}
	if len(disp) != len(points) {
		return fmt.Errorf("%s: displacement buffer has %d stations, want %d", name, len(disp), len(points))
	}
	for k := range disp {
		if len(disp[k]) != len(times) {
			return fmt.Errorf("%s: displacement buffer for station %d has %d epochs, want %d", name, k, len(disp[k]), len(times))
		}
	}
	return nil
}

// addTideGeneratingPotential accumulates into coeff the 4π-normalized
// expansion of the tide-generating potential of an attracting body at
// terrestrial position rb, for degrees 2..maxDegree:
//
//	Δcnm = w(n,m)/(2n+1) · GMb/GM · (R/rb)^(n+1) P̄nm(cos θb) cos(mλb)
//
// and the analogous sine terms. The weight hook lets callers fold in
// degree/order dependent response factors (Love numbers).
func addTideGeneratingPotential(coeff []float64, maxDegree int, gmRatio float64, rb geo.Vec3, r float64, weight func(n, m int) float64) {
	cnm, snm := harmonics.CnmSnm(rb.Scale(1/r), maxDegree)
	for n := 2; n <= maxDegree; n++ {
		for m := 0; m <= n; m++ {
			w := gmRatio / float64(2*n+1)
			if weight != nil {
				w *= weight(n, m)
			}
			coeff[harmonics.Pack(n, m, false)] += w * cnm[n][m]
			if m > 0 {
				coeff[harmonics.Pack(n, m, true)] += w * snm[n][m]
			}
		}
	}
}
