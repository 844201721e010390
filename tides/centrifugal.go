package tides

import (
	"fmt"
	"time"

	"github.com/signalsfoundry/tides-engine/ephem"
	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/harmonics"
	"github.com/signalsfoundry/tides-engine/rotation"
)

// CentrifugalTide is the centrifugal potential of the Earth's rotation,
// V = ½|ω × p|², evaluated from the rotation model's angular velocity. The
// potential grows with distance instead of decaying, so it has no exterior
// harmonic expansion and no harmonic-transform deformation; those queries
// fail by contract.
type CentrifugalTide struct{}

// NewCentrifugalTide builds the centrifugal pseudo-tide.
func NewCentrifugalTide() *CentrifugalTide { return &CentrifugalTide{} }

// Name returns the configuration type tag.
func (m *CentrifugalTide) Name() string { return "centrifugalTide" }

func (m *CentrifugalTide) omega(t time.Time, rot rotation.EarthRotation) (geo.Vec3, error) {
	if rot == nil {
		return geo.Vec3{}, fmt.Errorf("centrifugalTide: an Earth rotation model is required")
	}
	w, err := rot.AngularVelocity(t)
	if err != nil {
		return geo.Vec3{}, fmt.Errorf("centrifugalTide: %w", err)
	}
	return w, nil
}

// Potential returns ½|ω × p|².
func (m *CentrifugalTide) Potential(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (float64, error) {
	w, err := m.omega(t, rot)
	if err != nil {
		return 0, err
	}
	c := w.Cross(point)
	return 0.5 * c.Dot(c), nil
}

// RadialGradient returns the radial component of the centrifugal
// acceleration.
func (m *CentrifugalTide) RadialGradient(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (float64, error) {
	g, err := m.Gravity(t, point, rotEarth, rot, eph)
	if err != nil {
		return 0, err
	}
	return g.Dot(point.Normalized()), nil
}

// Gravity returns the centrifugal acceleration −ω × (ω × p).
func (m *CentrifugalTide) Gravity(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (geo.Vec3, error) {
	w, err := m.omega(t, rot)
	if err != nil {
		return geo.Vec3{}, err
	}
	return point.Scale(w.Dot(w)).Sub(w.Scale(w.Dot(point))), nil
}

// GravityGradient returns |ω|²I − ωωᵀ.
func (m *CentrifugalTide) GravityGradient(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (geo.Tensor3, error) {
	w, err := m.omega(t, rot)
	if err != nil {
		return geo.Tensor3{}, err
	}
	w2 := w.Dot(w)
	return geo.Tensor3{
		XX: w2 - w.X*w.X,
		XY: -w.X * w.Y,
		XZ: -w.X * w.Z,
		YY: w2 - w.Y*w.Y,
		YZ: -w.Y * w.Z,
		ZZ: w2 - w.Z*w.Z,
	}, nil
}

// Deformation fails by contract: the centrifugal potential has no exterior
// expansion to feed the Love number transform.
func (m *CentrifugalTide) Deformation(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
	gravity float64, hn, ln []float64) (geo.Vec3, error) {
	return geo.Vec3{}, fmt.Errorf("centrifugalTide: centrifugal potential supports no harmonic deformation transform")
}

// DeformationSeries fails like Deformation.
func (m *CentrifugalTide) DeformationSeries(times []time.Time, points []geo.Vec3, rotEarth []geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
	gravity, hn, ln []float64, disp [][]geo.Vec3) error {
	if len(times) == 0 || len(points) == 0 {
		return nil
	}
	return fmt.Errorf("centrifugalTide: centrifugal potential supports no harmonic deformation transform")
}

// SphericalHarmonics fails by contract: the centrifugal potential grows with
// distance and has no exterior expansion.
func (m *CentrifugalTide) SphericalHarmonics(t time.Time, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
	maxDegree, minDegree int, gm, r float64) (harmonics.SphericalHarmonics, error) {
	return harmonics.SphericalHarmonics{}, fmt.Errorf("centrifugalTide: centrifugal potential has no exterior spherical harmonic expansion")
}
