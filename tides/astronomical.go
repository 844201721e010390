package tides

import (
	"fmt"
	"time"

	"github.com/signalsfoundry/tides-engine/ephem"
	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/harmonics"
	"github.com/signalsfoundry/tides-engine/rotation"
)

// AstronomicalTide is the direct gravitational attraction of third bodies
// (Sun, Moon, planets) minus the acceleration they impose on the Earth's
// center, i.e. the tidal point-mass field. Field quantities are evaluated in
// closed form; the point-mass field has no finite exterior harmonic
// expansion, so the expansion query fails by contract. Station deformation
// is computed from the degree-truncated tide-generating potential with the
// station's Love numbers.
type AstronomicalTide struct {
	bodies []ephem.Body

	// truncation degree of the tide-generating expansion used for
	// deformation queries
	deformationDegree int

	gm, r float64 // normalization of the deformation expansion
}

// AstronomicalOption configures an AstronomicalTide.
type AstronomicalOption func(*AstronomicalTide)

// WithDeformationDegree sets the truncation degree of the tide-generating
// expansion used for deformation (default 3).
func WithDeformationDegree(degree int) AstronomicalOption {
	return func(m *AstronomicalTide) { m.deformationDegree = degree }
}

// NewAstronomicalTide builds the direct third-body tide for the given
// bodies. At least one body is required.
func NewAstronomicalTide(bodies []ephem.Body, opts ...AstronomicalOption) (*AstronomicalTide, error) {
	if len(bodies) == 0 {
		return nil, fmt.Errorf("astronomicalTide: field bodies must name at least one body")
	}
	m := &AstronomicalTide{
		bodies:            bodies,
		deformationDegree: 3,
		gm:                harmonics.DefaultGM,
		r:                 harmonics.DefaultR,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.deformationDegree < 2 {
		return nil, fmt.Errorf("astronomicalTide: deformation degree %d, must be at least 2", m.deformationDegree)
	}
	return m, nil
}

// Name returns the configuration type tag.
func (m *AstronomicalTide) Name() string { return "astronomicalTide" }

// bodyStates returns terrestrial-frame positions and GM of the configured
// bodies at t.
func (m *AstronomicalTide) bodyStates(t time.Time, rotEarth geo.Rotary3, eph ephem.Ephemerides) ([]geo.Vec3, []float64, error) {
	pos := make([]geo.Vec3, len(m.bodies))
	gms := make([]float64, len(m.bodies))
	for i, b := range m.bodies {
		p, err := eph.Position(t, b)
		if err != nil {
			return nil, nil, fmt.Errorf("astronomicalTide: %w", err)
		}
		gm, err := eph.GM(b)
		if err != nil {
			return nil, nil, fmt.Errorf("astronomicalTide: %w", err)
		}
		pos[i] = rotEarth.Transform(p)
		gms[i] = gm
	}
	return pos, gms, nil
}

// Potential returns the third-body tidal potential, zeroed at the geocenter
// with the degree-1 (uniform acceleration) part removed.
func (m *AstronomicalTide) Potential(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (float64, error) {
	pos, gms, err := m.bodyStates(t, rotEarth, eph)
	if err != nil {
		return 0, err
	}
	v := 0.0
	for i, rb := range pos {
		d := rb.Sub(point).Norm()
		r := rb.Norm()
		v += gms[i] * (1/d - 1/r - point.Dot(rb)/(r*r*r))
	}
	return v, nil
}

// RadialGradient returns ∂V/∂r at point.
func (m *AstronomicalTide) RadialGradient(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (float64, error) {
	g, err := m.Gravity(t, point, rotEarth, rot, eph)
	if err != nil {
		return 0, err
	}
	return g.Dot(point.Normalized()), nil
}

// Gravity returns the tidal acceleration: attraction at the point minus the
// attraction at the geocenter.
func (m *AstronomicalTide) Gravity(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (geo.Vec3, error) {
	pos, gms, err := m.bodyStates(t, rotEarth, eph)
	if err != nil {
		return geo.Vec3{}, err
	}
	var g geo.Vec3
	for i, rb := range pos {
		d := rb.Sub(point)
		dn := d.Norm()
		rn := rb.Norm()
		g = g.Add(d.Scale(gms[i] / (dn * dn * dn)))
		g = g.Sub(rb.Scale(gms[i] / (rn * rn * rn)))
	}
	return g, nil
}

// GravityGradient returns the tidal gravity gradient. The geocenter term is
// constant in the point, so only the direct attraction contributes.
func (m *AstronomicalTide) GravityGradient(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides) (geo.Tensor3, error) {
	pos, gms, err := m.bodyStates(t, rotEarth, eph)
	if err != nil {
		return geo.Tensor3{}, err
	}
	var tt geo.Tensor3
	for i, rb := range pos {
		u := point.Sub(rb)
		un := u.Norm()
		u3 := un * un * un
		u5 := u3 * un * un
		tt = tt.Add(geo.Tensor3{
			XX: gms[i] * (3*u.X*u.X/u5 - 1/u3),
			XY: gms[i] * 3 * u.X * u.Y / u5,
			XZ: gms[i] * 3 * u.X * u.Z / u5,
			YY: gms[i] * (3*u.Y*u.Y/u5 - 1/u3),
			YZ: gms[i] * 3 * u.Y * u.Z / u5,
			ZZ: gms[i] * (3*u.Z*u.Z/u5 - 1/u3),
		})
	}
	return tt, nil
}

// tideField returns the degree-truncated tide-generating expansion used for
// deformation queries.
func (m *AstronomicalTide) tideField(t time.Time, rotEarth geo.Rotary3, eph ephem.Ephemerides) (harmonics.SphericalHarmonics, error) {
	pos, gms, err := m.bodyStates(t, rotEarth, eph)
	if err != nil {
		return harmonics.SphericalHarmonics{}, err
	}
	coeff := make([]float64, harmonics.Coefficients(m.deformationDegree))
	for i, rb := range pos {
		addTideGeneratingPotential(coeff, m.deformationDegree, gms[i]/m.gm, rb, m.r, nil)
	}
	return harmonics.NewFromCoefficients(m.gm, m.r, m.deformationDegree, coeff)
}

// Deformation returns the station displacement induced by the truncated
// tide-generating potential through the station's Love numbers.
func (m *AstronomicalTide) Deformation(t time.Time, point geo.Vec3, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
	gravity float64, hn, ln []float64) (geo.Vec3, error) {
	h, err := m.tideField(t, rotEarth, eph)
	if err != nil {
		return geo.Vec3{}, err
	}
	d, err := h.Deformation(point, gravity, hn, ln)
	if err != nil {
		return geo.Vec3{}, fmt.Errorf("astronomicalTide: %w", err)
	}
	return d, nil
}

// DeformationSeries accumulates station displacements over a time series,
// building the displacement operator once for the station set.
func (m *AstronomicalTide) DeformationSeries(times []time.Time, points []geo.Vec3, rotEarth []geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
	gravity, hn, ln []float64, disp [][]geo.Vec3) error {
	if len(times) == 0 || len(points) == 0 {
		return nil
	}
	if err := checkSeriesShape(m.Name(), times, points, rotEarth, disp); err != nil {
		return err
	}
	a, err := harmonics.NewDeformationMatrix(points, gravity, hn, ln, m.gm, m.r, m.deformationDegree)
	if err != nil {
		return fmt.Errorf("astronomicalTide: %w", err)
	}
	for i, epoch := range times {
		h, err := m.tideField(epoch, rotEarth[i], eph)
		if err != nil {
			return err
		}
		ax := a.ApplyField(h)
		for k := range points {
			disp[k][i] = disp[k][i].Add(geo.Vec3{X: ax[3*k+0], Y: ax[3*k+1], Z: ax[3*k+2]})
		}
	}
	return nil
}

// SphericalHarmonics fails by contract: the direct point-mass attraction is
// an infinite series at any truncation and is therefore not expressible as
// a finite harmonic field.
func (m *AstronomicalTide) SphericalHarmonics(t time.Time, rotEarth geo.Rotary3, rot rotation.EarthRotation, eph ephem.Ephemerides,
	maxDegree, minDegree int, gm, r float64) (harmonics.SphericalHarmonics, error) {
	return harmonics.SphericalHarmonics{}, fmt.Errorf("astronomicalTide: direct point-mass attraction has no finite spherical harmonic expansion")
}
