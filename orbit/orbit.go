// Package orbit propagates two-line element sets into terrestrial-frame
// positions, so tidal accelerations can be sampled along an orbit.
package orbit

import (
	"fmt"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/tides-engine/geo"
)

// Propagator wraps an SGP4-propagated satellite.
type Propagator struct {
	name string
	sat  satellite.Satellite
}

// NewPropagator constructs a propagator from TLE lines.
func NewPropagator(name, line1, line2 string) (*Propagator, error) {
	if len(line1) < 69 || len(line2) < 69 {
		return nil, fmt.Errorf("orbit %s: TLE lines must be at least 69 characters", name)
	}
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return &Propagator{name: name, sat: sat}, nil
}

// Name returns the satellite name given at construction.
func (p *Propagator) Name() string { return p.name }

// PositionECEF propagates to t and returns the Earth-fixed position in
// metres. go-satellite works in kilometres; we hand out metres.
func (p *Propagator) PositionECEF(t time.Time) geo.Vec3 {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(p.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	const kmToM = 1000.0
	return geo.Vec3{
		X: posECEF.X * kmToM,
		Y: posECEF.Y * kmToM,
		Z: posECEF.Z * kmToM,
	}
}

// Sample returns Earth-fixed positions over a regular epoch grid from start,
// count epochs spaced by step.
func (p *Propagator) Sample(start time.Time, step time.Duration, count int) ([]time.Time, []geo.Vec3) {
	times := make([]time.Time, count)
	pos := make([]geo.Vec3, count)
	for i := 0; i < count; i++ {
		times[i] = start.Add(time.Duration(i) * step)
		pos[i] = p.PositionECEF(times[i])
	}
	return times, pos
}
