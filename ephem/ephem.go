// Package ephem provides solar system body positions to the tide models.
//
// Positions are geocentric, expressed in the celestial frame, in metres.
// Implementations must report an explicit error (never a silent zero) when a
// requested epoch lies outside their covered span.
package ephem

import (
	"errors"
	"fmt"
	"time"

	"github.com/signalsfoundry/tides-engine/geo"
)

// Body identifies a solar system body.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
)

// String returns the lowercase body name.
func (b Body) String() string {
	switch b {
	case Sun:
		return "sun"
	case Moon:
		return "moon"
	case Mercury:
		return "mercury"
	case Venus:
		return "venus"
	case Mars:
		return "mars"
	case Jupiter:
		return "jupiter"
	case Saturn:
		return "saturn"
	case Uranus:
		return "uranus"
	case Neptune:
		return "neptune"
	}
	return fmt.Sprintf("body(%d)", int(b))
}

// BodyFromName resolves a lowercase body name from configuration.
func BodyFromName(name string) (Body, error) {
	for b := Sun; b <= Neptune; b++ {
		if b.String() == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("ephemerides: unknown body %q", name)
}

// ErrOutsideSpan reports an epoch outside the time span covered by an
// ephemerides implementation.
var ErrOutsideSpan = errors.New("epoch outside ephemerides time span")

// Ephemerides supplies geocentric celestial-frame positions and gravitational
// parameters of solar system bodies. Implementations are read-only after
// construction and safe for concurrent use.
type Ephemerides interface {
	// Position returns the geocentric position of body at the GPS epoch t,
	// in metres, celestial frame.
	Position(t time.Time, body Body) (geo.Vec3, error)

	// GM returns the gravitational parameter of body in m³/s².
	GM(body Body) (float64, error)
}

// Gravitational parameters (m³/s²) for the analytic ephemerides and as
// defaults when an ephemeris file does not carry them.
var defaultGM = map[Body]float64{
	Sun:  1.32712442076e20,
	Moon: 4.9027779e12,
}
