package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/harmonics"
	"github.com/signalsfoundry/tides-engine/rotation"
	"github.com/signalsfoundry/tides-engine/tides"
)

// Scenario is the in-memory form of a station scenario: the stations, their
// Love numbers, the Earth orientation series, and the tide model stack.
type Scenario struct {
	Stations []Station
	Gravity  []float64
	Hn, Ln   []float64

	EOP     *rotation.EOPSeries
	Configs []tides.ModelConfig
	Deps    tides.Deps
}

// Station is one evaluation point.
type Station struct {
	Name  string
	Point geo.Vec3
}

// internal JSON shapes, unexported so the file format can evolve.
type scenarioJSON struct {
	Stations []stationJSON     `json:"stations"`
	Love     loveJSON          `json:"love_numbers"`
	EOP      []eopJSON         `json:"eop"`
	Models   []tides.ModelConfig `json:"models"`
	Catalog  []constituentJSON `json:"catalog,omitempty"`
}

type stationJSON struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	// Optional local gravity; GRS80 normal gravity when absent.
	Gravity float64 `json:"gravity,omitempty"`
}

type loveJSON struct {
	Hn []float64 `json:"hn"`
	Ln []float64 `json:"ln"`
}

type eopJSON struct {
	Epoch string  `json:"epoch"` // RFC3339, GPS time
	Xp    float64 `json:"xp"`    // arcsec
	Yp    float64 `json:"yp"`    // arcsec
	DUT1  float64 `json:"dut1"`  // seconds
}

type constituentJSON struct {
	Name    string    `json:"name"`
	Doodson string    `json:"doodson"`
	GM      float64   `json:"gm"`
	R       float64   `json:"r"`
	Degree  int       `json:"degree"`
	Cos     []float64 `json:"cos"`
	Sin     []float64 `json:"sin"`
}

// LoadScenario reads a JSON scenario from r and resolves it into runnable
// form. Structural problems (unknown tide types, bad Doodson numbers, short
// coefficient vectors) fail here rather than at evaluation time.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if len(payload.Stations) == 0 {
		return nil, fmt.Errorf("scenario: no stations")
	}

	sc := &Scenario{
		Hn:      payload.Love.Hn,
		Ln:      payload.Love.Ln,
		Configs: payload.Models,
	}

	for _, js := range payload.Stations {
		if js.Name == "" {
			return nil, fmt.Errorf("scenario: station with empty name")
		}
		p := geo.Vec3{X: js.X, Y: js.Y, Z: js.Z}
		g := js.Gravity
		if g == 0 {
			_, lat, h := geo.Geodetic(p)
			g = geo.NormalGravity(lat, h)
		}
		sc.Stations = append(sc.Stations, Station{Name: js.Name, Point: p})
		sc.Gravity = append(sc.Gravity, g)
	}

	if len(payload.EOP) > 0 {
		samples := make([]rotation.EOP, 0, len(payload.EOP))
		for _, je := range payload.EOP {
			epoch, err := time.Parse(time.RFC3339, je.Epoch)
			if err != nil {
				return nil, fmt.Errorf("scenario: EOP epoch %q: %w", je.Epoch, err)
			}
			samples = append(samples, rotation.EOP{Epoch: epoch, Xp: je.Xp, Yp: je.Yp, DUT1: je.DUT1})
		}
		series, err := rotation.NewEOPSeries(samples)
		if err != nil {
			return nil, fmt.Errorf("scenario: %w", err)
		}
		sc.EOP = series
		sc.Deps.EOP = series
	}

	for _, jc := range payload.Catalog {
		d, err := tides.ParseDoodson(jc.Doodson)
		if err != nil {
			return nil, fmt.Errorf("scenario: constituent %s: %w", jc.Name, err)
		}
		cos, err := harmonics.NewFromCoefficients(jc.GM, jc.R, jc.Degree, jc.Cos)
		if err != nil {
			return nil, fmt.Errorf("scenario: constituent %s: %w", jc.Name, err)
		}
		sin, err := harmonics.NewFromCoefficients(jc.GM, jc.R, jc.Degree, jc.Sin)
		if err != nil {
			return nil, fmt.Errorf("scenario: constituent %s: %w", jc.Name, err)
		}
		sc.Deps.Catalog = append(sc.Deps.Catalog, tides.Constituent{
			Name: jc.Name, Doodson: d, Cos: cos, Sin: sin,
		})
	}

	return sc, nil
}
