package tides

import (
	"fmt"

	"github.com/signalsfoundry/tides-engine/ephem"
	"github.com/signalsfoundry/tides-engine/harmonics"
	"github.com/signalsfoundry/tides-engine/rotation"
)

// ModelConfig is the JSON shape of one tide model entry. Type selects the
// model; the remaining fields apply only where the selected type uses them.
type ModelConfig struct {
	Type string `json:"type"`

	// astronomicalTide, earthTide
	Bodies []string `json:"bodies,omitempty"`

	// astronomicalTide
	DeformationDegree int `json:"deformation_degree,omitempty"`

	// earthTide
	K2 []float64 `json:"k2,omitempty"`
	K3 []float64 `json:"k3,omitempty"`

	// solidMoonTide
	MoonK2 float64 `json:"moon_k2,omitempty"`
}

// Deps carries the runtime data a model configuration may bind to: the Earth
// orientation series, a harmonic tide catalog, and the ocean pole tide
// coefficient fields. Ingestion of these from files lives with the callers.
type Deps struct {
	EOP           *rotation.EOPSeries
	Catalog       []Constituent
	OceanPoleReal harmonics.SphericalHarmonics
	OceanPoleImag harmonics.SphericalHarmonics
}

// typeAliases maps deprecated configuration tags onto their current names.
// Old configurations keep working; the canonical tag appears in all errors.
var typeAliases = map[string]string{
	"poleTide2010":      "poleTide",
	"poleOceanTide2010": "oceanPoleTide",
	"moonTide":          "solidMoonTide",
}

// Build constructs an aggregator from an ordered model configuration list.
// An unknown type tag is a configuration error naming the offending entry.
func Build(configs []ModelConfig, deps Deps) (*Aggregator, error) {
	models := make([]Model, 0, len(configs))
	for i, c := range configs {
		typ := c.Type
		if canonical, ok := typeAliases[typ]; ok {
			typ = canonical
		}
		m, err := buildModel(typ, c, deps)
		if err != nil {
			return nil, fmt.Errorf("tide model %d: %w", i, err)
		}
		models = append(models, m)
	}
	return NewAggregator(models...), nil
}

func buildModel(typ string, c ModelConfig, deps Deps) (Model, error) {
	switch typ {
	case "astronomicalTide":
		bodies, err := parseBodies(c.Bodies)
		if err != nil {
			return nil, err
		}
		opts := []AstronomicalOption{}
		if c.DeformationDegree != 0 {
			opts = append(opts, WithDeformationDegree(c.DeformationDegree))
		}
		return NewAstronomicalTide(bodies, opts...)

	case "earthTide":
		bodies, err := parseBodies(c.Bodies)
		if err != nil {
			return nil, err
		}
		opts := []SolidEarthOption{}
		if c.K2 != nil {
			if len(c.K2) != 3 {
				return nil, fmt.Errorf("earthTide: field k2 has %d entries, want 3", len(c.K2))
			}
			opts = append(opts, WithK2([3]float64{c.K2[0], c.K2[1], c.K2[2]}))
		}
		if c.K3 != nil {
			if len(c.K3) != 4 {
				return nil, fmt.Errorf("earthTide: field k3 has %d entries, want 4", len(c.K3))
			}
			opts = append(opts, WithK3([4]float64{c.K3[0], c.K3[1], c.K3[2], c.K3[3]}))
		}
		return NewSolidEarthTide(bodies, opts...), nil

	case "doodsonHarmonicTide":
		return NewDoodsonHarmonicTide(deps.Catalog)

	case "poleTide":
		return NewPoleTide(deps.EOP)

	case "oceanPoleTide":
		return NewOceanPoleTide(deps.EOP, deps.OceanPoleReal, deps.OceanPoleImag)

	case "centrifugalTide":
		return NewCentrifugalTide(), nil

	case "solidMoonTide":
		opts := []SolidMoonOption{}
		if c.MoonK2 != 0 {
			opts = append(opts, WithMoonK2(c.MoonK2))
		}
		return NewSolidMoonTide(opts...), nil

	default:
		return nil, fmt.Errorf("unknown tide type %q", typ)
	}
}

func parseBodies(names []string) ([]ephem.Body, error) {
	bodies := make([]ephem.Body, 0, len(names))
	for _, name := range names {
		b, err := ephem.BodyFromName(name)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}
