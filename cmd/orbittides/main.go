// Command orbittides samples tidal accelerations along a satellite orbit: it
// propagates a TLE with SGP4 and evaluates the third-body and solid Earth
// tide acceleration at each Earth-fixed position, writing one JSON line per
// epoch to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/signalsfoundry/tides-engine/ephem"
	"github.com/signalsfoundry/tides-engine/internal/logging"
	"github.com/signalsfoundry/tides-engine/orbit"
	"github.com/signalsfoundry/tides-engine/rotation"
	"github.com/signalsfoundry/tides-engine/tides"
)

type accelerationRecord struct {
	Epoch time.Time `json:"epoch"`
	// Earth-fixed satellite position, metres
	PX float64 `json:"px"`
	PY float64 `json:"py"`
	PZ float64 `json:"pz"`
	// tidal acceleration, m/s²
	AX float64 `json:"ax"`
	AY float64 `json:"ay"`
	AZ float64 `json:"az"`
}

func main() {
	name := flag.String("name", "sat", "satellite name for logging")
	tle1 := flag.String("tle1", "", "TLE line 1")
	tle2 := flag.String("tle2", "", "TLE line 2")
	start := flag.String("start", "", "first epoch, RFC3339 (GPS time)")
	step := flag.Duration("step", time.Minute, "epoch spacing")
	epochs := flag.Int("epochs", 90, "number of epochs")
	bodies := flag.String("bodies", "sun,moon", "comma-separated third bodies")
	earthTide := flag.Bool("earth-tide", true, "include the solid Earth tide field")
	jplPath := flag.String("jpl", "", "optional JPL development ephemeris file; analytic Sun/Moon when empty")
	flag.Parse()

	log := logging.NewFromEnv().With(logging.String("satellite", *name))
	ctx := context.Background()

	first, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		log.Error(ctx, "bad -start", logging.String("error", err.Error()))
		os.Exit(1)
	}

	prop, err := orbit.NewPropagator(*name, *tle1, *tle2)
	if err != nil {
		log.Error(ctx, "bad TLE", logging.String("error", err.Error()))
		os.Exit(1)
	}

	configs := []tides.ModelConfig{
		{Type: "astronomicalTide", Bodies: strings.Split(*bodies, ",")},
	}
	if *earthTide {
		configs = append(configs, tides.ModelConfig{Type: "earthTide"})
	}
	agg, err := tides.Build(configs, tides.Deps{})
	if err != nil {
		log.Error(ctx, "build tide models", logging.String("error", err.Error()))
		os.Exit(1)
	}

	var eph ephem.Ephemerides = ephem.Analytic{}
	if *jplPath != "" {
		jpl, err := ephem.OpenJPL(*jplPath, nil)
		if err != nil {
			log.Error(ctx, "open ephemeris", logging.String("error", err.Error()))
			os.Exit(1)
		}
		defer jpl.Close()
		eph = jpl
	}
	rot := rotation.NewGMSTRotation(nil)

	times, points := prop.Sample(first, *step, *epochs)
	log.Info(ctx, "sampling orbit",
		logging.Int("epochs", *epochs),
		logging.String("step", step.String()),
	)

	enc := json.NewEncoder(os.Stdout)
	for i, epoch := range times {
		rotEarth, err := rot.Rotary(epoch)
		if err != nil {
			log.Error(ctx, "earth rotation", logging.String("error", err.Error()))
			os.Exit(1)
		}
		a, err := agg.Acceleration(epoch, points[i], rotEarth, rot, eph)
		if err != nil {
			log.Error(ctx, "tidal acceleration failed",
				logging.String("epoch", epoch.Format(time.RFC3339)),
				logging.String("error", err.Error()))
			os.Exit(1)
		}
		rec := accelerationRecord{
			Epoch: epoch,
			PX:    points[i].X, PY: points[i].Y, PZ: points[i].Z,
			AX: a.X, AY: a.Y, AZ: a.Z,
		}
		if err := enc.Encode(rec); err != nil {
			log.Error(ctx, "encode", logging.String("error", err.Error()))
			os.Exit(1)
		}
	}
}
