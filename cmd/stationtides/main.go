// Command stationtides computes tidal station displacements over a time
// series: it loads a JSON scenario (stations, Love numbers, EOP, tide model
// stack), evaluates the batched displacement query, and writes one JSON line
// per station per epoch to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/signalsfoundry/tides-engine/ephem"
	"github.com/signalsfoundry/tides-engine/geo"
	"github.com/signalsfoundry/tides-engine/internal/logging"
	"github.com/signalsfoundry/tides-engine/internal/observability"
	"github.com/signalsfoundry/tides-engine/rotation"
	"github.com/signalsfoundry/tides-engine/tides"
)

type displacementRecord struct {
	Station string    `json:"station"`
	Epoch   time.Time `json:"epoch"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Z       float64   `json:"z"`
}

func main() {
	scenarioPath := flag.String("scenario", "scenario.json", "path to the JSON station scenario")
	start := flag.String("start", "", "first epoch, RFC3339 (GPS time)")
	step := flag.Duration("step", time.Hour, "epoch spacing")
	epochs := flag.Int("epochs", 24, "number of epochs")
	jplPath := flag.String("jpl", "", "optional JPL development ephemeris file; analytic Sun/Moon when empty")
	metricsAddr := flag.String("metrics-addr", "", "optional address serving Prometheus /metrics")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	first, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		log.Error(ctx, "bad -start", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if *epochs < 1 {
		log.Error(ctx, "-epochs must be at least 1")
		os.Exit(1)
	}

	f, err := os.Open(*scenarioPath)
	if err != nil {
		log.Error(ctx, "open scenario", logging.String("error", err.Error()))
		os.Exit(1)
	}
	sc, err := LoadScenario(f)
	f.Close()
	if err != nil {
		log.Error(ctx, "load scenario", logging.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "scenario loaded",
		logging.String("path", *scenarioPath),
		logging.Int("stations", len(sc.Stations)),
		logging.Int("models", len(sc.Configs)),
	)

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

	rot := rotation.NewGMSTRotation(sc.EOP)
	agg, err := tides.Build(sc.Configs, sc.Deps)
	if err != nil {
		log.Error(ctx, "build tide models", logging.String("error", err.Error()))
		os.Exit(1)
	}
	metrics := tides.NewMetrics()
	agg.SetMetrics(metrics)

	var collector *observability.TideCollector
	if *metricsAddr != "" {
		collector, err = observability.NewTideCollector(nil)
		if err != nil {
			log.Error(ctx, "register metrics", logging.String("error", err.Error()))
			os.Exit(1)
		}
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", *metricsAddr))
	}

	times := make([]time.Time, *epochs)
	rotEarth := make([]geo.Rotary3, *epochs)
	for i := range times {
		times[i] = first.Add(time.Duration(i) * *step)
		rotEarth[i], err = rot.Rotary(times[i])
		if err != nil {
			log.Error(ctx, "earth rotation", logging.String("error", err.Error()))
			os.Exit(1)
		}
	}

	points := make([]geo.Vec3, len(sc.Stations))
	disp := make([][]geo.Vec3, len(sc.Stations))
	for k, st := range sc.Stations {
		points[k] = st.Point
		disp[k] = make([]geo.Vec3, *epochs)
	}

	began := time.Now()
	err = agg.DeformationSeries(times, points, rotEarth, rot, eph, sc.Gravity, sc.Hn, sc.Ln, disp)
	collector.ObserveQuery("deformation", err)
	if err != nil {
		log.Error(ctx, "deformation series failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	collector.ObserveBatch(len(points), *epochs, time.Since(began))

	enc := json.NewEncoder(os.Stdout)
	for k, st := range sc.Stations {
		for i, epoch := range times {
			rec := displacementRecord{
				Station: st.Name,
				Epoch:   epoch,
				X:       disp[k][i].X,
				Y:       disp[k][i].Y,
				Z:       disp[k][i].Z,
			}
			if err := enc.Encode(rec); err != nil {
				fmt.Fprintf(os.Stderr, "encode: %v\n", err)
				os.Exit(1)
			}
		}
	}

	log.Info(ctx, "done",
		logging.Int("stations", len(points)),
		logging.Int("epochs", *epochs),
		logging.String("metrics", metrics.String()),
	)
}
