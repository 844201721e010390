package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TideCollector bundles Prometheus metrics for tide evaluation and provides a
// ready-to-serve /metrics handler.
type TideCollector struct {
	gatherer prometheus.Gatherer

	Queries        *prometheus.CounterVec
	BatchDurations prometheus.Histogram

	BatchStations prometheus.Gauge
	BatchEpochs   prometheus.Gauge
}

// NewTideCollector registers tide Prometheus metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewTideCollector(reg prometheus.Registerer) (*TideCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tide_queries_total",
		Help: "Total number of tide evaluation queries, labeled by query kind and outcome.",
	}, []string{"query", "outcome"})
	queries, err := registerCounterVec(reg, queries, "tide_queries_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tide_deformation_batch_duration_seconds",
		Help:    "Duration of batched station displacement computations.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})
	durations, err = registerHistogram(reg, durations, "tide_deformation_batch_duration_seconds")
	if err != nil {
		return nil, err
	}

	stations, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tide_batch_stations",
		Help: "Number of stations in the most recent displacement batch.",
	}), "tide_batch_stations")
	if err != nil {
		return nil, err
	}
	epochs, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tide_batch_epochs",
		Help: "Number of epochs in the most recent displacement batch.",
	}), "tide_batch_epochs")
	if err != nil {
		return nil, err
	}

	return &TideCollector{
		gatherer:       gatherer,
		Queries:        queries,
		BatchDurations: durations,
		BatchStations:  stations,
		BatchEpochs:    epochs,
	}, nil
}

// ObserveQuery records one evaluation query and its outcome.
func (c *TideCollector) ObserveQuery(query string, err error) {
	if c == nil || c.Queries == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Queries.WithLabelValues(query, outcome).Inc()
}

// ObserveBatch records the shape and duration of a batched displacement
// computation.
func (c *TideCollector) ObserveBatch(stations, epochs int, d time.Duration) {
	if c == nil {
		return
	}
	if c.BatchDurations != nil {
		c.BatchDurations.Observe(d.Seconds())
	}
	if c.BatchStations != nil {
		c.BatchStations.Set(float64(stations))
	}
	if c.BatchEpochs != nil {
		c.BatchEpochs.Set(float64(epochs))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *TideCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
