package rotation

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrOutsideSpan reports an epoch outside the span of an EOP series.
var ErrOutsideSpan = errors.New("epoch outside EOP series span")

// EOP is one Earth orientation parameter sample.
type EOP struct {
	Epoch time.Time
	Xp    float64 // pole x offset, arcsec
	Yp    float64 // pole y offset, arcsec
	DUT1  float64 // UT1 − UTC, seconds
}

// EOPSeries is an in-memory Earth orientation parameter time series with
// linear interpolation between samples. File ingestion lives outside this
// core; callers hand over the already-parsed samples.
type EOPSeries struct {
	samples []EOP
}

// NewEOPSeries builds a series from samples, sorting them by epoch. At least
// one sample is required.
func NewEOPSeries(samples []EOP) (*EOPSeries, error) {
	if len(samples) == 0 {
		return nil, errors.New("EOP series: no samples")
	}
	s := make([]EOP, len(samples))
	copy(s, samples)
	sort.Slice(s, func(i, j int) bool { return s[i].Epoch.Before(s[j].Epoch) })
	return &EOPSeries{samples: s}, nil
}

// Span returns the first and last covered epoch.
func (e *EOPSeries) Span() (time.Time, time.Time) {
	return e.samples[0].Epoch, e.samples[len(e.samples)-1].Epoch
}

// At returns the linearly interpolated parameters at the GPS epoch t, or
// ErrOutsideSpan (carrying the epoch) outside the covered span.
func (e *EOPSeries) At(t time.Time) (EOP, error) {
	first, last := e.Span()
	if t.Before(first) || t.After(last) {
		return EOP{}, fmt.Errorf("%w: %s not in [%s, %s]", ErrOutsideSpan,
			t.Format(time.RFC3339), first.Format(time.RFC3339), last.Format(time.RFC3339))
	}
	i := sort.Search(len(e.samples), func(i int) bool { return !e.samples[i].Epoch.Before(t) })
	if e.samples[i].Epoch.Equal(t) || i == 0 {
		v := e.samples[i]
		v.Epoch = t
		return v, nil
	}
	a, b := e.samples[i-1], e.samples[i]
	dt := b.Epoch.Sub(a.Epoch).Seconds()
	f := 0.0
	if dt > 0 {
		f = t.Sub(a.Epoch).Seconds() / dt
	}
	return EOP{
		Epoch: t,
		Xp:    a.Xp + f*(b.Xp-a.Xp),
		Yp:    a.Yp + f*(b.Yp-a.Yp),
		DUT1:  a.DUT1 + f*(b.DUT1-a.DUT1),
	}, nil
}
