// Package series builds per-series point sets and smoothed daily values on
// one shared date axis.
package series

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/chrissnell/polltrend/internal/smooth"
	"github.com/chrissnell/polltrend/internal/types"
)

// Extractor reads the value a series takes from one observation.
type Extractor func(d types.SeriesDescriptor, o types.Observation) (float64, bool)

// Predicate decides whether an observation feeds a series at all.
type Predicate func(d types.SeriesDescriptor, o types.Observation) bool

// Result is the output of one Build. All series share Dates.
type Result struct {
	PointsBySeries map[string][]types.SeriesPoint `json:"pointsBySeries"`
	DailyBySeries  map[string][]types.DailyValue  `json:"dailyBySeries"`
	Dates          []time.Time                    `json:"dates"`
	WindowDays     int                            `json:"windowDays"`
}

// Build extracts each series' points, derives the aligned date axis and the
// window size once from the whole observation set, and smooths every series
// on that axis.
func Build(obs []types.Observation, descriptors []types.SeriesDescriptor, extract Extractor, include Predicate, method smooth.Method) Result {
	res := Result{
		PointsBySeries: make(map[string][]types.SeriesPoint, len(descriptors)),
		DailyBySeries:  make(map[string][]types.DailyValue, len(descriptors)),
	}

	for _, d := range descriptors {
		res.PointsBySeries[d.ID] = Points(obs, d, extract, include)
	}

	first, last, ok := Extent(obs)
	if !ok {
		for _, d := range descriptors {
			res.DailyBySeries[d.ID] = []types.DailyValue{}
		}
		res.Dates = []time.Time{}
		res.WindowDays = smooth.ShortWindowDays
		return res
	}

	res.Dates = types.DayRange(first, last)
	res.WindowDays = smooth.WindowDays(types.DaysBetween(first, last))

	smoother := smooth.NewSmoother(method)
	for _, d := range descriptors {
		res.DailyBySeries[d.ID] = smoother.Smooth(res.Dates, res.PointsBySeries[d.ID], res.WindowDays)
	}

	return res
}

// Points applies include and extract to every observation and keeps the
// values that count as reported.
func Points(obs []types.Observation, d types.SeriesDescriptor, extract Extractor, include Predicate) []types.SeriesPoint {
	points := make([]types.SeriesPoint, 0, len(obs))
	for _, o := range obs {
		if !include(d, o) {
			continue
		}
		v, ok := extract(d, o)
		if !ok || !types.Reported(v) {
			continue
		}
		points = append(points, types.SeriesPoint{Date: types.Day(o.Date), Value: v})
	}
	return points
}

// Extent returns the first and last observation day.
func Extent(obs []types.Observation) (first, last time.Time, ok bool) {
	if len(obs) == 0 {
		return time.Time{}, time.Time{}, false
	}
	stamps := make([]float64, len(obs))
	for i, o := range obs {
		stamps[i] = float64(types.Day(o.Date).Unix())
	}
	first = time.Unix(int64(floats.Min(stamps)), 0).UTC()
	last = time.Unix(int64(floats.Max(stamps)), 0).UTC()
	return first, last, true
}
