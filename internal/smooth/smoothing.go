// Package smooth turns a sparse set of poll readings into one value per
// calendar day using either a moving average or a Gaussian-weighted average.
package smooth

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/polltrend/internal/types"
)

// Method identifies a smoothing algorithm
type Method string

const (
	// MovingAverage averages every reading within ±windowDays of the target day
	MovingAverage Method = "movingAverage"

	// Gaussian weights every reading by exp(-(Δdays/windowDays)²)
	Gaussian Method = "gaussian"
)

const (
	// ShortWindowDays is used when the data spans less than two years
	ShortWindowDays = 30

	// LongWindowDays is used for spans of two years or more
	LongWindowDays = 90

	twoYearsDays = 2 * 365
)

// ParseMethod accepts the canonical names plus the "ma" and "lowess"
// shorthands used in chart definitions. An empty string means MovingAverage.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "ma", string(MovingAverage):
		return MovingAverage, nil
	case "lowess", string(Gaussian):
		return Gaussian, nil
	default:
		return "", fmt.Errorf("unknown smoothing method %q", s)
	}
}

// WindowDays picks the half-window size from the observation date span.
func WindowDays(spanDays int) int {
	if spanDays < twoYearsDays {
		return ShortWindowDays
	}
	return LongWindowDays
}

// Smooth evaluates points on every day in dates. The result has exactly
// len(dates) entries in the same order. points is only read.
func Smooth(dates []time.Time, points []types.SeriesPoint, method Method, windowDays int) []types.DailyValue {
	return NewSmoother(method).Smooth(dates, points, windowDays)
}

// MovingAverageSmooth computes, for each day, the mean of the readings no
// more than windowDays away whose value exceeds MinShare. A day with no
// qualifying reading, or whose mean is exactly zero, is absent.
func MovingAverageSmooth(dates []time.Time, points []types.SeriesPoint, windowDays int) []types.DailyValue {
	result := make([]types.DailyValue, len(dates))
	window := make([]float64, 0, len(points))

	for i, date := range dates {
		result[i].Date = date
		window = window[:0]

		for _, p := range points {
			if !types.Reported(p.Value) {
				continue
			}
			if abs(types.DaysBetween(date, p.Date)) <= windowDays {
				window = append(window, p.Value)
			}
		}

		if len(window) == 0 {
			continue
		}

		mean := stat.Mean(window, nil)
		if mean == 0 {
			continue
		}
		result[i].Value = mean
		result[i].Valid = true
	}

	return result
}

// GaussianSmooth computes a kernel-weighted average for each day. Every
// point gets weight exp(-(Δdays/windowDays)²). The numerator only sums
// points with a non-zero value but the denominator sums the weights of all
// points, so missing readings pull the estimate towards zero. A day is
// absent if no point contributed a positive weighted value.
func GaussianSmooth(dates []time.Time, points []types.SeriesPoint, windowDays int) []types.DailyValue {
	result := make([]types.DailyValue, len(dates))
	bandwidth := float64(windowDays)

	for i, date := range dates {
		result[i].Date = date
		if bandwidth <= 0 {
			continue
		}

		var numerator, weightSum float64
		contributed := false

		for _, p := range points {
			distance := float64(types.DaysBetween(date, p.Date)) / bandwidth
			weight := math.Exp(-distance * distance)
			weightSum += weight

			if p.Value == 0 || math.IsNaN(p.Value) {
				continue
			}
			if wv := weight * p.Value; wv > 0 {
				numerator += wv
				contributed = true
			}
		}

		if !contributed || weightSum == 0 {
			continue
		}
		result[i].Value = numerator / weightSum
		result[i].Valid = true
	}

	return result
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
