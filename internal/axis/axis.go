// Package axis derives date-axis granularity and value-axis limits and
// ticks from smoothed series values.
package axis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/chrissnell/polltrend/internal/types"
)

const (
	// fractionModeCeiling is the largest upper bound still read as a share
	fractionModeCeiling = 1.5

	// fractionHeadroom is added above the first tick that clears the data
	fractionHeadroom = 0.05

	// annotationHeadroom reserves room for annotation labels in fraction mode
	annotationHeadroom = 0.1

	// fallbackTick is used when the data exceeds every fraction candidate
	fallbackTick = 0.95

	// countHeadroom is the share added above the maximum in count mode
	// when annotations are drawn
	countHeadroom = 0.2

	countNiceSteps = 20
	countTickCount = 5

	yearThresholdDays    = 3 * 365
	quarterThresholdDays = 365.0 / 2
)

// FractionTicks are the candidate value-axis ticks for share data.
var FractionTicks = []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}

// Calculate derives AxisParams for the given daily values. override, when
// non-nil, fixes the value limits. hasAnnotations reserves extra room at
// the top of the chart.
func Calculate(daily map[string][]types.DailyValue, dateRange types.DateRange, override *[2]float64, hasAnnotations bool) types.AxisParams {
	params := types.AxisParams{
		TickLevel: TickLevelFor(dateRange),
		DateRange: dateRange,
	}

	values := collect(daily)
	if len(values) == 0 {
		params.Mode = types.FractionMode
		params.ValueLimits = [2]float64{0, 1}
		params.Ticks = append([]float64(nil), FractionTicks...)
		return params
	}

	maxValue := floats.Max(values)
	upperBound := maxValue
	if override != nil {
		upperBound = override[1]
	}

	if upperBound <= fractionModeCeiling {
		fractionAxis(&params, maxValue, override, hasAnnotations)
	} else {
		countAxis(&params, maxValue, override, hasAnnotations)
	}
	return params
}

// TickLevelFor picks year, quarter or month labels from the range length.
func TickLevelFor(r types.DateRange) types.TickLevel {
	d := r.Days()
	switch {
	case d > yearThresholdDays:
		return types.TickYear
	case d > quarterThresholdDays:
		return types.TickQuarter
	default:
		return types.TickMonth
	}
}

func fractionAxis(params *types.AxisParams, maxValue float64, override *[2]float64, hasAnnotations bool) {
	params.Mode = types.FractionMode

	lower := 0.0
	var upper float64
	if override != nil {
		lower, upper = override[0], override[1]
	} else {
		top := fallbackTick
		for _, tick := range FractionTicks {
			if tick >= maxValue {
				top = tick
				break
			}
		}
		upper = top + fractionHeadroom
		if hasAnnotations {
			upper += annotationHeadroom
		}
	}

	lower, upper = roundTo(lower, 2), roundTo(upper, 2)
	params.ValueLimits = [2]float64{lower, upper}

	params.Ticks = make([]float64, 0, len(FractionTicks))
	for _, tick := range FractionTicks {
		if tick >= lower && tick <= upper {
			params.Ticks = append(params.Ticks, tick)
		}
	}
}

func countAxis(params *types.AxisParams, maxValue float64, override *[2]float64, hasAnnotations bool) {
	params.Mode = types.CountMode

	lower, upper := 0.0, maxValue
	if override != nil {
		lower, upper = override[0], override[1]
	} else if hasAnnotations {
		upper = ceilCount(maxValue * (1 + countHeadroom))
	}

	lower, upper = Nice(lower, upper, countNiceSteps)
	params.ValueLimits = [2]float64{lower, upper}
	params.Ticks = Ticks(lower, upper, countTickCount)
}

// ceilCount rounds up, ignoring float noise just above a whole number.
func ceilCount(v float64) float64 {
	r := roundTo(v, 9)
	if r == float64(int64(r)) {
		return r
	}
	return float64(int64(r) + 1)
}

func collect(daily map[string][]types.DailyValue) []float64 {
	var values []float64
	for _, series := range daily {
		for _, d := range series {
			if d.Valid {
				values = append(values, d.Value)
			}
		}
	}
	return values
}
