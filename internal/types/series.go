package types

import "time"

// SeriesDescriptor names one independently smoothed line. Party is the
// column the series reads; Pollster is set when the series is restricted
// to a single pollster's estimates.
type SeriesDescriptor struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Color    string   `json:"color"`
	Party    Party    `json:"party"`
	Pollster Pollster `json:"pollster,omitempty"`
}

// SeriesPoint is one qualifying observation feeding a series.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// DailyValue is the smoothed value of a series on one day of the aligned
// axis. Valid is false where no observation falls inside the smoothing
// window; renderers draw that as a gap.
type DailyValue struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Valid bool      `json:"valid"`
}

// TickLevel is the coarseness of the date-axis labels.
type TickLevel string

const (
	TickYear    TickLevel = "year"
	TickQuarter TickLevel = "quarter"
	TickMonth   TickLevel = "month"
)

// ValueMode says how the value axis should be read.
type ValueMode string

const (
	// FractionMode values are vote shares in 0..1
	FractionMode ValueMode = "fraction"
	// CountMode values are absolute numbers such as projected seats
	CountMode ValueMode = "count"
)

// AxisParams carries everything a renderer needs to draw both axes.
type AxisParams struct {
	TickLevel   TickLevel  `json:"tickLevel"`
	ValueLimits [2]float64 `json:"valueLimits"`
	Ticks       []float64  `json:"ticks"`
	DateRange   DateRange  `json:"dateRange"`
	Mode        ValueMode  `json:"mode"`
}
