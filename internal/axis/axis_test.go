package axis

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/chrissnell/polltrend/internal/types"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func rangeOf(days int) types.DateRange {
	return types.DateRange{Start: epoch, End: epoch.AddDate(0, 0, days)}
}

func dailyWithMax(max float64) map[string][]types.DailyValue {
	return map[string][]types.DailyValue{
		"a": {{Date: epoch, Value: max / 2, Valid: true}, {Date: epoch.AddDate(0, 0, 1)}},
		"b": {{Date: epoch, Value: max, Valid: true}, {Date: epoch.AddDate(0, 0, 1), Value: max / 3, Valid: true}},
	}
}

func almostEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestTickLevelFor(t *testing.T) {
	tests := []struct {
		days     int
		expected types.TickLevel
	}{
		{30, types.TickMonth},
		{182, types.TickMonth},
		{183, types.TickQuarter},
		{1095, types.TickQuarter},
		{1096, types.TickYear},
	}

	for _, tt := range tests {
		if got := TickLevelFor(rangeOf(tt.days)); got != tt.expected {
			t.Errorf("%d days: expected %s, got %s", tt.days, tt.expected, got)
		}
	}
}

func TestCalculateFractionMode(t *testing.T) {
	tests := []struct {
		name           string
		max            float64
		override       *[2]float64
		hasAnnotations bool
		limits         [2]float64
		ticks          []float64
	}{
		{
			name:   "no annotations",
			max:    0.37,
			limits: [2]float64{0, 0.45},
			ticks:  []float64{0, 0.1, 0.2, 0.3, 0.4},
		},
		{
			name:           "annotations reserve label space",
			max:            0.37,
			hasAnnotations: true,
			limits:         [2]float64{0, 0.55},
			ticks:          []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5},
		},
		{
			name:   "max on a tick",
			max:    0.5,
			limits: [2]float64{0, 0.55},
			ticks:  []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5},
		},
		{
			name:   "above every candidate",
			max:    0.93,
			limits: [2]float64{0, 1},
			ticks:  FractionTicks,
		},
		{
			name:     "explicit limits",
			max:      0.37,
			override: &[2]float64{0, 0.59},
			limits:   [2]float64{0, 0.59},
			ticks:    []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5},
		},
		{
			name:           "explicit limits ignore annotation padding",
			max:            0.12,
			override:       &[2]float64{0.05, 0.23},
			hasAnnotations: true,
			limits:         [2]float64{0.05, 0.23},
			ticks:          []float64{0.1, 0.2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Calculate(dailyWithMax(tt.max), rangeOf(400), tt.override, tt.hasAnnotations)
			if p.Mode != types.FractionMode {
				t.Fatalf("expected fraction mode, got %s", p.Mode)
			}
			if p.ValueLimits != tt.limits {
				t.Errorf("expected limits %v, got %v", tt.limits, p.ValueLimits)
			}
			if !reflect.DeepEqual(p.Ticks, tt.ticks) {
				t.Errorf("expected ticks %v, got %v", tt.ticks, p.Ticks)
			}
			if p.TickLevel != types.TickQuarter {
				t.Errorf("expected quarter ticks, got %s", p.TickLevel)
			}
		})
	}
}

func TestCalculateCountMode(t *testing.T) {
	tests := []struct {
		name           string
		max            float64
		override       *[2]float64
		hasAnnotations bool
		limits         [2]float64
		ticks          []float64
	}{
		{
			name:   "seat projection",
			max:    133,
			limits: [2]float64{0, 135},
			ticks:  []float64{0, 20, 40, 60, 80, 100, 120},
		},
		{
			name:           "annotation headroom",
			max:            133,
			hasAnnotations: true,
			limits:         [2]float64{0, 160},
			ticks:          []float64{0, 50, 100, 150},
		},
		{
			name:     "explicit limits are niced",
			max:      40,
			override: &[2]float64{0, 199},
			limits:   [2]float64{0, 200},
			ticks:    []float64{0, 50, 100, 150, 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Calculate(dailyWithMax(tt.max), rangeOf(60), tt.override, tt.hasAnnotations)
			if p.Mode != types.CountMode {
				t.Fatalf("expected count mode, got %s", p.Mode)
			}
			if p.ValueLimits != tt.limits {
				t.Errorf("expected limits %v, got %v", tt.limits, p.ValueLimits)
			}
			if !almostEqual(p.Ticks, tt.ticks) {
				t.Errorf("expected ticks %v, got %v", tt.ticks, p.Ticks)
			}
		})
	}
}

func TestCalculateNoValues(t *testing.T) {
	empty := map[string][]types.DailyValue{"a": {{Date: epoch}}}

	for _, daily := range []map[string][]types.DailyValue{nil, empty} {
		p := Calculate(daily, rangeOf(2000), &[2]float64{0, 0.3}, true)
		if p.ValueLimits != [2]float64{0, 1} {
			t.Errorf("expected [0 1] fallback, got %v", p.ValueLimits)
		}
		if !reflect.DeepEqual(p.Ticks, FractionTicks) {
			t.Errorf("expected every candidate tick, got %v", p.Ticks)
		}
		if p.TickLevel != types.TickYear {
			t.Errorf("expected year ticks, got %s", p.TickLevel)
		}
	}
}

func TestTicksAndNice(t *testing.T) {
	if got := Ticks(0, 1, 5); !almostEqual(got, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}) {
		t.Errorf("Ticks(0, 1, 5) = %v", got)
	}
	if got := Ticks(10, 0, 2); !almostEqual(got, []float64{10, 5, 0}) {
		t.Errorf("Ticks(10, 0, 2) = %v", got)
	}
	if got := Ticks(3, 3, 5); !almostEqual(got, []float64{3}) {
		t.Errorf("Ticks(3, 3, 5) = %v", got)
	}
	if got := Ticks(0, 1, 0); got != nil {
		t.Errorf("Ticks with zero count should be nil, got %v", got)
	}

	lo, hi := Nice(0.13, 0.87, 10)
	if lo != 0.1 || hi != 0.9 {
		t.Errorf("Nice(0.13, 0.87, 10) = %v, %v", lo, hi)
	}
	lo, hi = Nice(0, 133, 20)
	if lo != 0 || hi != 135 {
		t.Errorf("Nice(0, 133, 20) = %v, %v", lo, hi)
	}
}

func TestLinearScale(t *testing.T) {
	s := NewValueScale([2]float64{0, 0.5}, 20, 220)

	tests := []struct {
		value float64
		px    float64
	}{
		{0, 220},
		{0.5, 20},
		{0.25, 120},
	}
	for _, tt := range tests {
		if got := s.Map(tt.value); math.Abs(got-tt.px) > 1e-9 {
			t.Errorf("Map(%v): expected %v, got %v", tt.value, tt.px, got)
		}
		if got := s.Invert(tt.px); math.Abs(got-tt.value) > 1e-9 {
			t.Errorf("Invert(%v): expected %v, got %v", tt.px, tt.value, got)
		}
	}

	s.Clamp = true
	if got := s.Map(2); got != 20 {
		t.Errorf("clamped Map should stop at the top, got %v", got)
	}
}
