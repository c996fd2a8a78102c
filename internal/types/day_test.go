package types

import (
	"math"
	"testing"
	"time"
)

func TestDayRange(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{
			name:     "single day",
			start:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "leap february",
			start:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			expected: 29,
		},
		{
			name:     "time of day ignored",
			start:    time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC),
			end:      time.Date(2024, 1, 3, 2, 0, 0, 0, time.UTC),
			expected: 3,
		},
		{
			name:     "reversed",
			start:    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := DayRange(tt.start, tt.end)
			if len(days) != tt.expected {
				t.Fatalf("expected %d days, got %d", tt.expected, len(days))
			}
			for i := 1; i < len(days); i++ {
				if DaysBetween(days[i-1], days[i]) != 1 {
					t.Errorf("gap between day %d and %d", i-1, i)
				}
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-04-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", d)
	}

	d, err = ParseDay("2026-04-04T15:04:05Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("RFC 3339 input not truncated to day: %v", d)
	}

	if _, err := ParseDay("04/04/2026"); err == nil {
		t.Error("expected an error for a non-ISO date")
	}
}

func TestDateRangeEmpty(t *testing.T) {
	may := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		r        DateRange
		expected bool
	}{
		{"single day", DateRange{Start: may, End: may}, false},
		{"forward", DateRange{Start: may, End: may.AddDate(0, 1, 0)}, false},
		{"inverted", DateRange{Start: may.AddDate(0, 0, 1), End: may}, true},
	}
	for _, tt := range tests {
		if got := tt.r.Empty(); got != tt.expected {
			t.Errorf("%s: expected Empty()=%v, got %v", tt.name, tt.expected, got)
		}
	}
}

func TestObservationShare(t *testing.T) {
	o := Observation{Values: map[Party]float64{
		"fidesz": 0.42,
		"mkkp":   0.01,
		"jobbik": 0,
		"dk":     math.NaN(),
		"lmp":    math.Inf(1),
	}}

	if v, ok := o.Share("fidesz"); !ok || v != 0.42 {
		t.Errorf("expected fidesz 0.42, got %v %v", v, ok)
	}
	for _, p := range []Party{"mkkp", "jobbik", "tisza", "dk", "lmp"} {
		if _, ok := o.Share(p); ok {
			t.Errorf("%s should count as not reported", p)
		}
	}

	c := o.Clone()
	delete(c.Values, "fidesz")
	if _, ok := o.Values["fidesz"]; !ok {
		t.Error("Clone shares its Values map with the original")
	}
}

func TestPartyValidityWindows(t *testing.T) {
	w := PartyValidityWindows{
		"jobbik": {
			{Start: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2022, 4, 3, 0, 0, 0, 0, time.UTC)},
		},
	}
	if !w.Valid("jobbik", time.Date(2022, 4, 3, 0, 0, 0, 0, time.UTC)) {
		t.Error("window end should be inclusive")
	}
	if w.Valid("jobbik", time.Date(2022, 4, 4, 0, 0, 0, 0, time.UTC)) {
		t.Error("day after window end should be invalid")
	}
	if !w.Valid("fidesz", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("parties without windows are always valid")
	}
}
