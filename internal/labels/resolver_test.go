package labels

import (
	"math"
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		positions   []float64
		minDistance float64
		top         float64
		bottom      float64
		expected    []float64
	}{
		{
			name:        "close labels spread to min distance",
			positions:   []float64{100, 102, 104},
			minDistance: 12,
			top:         0,
			bottom:      500,
			expected:    []float64{100, 112, 124},
		},
		{
			name:        "tight bounds compress spacing",
			positions:   []float64{100, 102, 104},
			minDistance: 12,
			top:         100,
			bottom:      110,
			expected:    []float64{100, 105, 110},
		},
		{
			name:        "already separated labels stay put",
			positions:   []float64{40, 200, 90},
			minDistance: 12,
			top:         0,
			bottom:      500,
			expected:    []float64{40, 200, 90},
		},
		{
			name:        "labels near the bottom are pushed up",
			positions:   []float64{495, 498},
			minDistance: 12,
			top:         0,
			bottom:      500,
			expected:    []float64{488, 500},
		},
		{
			name:        "labels above the top are pushed down",
			positions:   []float64{-20, 3},
			minDistance: 10,
			top:         0,
			bottom:      100,
			expected:    []float64{0, 10},
		},
		{
			name:        "input order is preserved",
			positions:   []float64{300, 100, 102},
			minDistance: 12,
			top:         0,
			bottom:      500,
			expected:    []float64{300, 100, 112},
		},
		{
			name:        "ties resolve by input index",
			positions:   []float64{50, 50},
			minDistance: 12,
			top:         0,
			bottom:      500,
			expected:    []float64{50, 62},
		},
		{
			name:        "single label clamped into bounds",
			positions:   []float64{600},
			minDistance: 12,
			top:         0,
			bottom:      500,
			expected:    []float64{500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placements := Resolve(tt.positions, tt.minDistance, tt.top, tt.bottom)
			got := Positions(placements)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d placements, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if math.Abs(got[i]-tt.expected[i]) > 1e-9 {
					t.Errorf("label %d: expected %.2f, got %.2f", i, tt.expected[i], got[i])
				}
				if got[i] < tt.top-1e-9 || got[i] > tt.bottom+1e-9 {
					t.Errorf("label %d escaped the bounds: %.2f", i, got[i])
				}
				p := placements[i]
				if p.Index != i || p.Original != tt.positions[i] {
					t.Errorf("placement %d not mapped back to its input: %+v", i, p)
				}
				if p.Moved != (math.Abs(p.Resolved-p.Original) > 1e-9) {
					t.Errorf("placement %d has inconsistent Moved flag: %+v", i, p)
				}
			}
		})
	}
}

func TestResolveSpacing(t *testing.T) {
	positions := []float64{100, 102, 104}

	sorted := Positions(Resolve(positions, 12, 0, 500))
	for i := 1; i < len(sorted); i++ {
		if gap := sorted[i] - sorted[i-1]; math.Abs(gap-12) > 1e-9 {
			t.Errorf("expected a 12px gap, got %.3f", gap)
		}
	}

	compressed := Positions(Resolve(positions, 12, 200, 210))
	for i := 1; i < len(compressed); i++ {
		if gap := compressed[i] - compressed[i-1]; math.Abs(gap-5) > 1e-9 {
			t.Errorf("expected a 5px gap, got %.3f", gap)
		}
	}
}

func TestResolveCompressedStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 20000; iter++ {
		n := 2 + rng.Intn(9)
		top := rng.Float64() * 300
		bottom := top + rng.Float64()*40
		minDistance := 10 + rng.Float64()*20

		positions := make([]float64, n)
		for i := range positions {
			positions[i] = top - 20 + rng.Float64()*(bottom-top+40)
		}

		placements := Resolve(positions, minDistance, top, bottom)
		sorted := Positions(placements)
		sort.Float64s(sorted)

		spacing := minDistance
		if limit := (bottom - top) / float64(n-1); limit < spacing {
			spacing = limit
		}
		for i, y := range sorted {
			if y < top || y > bottom {
				t.Fatalf("top=%v bottom=%v positions=%v: label %d at %v escaped the bounds", top, bottom, positions, i, y)
			}
			if i > 0 && sorted[i]-sorted[i-1] < spacing-1e-9 {
				t.Fatalf("top=%v bottom=%v positions=%v: gap %v below %v", top, bottom, positions, sorted[i]-sorted[i-1], spacing)
			}
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	positions := []float64{210, 205, 199, 330, 331, 12}
	a := Resolve(positions, 14, 10, 400)
	b := Resolve(positions, 14, 10, 400)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical input produced different placements")
	}
	if positions[0] != 210 || positions[5] != 12 {
		t.Error("input slice was modified")
	}
}

func TestResolveEmpty(t *testing.T) {
	if got := Resolve(nil, 12, 0, 100); len(got) != 0 {
		t.Errorf("expected no placements, got %v", got)
	}
}
