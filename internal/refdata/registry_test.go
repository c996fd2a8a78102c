package refdata

import (
	"testing"
	"time"

	"github.com/chrissnell/polltrend/internal/types"
)

func testRegistry() *Registry {
	return New(
		[]PartyInfo{
			{ID: "fidesz", Name: "Fidesz", Color: "#fd8100"},
			{ID: "tisza", Name: "Tisza", Color: "#00359c"},
			{ID: "jobbik", Name: "Jobbik", Color: "#425044", Windows: []types.Interval{
				{Start: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2022, 4, 3, 0, 0, 0, 0, time.UTC)},
			}},
		},
		[]PollsterInfo{
			{Name: "Társadalomkutató", Group: types.GovernmentGroup, Aliases: []string{"TK"}},
			{Name: "Medián", Group: types.IndependentGroup},
			{Name: "Publicus", Group: types.OppositionGroup},
		},
	)
}

func TestRegistryGroup(t *testing.T) {
	r := testRegistry()

	tests := []struct {
		pollster types.Pollster
		group    types.PollsterGroup
		known    bool
	}{
		{"Medián", types.IndependentGroup, true},
		{"TK", types.GovernmentGroup, true},
		{"Társadalomkutató", types.GovernmentGroup, true},
		{"Nobody", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.pollster), func(t *testing.T) {
			g, ok := r.Group(tt.pollster)
			if ok != tt.known || g != tt.group {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.group, tt.known, g, ok)
			}
		})
	}
}

func TestRegistryParties(t *testing.T) {
	r := testRegistry()

	order := r.Parties()
	if len(order) != 3 || order[0] != "fidesz" || order[2] != "jobbik" {
		t.Errorf("unexpected party order %v", order)
	}
	if r.PartyName("tisza") != "Tisza" {
		t.Errorf("unexpected name %q", r.PartyName("tisza"))
	}
	if r.PartyName("unknown") != "unknown" {
		t.Error("unknown parties should fall back to their id")
	}

	w := r.Windows()
	if len(w) != 1 || len(w["jobbik"]) != 1 {
		t.Fatalf("unexpected windows %v", w)
	}
	w["jobbik"][0].End = time.Time{}
	if r.Windows()["jobbik"][0].End.IsZero() {
		t.Error("Windows must return a copy")
	}
}
