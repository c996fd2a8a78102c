package source

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chrissnell/polltrend/internal/database"
	"github.com/chrissnell/polltrend/internal/refdata"
	"github.com/chrissnell/polltrend/internal/types"
)

func testRegistry() *refdata.Registry {
	return refdata.New(nil, []refdata.PollsterInfo{
		{Name: "Medián", Group: types.IndependentGroup},
		{Name: "Publicus", Group: types.OppositionGroup, Aliases: []string{"Publicus Intézet"}},
	})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseVoterType(t *testing.T) {
	tests := []struct {
		in       string
		expected types.VoterType
		wantErr  bool
	}{
		{"", types.AllVoters, false},
		{"all_voters", types.AllVoters, false},
		{"sure_voters", types.SureVoters, false},
		{"mandate_projections", types.MandateProjections, false},
		{"likely_voters", "", true},
	}
	for _, tt := range tests {
		got, err := ParseVoterType(tt.in)
		if got != tt.expected || (err != nil) != tt.wantErr {
			t.Errorf("ParseVoterType(%q) = %q, %v", tt.in, got, err)
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownVoterType) {
			t.Errorf("expected ErrUnknownVoterType, got %v", err)
		}
	}
}

func TestCSVSource(t *testing.T) {
	path := writeFile(t, "all.csv", "\ufeffdate,pollster,url,fidesz,tisza\n"+
		"2024-05-02,Medián,https://example.com/1,0.41,0.30\n"+
		"2024-05-10,Publicus Intézet,,0.39,\n"+
		"2024-05-12,Unknown Kft,,0.45,n/a\n")

	src := NewCSVSource(map[types.VoterType]string{types.AllVoters: path}, testRegistry(), nil)
	obs, err := src.Observations(context.Background(), types.AllVoters)
	if err != nil {
		t.Fatalf("Observations: %v", err)
	}
	if len(obs) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(obs))
	}

	first := obs[0]
	if !first.Date.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)) || first.URL != "https://example.com/1" {
		t.Errorf("unexpected first observation %+v", first)
	}
	if v, ok := first.Share("tisza"); !ok || v != 0.30 {
		t.Errorf("expected tisza 0.30, got %v %v", v, ok)
	}

	if obs[1].Pollster != "Publicus" {
		t.Errorf("alias should be normalised, got %q", obs[1].Pollster)
	}
	if _, ok := obs[1].Values["tisza"]; ok {
		t.Error("an empty cell should be unreported")
	}

	if obs[2].Pollster != "Unknown Kft" {
		t.Errorf("unknown pollsters keep their name, got %q", obs[2].Pollster)
	}
	if _, ok := obs[2].Values["tisza"]; ok {
		t.Error("an unparseable cell should be skipped")
	}
}

func TestCSVSourceSkipsNonFiniteValues(t *testing.T) {
	path := writeFile(t, "all.csv", "date,pollster,fidesz,tisza\n"+
		"2024-05-02,Medián,NaN,0.30\n"+
		"2024-05-03,Medián,+Inf,-inf\n"+
		"2024-05-04,Medián,0.40,Infinity\n")

	src := NewCSVSource(map[types.VoterType]string{types.AllVoters: path}, testRegistry(), nil)
	obs, err := src.Observations(context.Background(), types.AllVoters)
	if err != nil {
		t.Fatalf("Observations: %v", err)
	}
	if len(obs) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(obs))
	}

	for i, o := range obs {
		for party, v := range o.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("row %d: %s kept non-finite value %v", i, party, v)
			}
		}
	}
	if v, ok := obs[0].Share("tisza"); !ok || v != 0.30 {
		t.Errorf("finite cells on the same row should survive, got %v %v", v, ok)
	}
	if len(obs[1].Values) != 0 {
		t.Errorf("expected no values on the infinite row, got %v", obs[1].Values)
	}
	if v, ok := obs[2].Share("fidesz"); !ok || v != 0.40 {
		t.Errorf("expected fidesz 0.40, got %v %v", v, ok)
	}
}

func TestCSVSourceErrors(t *testing.T) {
	badDate := writeFile(t, "bad.csv", "date,pollster,fidesz\n05/02/2024,Medián,0.4\n")
	noPollster := writeFile(t, "nohdr.csv", "date,fidesz\n2024-05-02,0.4\n")

	src := NewCSVSource(map[types.VoterType]string{
		types.AllVoters:  badDate,
		types.SureVoters: noPollster,
	}, testRegistry(), nil)

	if _, err := src.Observations(context.Background(), types.AllVoters); err == nil {
		t.Error("expected an error for an unparseable date")
	}
	if _, err := src.Observations(context.Background(), types.SureVoters); err == nil {
		t.Error("expected an error for a header without a pollster column")
	}

	empty := NewCSVSource(nil, testRegistry(), nil)
	if _, err := empty.Observations(context.Background(), types.AllVoters); !errors.Is(err, ErrUnknownVoterType) {
		t.Errorf("expected ErrUnknownVoterType, got %v", err)
	}
}

type fakeRows struct {
	rows []database.PollRow
	got  string
}

func (f *fakeRows) FetchPollRows(ctx context.Context, voterType string) ([]database.PollRow, error) {
	f.got = voterType
	return f.rows, nil
}

func TestPostgresSourceGroupsRows(t *testing.T) {
	may2 := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	may10 := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	fetcher := &fakeRows{rows: []database.PollRow{
		{Date: may2, Pollster: "Medián", Party: "fidesz", Share: 0.41},
		{Date: may2, Pollster: "Medián", Party: "tisza", Share: 0.30},
		{Date: may10, Pollster: "Publicus Intézet", Party: "fidesz", Share: 0.39},
		{Date: may10, Pollster: "Publicus", Party: "tisza", Share: 0.33},
		{Date: may10, Pollster: "Medián", Party: "fidesz", Share: 0.42},
	}}

	src := NewPostgresSource(fetcher, testRegistry(), nil)
	obs, err := src.Observations(context.Background(), types.SureVoters)
	if err != nil {
		t.Fatalf("Observations: %v", err)
	}
	if fetcher.got != "sure_voters" {
		t.Errorf("expected a sure_voters query, got %q", fetcher.got)
	}
	if len(obs) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(obs))
	}

	if len(obs[0].Values) != 2 || obs[0].Pollster != "Medián" {
		t.Errorf("unexpected first observation %+v", obs[0])
	}
	if obs[1].Pollster != "Publicus" || obs[1].Values["fidesz"] != 0.39 || obs[1].Values["tisza"] != 0.33 {
		t.Errorf("alias rows should merge into one Publicus poll, got %+v", obs[1])
	}
	if obs[2].Pollster != "Medián" || !obs[2].Date.Equal(may10) {
		t.Errorf("unexpected third observation %+v", obs[2])
	}
}
