package series

import (
	"sort"
	"time"

	"github.com/chrissnell/polltrend/internal/refdata"
	"github.com/chrissnell/polltrend/internal/types"
)

// PartyValue reads the descriptor's party from the observation.
func PartyValue(d types.SeriesDescriptor, o types.Observation) (float64, bool) {
	return o.Share(d.Party)
}

// Always includes every observation.
func Always(types.SeriesDescriptor, types.Observation) bool {
	return true
}

// FromPollster includes only observations by the descriptor's pollster.
// Descriptors without a pollster include everything.
func FromPollster(d types.SeriesDescriptor, o types.Observation) bool {
	return d.Pollster == "" || o.Pollster == d.Pollster
}

// PartyDescriptors returns one series per party, labelled and colored from
// the registry.
func PartyDescriptors(parties []types.Party, reg *refdata.Registry) []types.SeriesDescriptor {
	out := make([]types.SeriesDescriptor, 0, len(parties))
	for _, p := range parties {
		out = append(out, types.SeriesDescriptor{
			ID:    string(p),
			Label: reg.PartyName(p),
			Color: reg.PartyColor(p),
			Party: p,
		})
	}
	return out
}

// PollsterDescriptors returns one series per (pollster, party) pair that
// has at least one reading in obs. Pollsters missing from the registry get
// series too, labelled with their raw name. Pollsters are ordered by name.
func PollsterDescriptors(obs []types.Observation, parties []types.Party, reg *refdata.Registry) []types.SeriesDescriptor {
	reported := make(map[types.Pollster]map[types.Party]bool)
	for _, o := range obs {
		for _, p := range parties {
			if _, ok := o.Share(p); !ok {
				continue
			}
			if reported[o.Pollster] == nil {
				reported[o.Pollster] = make(map[types.Party]bool)
			}
			reported[o.Pollster][p] = true
		}
	}

	pollsters := reg.Pollsters()
	for name := range reported {
		if _, ok := reg.Pollster(name); !ok {
			pollsters = append(pollsters, refdata.PollsterInfo{Name: name})
		}
	}
	sort.Slice(pollsters, func(i, j int) bool { return pollsters[i].Name < pollsters[j].Name })

	var out []types.SeriesDescriptor
	for _, info := range pollsters {
		for _, p := range parties {
			if !reported[info.Name][p] {
				continue
			}
			label := info.DisplayName
			if label == "" {
				label = string(info.Name)
			}
			out = append(out, types.SeriesDescriptor{
				ID:       string(info.Name) + ":" + string(p),
				Label:    label + " " + reg.PartyName(p),
				Color:    reg.PartyColor(p),
				Party:    p,
				Pollster: info.Name,
			})
		}
	}
	return out
}

// ValuesAt returns each series' value on the axis day nearest to date and
// that day. Series that are absent on that day are omitted. ok is false if
// the result has no dates.
func ValuesAt(res Result, date time.Time) (day time.Time, values map[string]float64, ok bool) {
	idx := NearestIndex(res.Dates, date)
	if idx < 0 {
		return time.Time{}, nil, false
	}

	values = make(map[string]float64)
	for id, daily := range res.DailyBySeries {
		if idx < len(daily) && daily[idx].Valid {
			values[id] = daily[idx].Value
		}
	}
	return res.Dates[idx], values, true
}

// NearestIndex returns the index of the day in dates closest to date, or -1
// for an empty axis. Ties resolve to the earlier day.
func NearestIndex(dates []time.Time, date time.Time) int {
	if len(dates) == 0 {
		return -1
	}
	best := 0
	bestDiff := absDuration(dates[0].Sub(date))
	for i := 1; i < len(dates); i++ {
		if diff := absDuration(dates[i].Sub(date)); diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// PollsterValue reads the descriptor's party from the observation, but only
// when the observation belongs to the descriptor's pollster.
func PollsterValue(d types.SeriesDescriptor, o types.Observation) (float64, bool) {
	if !FromPollster(d, o) {
		return 0, false
	}
	return o.Share(d.Party)
}
