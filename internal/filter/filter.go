// Package filter implements the observation masking passes that run before
// smoothing. Every function returns a new slice; the caller's observations
// are never modified.
package filter

import (
	"github.com/chrissnell/polltrend/internal/types"
)

// GroupLookup resolves a pollster to its group.
type GroupLookup interface {
	Group(p types.Pollster) (types.PollsterGroup, bool)
}

// Criteria bundles the three filters for Apply.
type Criteria struct {
	Group     types.PollsterGroup
	DateRange *types.DateRange
	Windows   types.PartyValidityWindows
}

// Apply runs all three filters. The passes are independent maskings, so
// the order only affects how much work later passes do.
func Apply(obs []types.Observation, c Criteria, lookup GroupLookup) []types.Observation {
	out := ByPollsterGroup(obs, c.Group, lookup)
	if c.DateRange != nil {
		out = ByDateRange(out, *c.DateRange)
	}
	return ByPartyValidityWindows(out, c.Windows)
}

// ByPollsterGroup keeps observations whose pollster belongs to group.
// The AllPollsters sentinel (or an empty group) keeps everything. Pollsters
// unknown to lookup are dropped.
func ByPollsterGroup(obs []types.Observation, group types.PollsterGroup, lookup GroupLookup) []types.Observation {
	if group == "" || group == types.AllPollsters {
		return append([]types.Observation(nil), obs...)
	}

	out := make([]types.Observation, 0, len(obs))
	for _, o := range obs {
		g, ok := lookup.Group(o.Pollster)
		if ok && g == group {
			out = append(out, o)
		}
	}
	return out
}

// ByDateRange keeps observations dated within r, bounds included.
func ByDateRange(obs []types.Observation, r types.DateRange) []types.Observation {
	out := make([]types.Observation, 0, len(obs))
	for _, o := range obs {
		if r.Contains(o.Date) {
			out = append(out, o)
		}
	}
	return out
}

// ByPartyValidityWindows clears each party value that lies outside all of
// that party's windows. Parties with no entry in windows are untouched.
// Observations are copied before any value is cleared.
func ByPartyValidityWindows(obs []types.Observation, windows types.PartyValidityWindows) []types.Observation {
	out := make([]types.Observation, len(obs))
	for i, o := range obs {
		c := o.Clone()
		for party := range windows {
			if _, present := c.Values[party]; present && !windows.Valid(party, c.Date) {
				delete(c.Values, party)
			}
		}
		out[i] = c
	}
	return out
}
