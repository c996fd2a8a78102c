// Package types holds the value objects shared by the poll-trend pipeline.
package types

import (
	"math"
	"time"
)

// MinShare is the smallest share treated as a real reading. Anything at or
// below it is a placeholder in the source data and counts as "not reported".
const MinShare = 0.01

// Party identifies a party column in the poll data (e.g. "fidesz").
type Party string

// Pollster identifies a polling company.
type Pollster string

// PollsterGroup classifies pollsters by affiliation.
type PollsterGroup string

const (
	// AllPollsters is the sentinel group that disables pollster filtering
	AllPollsters     PollsterGroup = "összes"
	IndependentGroup PollsterGroup = "független"
	GovernmentGroup  PollsterGroup = "kormányközeli"
	OppositionGroup  PollsterGroup = "ellenzéki"
)

// VoterType selects which poll table a chart reads.
type VoterType string

const (
	AllVoters  VoterType = "all_voters"
	SureVoters VoterType = "sure_voters"
	// MandateProjections holds seat projections rather than vote shares
	MandateProjections VoterType = "mandate_projections"
)

// Observation is one poll: a pollster's per-party shares on a given day.
// A party missing from Values was not reported.
type Observation struct {
	Date     time.Time         `json:"date"`
	Pollster Pollster          `json:"pollster"`
	URL      string            `json:"url,omitempty"`
	Values   map[Party]float64 `json:"values"`
}

// Reported reports whether v is a real reading: finite and above MinShare.
func Reported(v float64) bool {
	return v > MinShare && !math.IsInf(v, 1)
}

// Share returns the party's value and whether it counts as reported.
func (o Observation) Share(p Party) (float64, bool) {
	v, ok := o.Values[p]
	if !ok || !Reported(v) {
		return 0, false
	}
	return v, true
}

// Clone returns a copy whose Values map is independent of the receiver's.
func (o Observation) Clone() Observation {
	c := o
	c.Values = make(map[Party]float64, len(o.Values))
	for k, v := range o.Values {
		c.Values[k] = v
	}
	return c
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls within the range, bounds included.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Empty reports whether the range has no days in it.
func (r DateRange) Empty() bool {
	return r.End.Before(r.Start)
}

// Days returns the length of the range in (fractional) days.
func (r DateRange) Days() float64 {
	return r.End.Sub(r.Start).Hours() / 24
}

// Interval is an inclusive validity window for a party.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d lies inside the interval.
func (i Interval) Contains(d time.Time) bool {
	return !d.Before(i.Start) && !d.After(i.End)
}

// PartyValidityWindows maps each party to the intervals during which its
// poll readings are meaningful. Parties not present are always valid.
type PartyValidityWindows map[Party][]Interval

// Valid reports whether party p may be read on day d.
func (w PartyValidityWindows) Valid(p Party, d time.Time) bool {
	intervals, ok := w[p]
	if !ok {
		return true
	}
	for _, iv := range intervals {
		if iv.Contains(d) {
			return true
		}
	}
	return false
}

// Annotation marks an event on the date axis.
type Annotation struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
	LineType string    `json:"lineType"`
}
