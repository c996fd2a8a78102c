package app

import (
	"fmt"
	"time"

	"github.com/chrissnell/polltrend/internal/chart"
	"github.com/chrissnell/polltrend/internal/refdata"
	"github.com/chrissnell/polltrend/internal/smooth"
	"github.com/chrissnell/polltrend/internal/source"
	"github.com/chrissnell/polltrend/internal/types"
	"github.com/chrissnell/polltrend/pkg/config"
)

// BuildRegistry turns the configured parties and pollsters into the
// reference registry.
func BuildRegistry(cfg *config.ConfigData) (*refdata.Registry, error) {
	parties := make([]refdata.PartyInfo, 0, len(cfg.Parties))
	for _, p := range cfg.Parties {
		info := refdata.PartyInfo{
			ID:         types.Party(p.ID),
			Name:       p.Name,
			Color:      p.Color,
			LightColor: p.LightColor,
		}
		for _, w := range p.Windows {
			start, err := types.ParseDay(w.Start)
			if err != nil {
				return nil, fmt.Errorf("party %s window start: %w", p.ID, err)
			}
			end, err := types.ParseDay(w.End)
			if err != nil {
				return nil, fmt.Errorf("party %s window end: %w", p.ID, err)
			}
			info.Windows = append(info.Windows, types.Interval{Start: start, End: end})
		}
		parties = append(parties, info)
	}

	pollsters := make([]refdata.PollsterInfo, 0, len(cfg.Pollsters))
	for _, p := range cfg.Pollsters {
		pollsters = append(pollsters, refdata.PollsterInfo{
			Name:        types.Pollster(p.Name),
			DisplayName: p.DisplayName,
			Group:       types.PollsterGroup(p.Group),
			Aliases:     p.Aliases,
		})
	}

	return refdata.New(parties, pollsters), nil
}

// ChartOptions converts a catalogue entry into session options and the
// dataset it reads. Mandate projection charts read the seat projections
// whatever their voter type says, unless it names another poll table. An
// empty end date is today; an empty start date is chart.DefaultWindowStart.
func ChartOptions(c config.ChartData, today time.Time) (chart.Options, types.VoterType, error) {
	var opts chart.Options

	voterType, err := source.ParseVoterType(c.VoterType)
	if err != nil {
		return opts, "", fmt.Errorf("chart %s: %w", c.ID, err)
	}
	if c.MandateProjection {
		if c.VoterType != "" && voterType != types.MandateProjections {
			return opts, "", fmt.Errorf("chart %s: mandate projection charts cannot read %s", c.ID, voterType)
		}
		voterType = types.MandateProjections
	}

	method, err := smooth.ParseMethod(c.Smoothing)
	if err != nil {
		return opts, "", fmt.Errorf("chart %s: %w", c.ID, err)
	}

	start, end := chart.DefaultWindowStart, types.Day(today)
	if c.StartDate != "" {
		if start, err = types.ParseDay(c.StartDate); err != nil {
			return opts, "", fmt.Errorf("chart %s start date: %w", c.ID, err)
		}
	}
	if c.EndDate != "" {
		if end, err = types.ParseDay(c.EndDate); err != nil {
			return opts, "", fmt.Errorf("chart %s end date: %w", c.ID, err)
		}
	}

	group := types.PollsterGroup(c.PollsterGroup)
	if group == "" {
		group = types.AllPollsters
	}

	opts = chart.Options{
		PollsterGroup: group,
		DateRange:     types.DateRange{Start: start, End: end},
		Method:        method,
		PerPollster:   c.PerPollster,
	}
	for _, p := range c.Parties {
		opts.SelectedParties = append(opts.SelectedParties, types.Party(p))
	}

	switch len(c.ValueLimits) {
	case 0:
	case 2:
		opts.ValueLimits = &[2]float64{c.ValueLimits[0], c.ValueLimits[1]}
	default:
		return opts, "", fmt.Errorf("chart %s: value limits need exactly 2 values, got %d", c.ID, len(c.ValueLimits))
	}

	for _, a := range c.Annotations {
		date, err := types.ParseDay(a.Date)
		if err != nil {
			return opts, "", fmt.Errorf("chart %s annotation %s: %w", c.ID, a.ID, err)
		}
		opts.Annotations = append(opts.Annotations, types.Annotation{
			ID:       a.ID,
			Text:     a.Text,
			Date:     date,
			LineType: a.LineType,
		})
	}

	return opts, voterType, nil
}
