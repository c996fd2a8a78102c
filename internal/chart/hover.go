package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/chrissnell/polltrend/internal/axis"
	"github.com/chrissnell/polltrend/internal/labels"
	"github.com/chrissnell/polltrend/internal/series"
	"github.com/chrissnell/polltrend/internal/types"
)

// LabelLayout describes the plot area hover labels are placed in, in pixels.
type LabelLayout struct {
	Top         float64
	Bottom      float64
	MinDistance float64
}

// HoverLabel is one series' value label at the hovered date.
type HoverLabel struct {
	SeriesID string  `json:"seriesId"`
	Text     string  `json:"text"`
	Color    string  `json:"color"`
	Value    float64 `json:"value"`
	labels.Placement
}

// HoverResult is everything the renderer needs to draw a hover marker.
type HoverResult struct {
	SnapshotID string       `json:"snapshotId"`
	Date       time.Time    `json:"date"`
	Labels     []HoverLabel `json:"labels"`
}

// Hover looks up every series' smoothed value on the axis day nearest to
// date and lays out their labels without overlap. It reads the current
// snapshot only. ok is false when there is nothing to hover over.
func (s *Session) Hover(date time.Time, layout LabelLayout) (HoverResult, bool) {
	snap := s.Snapshot()
	if snap == nil {
		return HoverResult{}, false
	}
	return HoverSnapshot(snap, date, layout)
}

// HoverSnapshot is Hover against an explicit snapshot.
func HoverSnapshot(snap *Snapshot, date time.Time, layout LabelLayout) (HoverResult, bool) {
	day, values, ok := series.ValuesAt(snap.Result, date)
	if !ok {
		return HoverResult{}, false
	}

	scale := axis.NewValueScale(snap.Axis.ValueLimits, layout.Top, layout.Bottom)

	var hover []HoverLabel
	var positions []float64
	for _, d := range snap.Series {
		v, ok := values[d.ID]
		if !ok {
			continue
		}
		hover = append(hover, HoverLabel{
			SeriesID: d.ID,
			Text:     labelText(d.Label, v, snap.Axis.Mode),
			Color:    d.Color,
			Value:    v,
		})
		positions = append(positions, scale.Map(v))
	}

	for i, p := range labels.Resolve(positions, layout.MinDistance, layout.Top, layout.Bottom) {
		hover[i].Placement = p
	}

	return HoverResult{SnapshotID: snap.ID, Date: day, Labels: hover}, true
}

func labelText(name string, v float64, mode types.ValueMode) string {
	if mode == types.CountMode {
		return fmt.Sprintf("%s %.0f", name, math.Round(v))
	}
	return fmt.Sprintf("%s %.0f", name, math.Round(v*100))
}
