// Package labels keeps the value labels drawn at the hovered date from
// overlapping while staying inside the plot area.
package labels

import (
	"math"
	"sort"
)

// Placement is the resolved position of one label. Index refers to the
// caller's input slice. Moved is set when Resolved differs from Original,
// which is when the renderer draws a connector between the two.
type Placement struct {
	Index    int     `json:"index"`
	Original float64 `json:"original"`
	Resolved float64 `json:"resolved"`
	Moved    bool    `json:"moved"`
}

// Resolve spreads the vertical pixel positions so that neighbours are at
// least minDistance apart and all of them lie within [top, bottom]. If the
// bounds cannot hold every label at minDistance, the spacing shrinks
// evenly to fit. The result is in input order.
func Resolve(positions []float64, minDistance, top, bottom float64) []Placement {
	n := len(positions)
	out := make([]Placement, n)
	if n == 0 {
		return out
	}
	if bottom < top {
		top, bottom = bottom, top
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return positions[order[a]] < positions[order[b]]
	})

	spacing := max(minDistance, 0)
	if n > 1 {
		if available := bottom - top; float64(n-1)*spacing > available {
			spacing = available / float64(n-1)
		}
	}

	ys := make([]float64, n)
	for i, idx := range order {
		ys[i] = positions[idx]
	}

	for i := 0; i < n; i++ {
		floor := top + float64(i)*spacing
		if i > 0 {
			floor = max(floor, ys[i-1]+spacing)
		}
		ys[i] = max(ys[i], floor)
	}

	for i := n - 1; i >= 0; i-- {
		ceiling := bottom - float64(n-1-i)*spacing
		if i < n-1 {
			ceiling = min(ceiling, ys[i+1]-spacing)
		}
		ys[i] = min(ys[i], ceiling)
	}

	// compressed spacing is inexact; keep rounding error inside the bounds
	for i := range ys {
		ys[i] = min(max(ys[i], top), bottom)
	}

	for i, idx := range order {
		out[idx] = Placement{
			Index:    idx,
			Original: positions[idx],
			Resolved: ys[i],
			Moved:    !nearlyEqual(ys[i], positions[idx]),
		}
	}
	return out
}

// Positions returns the resolved positions in input order.
func Positions(placements []Placement) []float64 {
	out := make([]float64, len(placements))
	for i, p := range placements {
		out[i] = p.Resolved
	}
	return out
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
