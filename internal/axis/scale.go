package axis

// LinearScale maps value-axis values onto pixel rows. Range is usually
// inverted (bottom pixel first) because screen y grows downwards.
type LinearScale struct {
	Domain [2]float64
	Range  [2]float64
	Clamp  bool
}

// NewValueScale builds a scale from axis limits to a plot whose value axis
// runs from bottom (low values) to top (high values) in pixels.
func NewValueScale(limits [2]float64, top, bottom float64) LinearScale {
	return LinearScale{Domain: limits, Range: [2]float64{bottom, top}}
}

// Map converts a value to a pixel position.
func (s LinearScale) Map(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Range[0], s.Range[1]
	if d1 == d0 {
		return (r0 + r1) / 2
	}
	t := (v - d0) / (d1 - d0)
	if s.Clamp {
		t = clamp(t, 0, 1)
	}
	return r0 + t*(r1-r0)
}

// Invert converts a pixel position back to a value.
func (s LinearScale) Invert(px float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Range[0], s.Range[1]
	if r1 == r0 {
		return (d0 + d1) / 2
	}
	t := (px - r0) / (r1 - r0)
	if s.Clamp {
		t = clamp(t, 0, 1)
	}
	return d0 + t*(d1-d0)
}
