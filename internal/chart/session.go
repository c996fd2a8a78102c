// Package chart recomputes trend-chart data when its inputs change, keeps the
// latest result as an immutable snapshot, and answers hover queries against
// that snapshot without recomputing it.
package chart

import (
	"reflect"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/polltrend/internal/axis"
	"github.com/chrissnell/polltrend/internal/filter"
	"github.com/chrissnell/polltrend/internal/refdata"
	"github.com/chrissnell/polltrend/internal/series"
	"github.com/chrissnell/polltrend/internal/smooth"
	"github.com/chrissnell/polltrend/internal/types"
)

// ResizeDebounce is how long resize notifications are coalesced before a
// re-render.
const ResizeDebounce = 100 * time.Millisecond

// DefaultWindowStart is where the implicit validity window of a selected
// party begins when neither the chart nor the registry configures one.
var DefaultWindowStart = time.Date(2017, 12, 31, 0, 0, 0, 0, time.UTC)

// Options are the per-chart inputs of a computation.
type Options struct {
	SelectedParties []types.Party
	PollsterGroup   types.PollsterGroup
	DateRange       types.DateRange
	// Windows overrides the registry's validity windows when non-nil
	Windows     types.PartyValidityWindows
	Method      smooth.Method
	ValueLimits *[2]float64
	Annotations []types.Annotation
	// PerPollster draws one line per pollster and party instead of one per party
	PerPollster bool
}

// Renderer receives computed results. It owns all drawing.
type Renderer interface {
	UpdateData(s *Snapshot)
	UpdateAxis(p types.AxisParams)
	Render(s *Snapshot)
}

// Snapshot is one complete computation. It is never modified after it is
// published.
type Snapshot struct {
	ID           string                   `json:"id"`
	ComputedAt   time.Time                `json:"computedAt"`
	Series       []types.SeriesDescriptor `json:"series"`
	Observations []types.Observation      `json:"-"`
	series.Result
	Axis        types.AxisParams   `json:"axis"`
	Annotations []types.Annotation `json:"annotations"`
}

// Session holds the inputs of one chart and its latest snapshot. Its
// methods are meant to be called from a single goroutine; Snapshot may be
// read from anywhere.
type Session struct {
	registry     *refdata.Registry
	renderer     Renderer
	logger       *zap.SugaredLogger
	observations []types.Observation
	options      Options
	snapshot     atomic.Pointer[Snapshot]
	resize       *Debouncer
	now          func() time.Time
}

// NewSession creates a session. renderer may be nil.
func NewSession(reg *refdata.Registry, renderer Renderer, logger *zap.SugaredLogger) *Session {
	s := &Session{
		registry: reg,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
	s.resize = NewDebouncer(ResizeDebounce, s.render)
	return s
}

// Snapshot returns the latest computed snapshot, or nil before the first
// computation.
func (s *Session) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Options returns the session's current options.
func (s *Session) Options() Options {
	return s.options
}

// SetObservations replaces the raw observations and recomputes.
func (s *Session) SetObservations(obs []types.Observation) *Snapshot {
	s.observations = append([]types.Observation(nil), obs...)
	return s.recompute()
}

// Update replaces observations and options together and recomputes once.
func (s *Session) Update(obs []types.Observation, opts Options) *Snapshot {
	s.observations = append([]types.Observation(nil), obs...)
	s.options = opts
	return s.recompute()
}

// SetOptions replaces the options. A change that only touches annotations
// recomputes the axis against the existing data; anything else reruns the
// whole pipeline.
func (s *Session) SetOptions(opts Options) *Snapshot {
	prev := s.options
	s.options = opts

	current := s.Snapshot()
	if current == nil || dataChanged(prev, opts) {
		return s.recompute()
	}

	next := *current
	next.ID = uuid.NewString()
	next.Annotations = append([]types.Annotation(nil), opts.Annotations...)
	next.Axis = axis.Calculate(next.DailyBySeries, opts.DateRange, opts.ValueLimits, len(opts.Annotations) > 0)
	s.snapshot.Store(&next)

	if s.renderer != nil {
		s.renderer.UpdateAxis(next.Axis)
	}
	return &next
}

// NotifyResize schedules a debounced re-render of the current snapshot.
func (s *Session) NotifyResize() {
	s.resize.Trigger()
}

// Close stops any pending debounced render.
func (s *Session) Close() {
	s.resize.Stop()
}

func (s *Session) render() {
	if snap := s.Snapshot(); snap != nil && s.renderer != nil {
		s.renderer.Render(snap)
	}
}

func (s *Session) recompute() *Snapshot {
	opts := s.options
	started := s.now()

	filtered := filter.Apply(s.observations, filter.Criteria{
		Group:     opts.PollsterGroup,
		DateRange: &opts.DateRange,
		Windows:   s.windows(opts),
	}, s.registry)

	var descriptors []types.SeriesDescriptor
	var extract series.Extractor = series.PartyValue
	var include series.Predicate = series.Always
	if opts.PerPollster {
		descriptors = series.PollsterDescriptors(filtered, opts.SelectedParties, s.registry)
		extract, include = series.PollsterValue, series.FromPollster
	} else {
		descriptors = series.PartyDescriptors(opts.SelectedParties, s.registry)
	}

	res := series.Build(filtered, descriptors, extract, include, opts.Method)

	snap := &Snapshot{
		ID:           uuid.NewString(),
		ComputedAt:   started,
		Series:       descriptors,
		Observations: filtered,
		Result:       res,
		Axis:         axis.Calculate(res.DailyBySeries, opts.DateRange, opts.ValueLimits, len(opts.Annotations) > 0),
		Annotations:  append([]types.Annotation(nil), opts.Annotations...),
	}
	s.snapshot.Store(snap)

	if s.logger != nil {
		s.logger.Debugw("chart recomputed",
			"snapshot", snap.ID,
			"observations", len(filtered),
			"series", len(descriptors),
			"days", len(res.Dates),
			"windowDays", res.WindowDays,
			"method", opts.Method,
			"elapsed", s.now().Sub(started),
		)
	}

	if s.renderer != nil {
		s.renderer.UpdateData(snap)
		s.renderer.UpdateAxis(snap.Axis)
	}
	return snap
}

// windows resolves the validity windows for a computation: explicit
// options first, then the registry, then a default window for every
// selected party that has neither.
func (s *Session) windows(opts Options) types.PartyValidityWindows {
	if opts.Windows != nil {
		return opts.Windows
	}

	w := s.registry.Windows()
	end := types.Day(s.now())
	for _, p := range opts.SelectedParties {
		if _, ok := w[p]; !ok {
			w[p] = []types.Interval{{Start: DefaultWindowStart, End: end}}
		}
	}
	return w
}

func dataChanged(a, b Options) bool {
	a.Annotations, b.Annotations = nil, nil
	return !reflect.DeepEqual(a, b)
}
