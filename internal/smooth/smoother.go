package smooth

import (
	"time"

	"github.com/chrissnell/polltrend/internal/types"
)

// Smoother is a pluggable smoothing strategy.
type Smoother interface {
	// Smooth evaluates points on every day in dates
	Smooth(dates []time.Time, points []types.SeriesPoint, windowDays int) []types.DailyValue

	// Method reports which algorithm the smoother implements
	Method() Method
}

// NewSmoother returns the strategy for method. Unknown methods fall back to
// the moving average.
func NewSmoother(method Method) Smoother {
	switch method {
	case Gaussian:
		return gaussianSmoother{}
	default:
		return movingAverageSmoother{}
	}
}

type movingAverageSmoother struct{}

func (movingAverageSmoother) Smooth(dates []time.Time, points []types.SeriesPoint, windowDays int) []types.DailyValue {
	return MovingAverageSmooth(dates, points, windowDays)
}

func (movingAverageSmoother) Method() Method { return MovingAverage }

type gaussianSmoother struct{}

func (gaussianSmoother) Smooth(dates []time.Time, points []types.SeriesPoint, windowDays int) []types.DailyValue {
	return GaussianSmooth(dates, points, windowDays)
}

func (gaussianSmoother) Method() Method { return Gaussian }
