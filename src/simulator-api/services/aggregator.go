package services

import (
	"time"

	"github.com/jiaming2012/sim-trading/src/eventpubsub"
	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

// PerformanceAggregator buckets equity into candles of a fixed period of
// simulated time.
type PerformanceAggregator struct {
	period  time.Duration
	current *models.PerformancePoint
	sealed  *models.RingBuffer[models.PerformancePoint]
	bus     *eventpubsub.Bus
}

// Update folds the current equity into the open candle. When the candle's
// period has elapsed it is sealed, stored and returned, and a new candle
// opens at the current equity.
func (a *PerformanceAggregator) Update(state *models.SimulationState) *models.PerformancePoint {
	equity := state.Statistics.Equity
	a.current.Update(equity)

	now := state.Clock.CurrentTime
	if now.Before(a.current.Timestamp.Add(a.period)) {
		return nil
	}

	a.current.Seal(state.Statistics)
	sealed := *a.current
	a.sealed.Push(sealed)
	a.current = models.NewPerformancePoint(now, equity)

	a.bus.Publish("PerformanceAggregator", eventpubsub.CandleSealedEvent, &models.CandleSealedEvent{Point: sealed})

	return &sealed
}

// Points returns the sealed candles, oldest first.
func (a *PerformanceAggregator) Points() []models.PerformancePoint {
	return a.sealed.Items()
}

func (a *PerformanceAggregator) Current() models.PerformancePoint {
	return *a.current
}

func NewPerformanceAggregator(period time.Duration, capacity int, start time.Time, equity float64, bus *eventpubsub.Bus) *PerformanceAggregator {
	return &PerformanceAggregator{
		period:  period,
		current: models.NewPerformancePoint(start, equity),
		sealed:  models.NewRingBuffer[models.PerformancePoint](capacity),
		bus:     bus,
	}
}
