package services

import (
	"fmt"

	"github.com/jiaming2012/sim-trading/src/indicators"
	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

type IndicatorEngine struct {
	shortPeriod int
	longPeriod  int
}

// OnCandleClose snapshots the previous averages and recomputes both from
// the latest price. Both happen inside one call, so the strategy never sees
// a half-updated instrument.
func (e *IndicatorEngine) OnCandleClose(state *models.SimulationState) {
	for _, symbol := range state.Symbols {
		e.update(state.Instruments[symbol])
	}
}

func (e *IndicatorEngine) update(instrument *models.Instrument) {
	instrument.PrevShortEMA = instrument.ShortEMA
	instrument.PrevLongEMA = instrument.LongEMA
	instrument.ShortEMA = indicators.NextEma(instrument.Price, instrument.ShortEMA, e.shortPeriod)
	instrument.LongEMA = indicators.NextEma(instrument.Price, instrument.LongEMA, e.longPeriod)
}

// Seed initialises the averages of instrument from a close history.
func (e *IndicatorEngine) Seed(instrument *models.Instrument, closes []float64) error {
	short, err := indicators.SeedEma(closes, e.shortPeriod)
	if err != nil {
		return fmt.Errorf("seed short ema for %s: %w", instrument.Symbol, err)
	}

	long, err := indicators.SeedEma(closes, e.longPeriod)
	if err != nil {
		return fmt.Errorf("seed long ema for %s: %w", instrument.Symbol, err)
	}

	instrument.PrevShortEMA = short.Previous
	instrument.ShortEMA = short.Current
	instrument.PrevLongEMA = long.Previous
	instrument.LongEMA = long.Current

	return nil
}

func NewIndicatorEngine(shortPeriod int, longPeriod int) *IndicatorEngine {
	return &IndicatorEngine{
		shortPeriod: shortPeriod,
		longPeriod:  longPeriod,
	}
}
