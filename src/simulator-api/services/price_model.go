package services

import (
	"math"

	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

const (
	// VolatilityRangeFraction is the share of price the volatility range tracks.
	VolatilityRangeFraction = 0.01
	// VolatilityRangeSmoothing is the weight of each new observation.
	VolatilityRangeSmoothing = 0.002
)

// PriceModel moves each instrument along a geometric random walk.
type PriceModel struct {
	rng RandomSource
	dt  float64
}

// Advance applies one step of
//
//	p' = max(MinimumPrice, p + p*(drift*dt + volatility*sqrt(dt)*Z))
//
// and smooths the volatility range toward one percent of the new price.
func (m *PriceModel) Advance(instrument *models.Instrument, dt float64) float64 {
	z := m.rng.NormFloat64()
	price := instrument.Price
	next := price + price*(instrument.Drift*dt+instrument.Volatility*math.Sqrt(dt)*z)

	if math.IsNaN(next) || next < models.MinimumPrice {
		next = models.MinimumPrice
	}

	instrument.Price = next
	instrument.VolatilityRange = instrument.VolatilityRange*(1-VolatilityRangeSmoothing) + next*VolatilityRangeFraction*VolatilityRangeSmoothing

	return next
}

// Step advances every instrument once, in symbol order, so a seed always
// produces the same path.
func (m *PriceModel) Step(state *models.SimulationState) {
	for _, symbol := range state.Symbols {
		m.Advance(state.Instruments[symbol], m.dt)
	}
}

func NewPriceModel(rng RandomSource, dt float64) *PriceModel {
	return &PriceModel{
		rng: rng,
		dt:  dt,
	}
}
