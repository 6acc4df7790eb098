package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

func TestPriceModel(t *testing.T) {
	t.Run("price never goes below the floor", func(t *testing.T) {
		model := NewPriceModel(fixedRandom{z: -1000}, 1)
		instrument := models.NewInstrument(models.InstrumentConfig{Symbol: "X", Price: 5, Volatility: 0.5})

		for i := 0; i < 10; i++ {
			price := model.Advance(instrument, 1)
			assert.GreaterOrEqual(t, price, models.MinimumPrice)
		}

		assert.Equal(t, models.MinimumPrice, instrument.Price)
	})

	t.Run("drift only", func(t *testing.T) {
		model := NewPriceModel(fixedRandom{z: 0}, 1)
		instrument := models.NewInstrument(models.InstrumentConfig{Symbol: "X", Price: 100, Drift: 0.01})

		assert.InDelta(t, 101.0, model.Advance(instrument, 1), 1e-9)
		assert.InDelta(t, 102.01, model.Advance(instrument, 1), 1e-9)
	})

	t.Run("volatility range smooths toward one percent of price", func(t *testing.T) {
		model := NewPriceModel(fixedRandom{z: 0}, 1)
		instrument := models.NewInstrument(models.InstrumentConfig{Symbol: "X", Price: 100})
		require.InDelta(t, 1.0, instrument.VolatilityRange, 1e-9)

		instrument.VolatilityRange = 3
		model.Advance(instrument, 1)

		expected := 3*(1-VolatilityRangeSmoothing) + 100*VolatilityRangeFraction*VolatilityRangeSmoothing
		assert.InDelta(t, expected, instrument.VolatilityRange, 1e-12)
	})

	t.Run("same seed gives the same path", func(t *testing.T) {
		path := func(seed int64) []float64 {
			model := NewPriceModel(NewRandomSource(seed), 1)
			instrument := models.NewInstrument(models.InstrumentConfig{Symbol: "X", Price: 100, Volatility: 0.01})

			var prices []float64
			for i := 0; i < 50; i++ {
				prices = append(prices, model.Advance(instrument, 1))
			}

			return prices
		}

		assert.Equal(t, path(7), path(7))
		assert.NotEqual(t, path(7), path(8))
	})
}
