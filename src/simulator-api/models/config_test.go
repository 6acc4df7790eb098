package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatorConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultSimulatorConfig().Validate())
	})

	t.Run("duplicate symbols", func(t *testing.T) {
		cfg := DefaultSimulatorConfig()
		cfg.Instruments = append(cfg.Instruments, InstrumentConfig{Symbol: " aapl ", Price: 1})
		assert.ErrorContains(t, cfg.Validate(), "duplicate symbol AAPL")
	})

	t.Run("candle shorter than a tick", func(t *testing.T) {
		cfg := DefaultSimulatorConfig()
		cfg.CandlePeriod = 500 * time.Millisecond
		assert.ErrorContains(t, cfg.Validate(), "candle_period")
	})

	t.Run("reports every problem", func(t *testing.T) {
		cfg := DefaultSimulatorConfig()
		cfg.StartingEquity = 0
		cfg.Strategy.MaxOpenPositions = 0
		cfg.Instruments[0].Price = -1

		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorContains(t, err, "starting_equity")
		assert.ErrorContains(t, err, "max_open_positions")
		assert.ErrorContains(t, err, "instruments[0]: price")
	})
}
