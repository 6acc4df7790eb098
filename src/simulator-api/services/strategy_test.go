package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

func TestEvaluateExit(t *testing.T) {
	long := &models.Position{Side: models.PositionSideLong, AvgEntryPrice: 100, TakeProfit: 110, StopLoss: 95}
	short := &models.Position{Side: models.PositionSideShort, AvgEntryPrice: 100, TakeProfit: 90, StopLoss: 105}

	t.Run("long", func(t *testing.T) {
		reason, exit := EvaluateExit(long, 110)
		require.True(t, exit)
		assert.Equal(t, models.OrderReasonTakeProfit, reason)

		reason, exit = EvaluateExit(long, 95)
		require.True(t, exit)
		assert.Equal(t, models.OrderReasonStopLoss, reason)

		_, exit = EvaluateExit(long, 100)
		assert.False(t, exit)

		_, exit = EvaluateExit(long, 109.99)
		assert.False(t, exit)
	})

	t.Run("short", func(t *testing.T) {
		reason, exit := EvaluateExit(short, 89)
		require.True(t, exit)
		assert.Equal(t, models.OrderReasonTakeProfit, reason)

		reason, exit = EvaluateExit(short, 105)
		require.True(t, exit)
		assert.Equal(t, models.OrderReasonStopLoss, reason)

		_, exit = EvaluateExit(short, 100)
		assert.False(t, exit)
	})
}

func TestPositionSize(t *testing.T) {
	cfg := models.StrategyConfig{RiskPerTrade: 0.01, StopMultiple: 2}

	t.Run("risk over stop distance", func(t *testing.T) {
		// 100000 * 0.01 / (1.5 * 2)
		assert.Equal(t, 333.0, PositionSize(100000, 1.5, cfg))
	})

	t.Run("degenerate inputs give zero", func(t *testing.T) {
		assert.Zero(t, PositionSize(100000, 0, cfg))
		assert.Zero(t, PositionSize(0, 1, cfg))
		assert.Zero(t, PositionSize(-10, 1, cfg))
		assert.Zero(t, PositionSize(100, 1000, cfg))
	})
}

func TestProtectiveLevels(t *testing.T) {
	cfg := models.StrategyConfig{StopMultiple: 1.5, TakeProfitMultiple: 3}

	tp, sl := ProtectiveLevels(models.PositionSideLong, 100, 2, cfg)
	assert.InDelta(t, 106.0, tp, 1e-9)
	assert.InDelta(t, 97.0, sl, 1e-9)

	tp, sl = ProtectiveLevels(models.PositionSideShort, 100, 2, cfg)
	assert.InDelta(t, 94.0, tp, 1e-9)
	assert.InDelta(t, 103.0, sl, 1e-9)
}

func TestStrategyEngine(t *testing.T) {
	cfg := models.StrategyConfig{ShortPeriod: 5, LongPeriod: 20, RiskPerTrade: 0.01, StopMultiple: 1.5, TakeProfitMultiple: 3, MaxOpenPositions: 1}

	bullish := func(instrument *models.Instrument) {
		instrument.PrevShortEMA, instrument.PrevLongEMA = 9, 10
		instrument.ShortEMA, instrument.LongEMA = 11, 10
	}

	bearish := func(instrument *models.Instrument) {
		instrument.PrevShortEMA, instrument.PrevLongEMA = 11, 10
		instrument.ShortEMA, instrument.LongEMA = 9, 10
	}

	t.Run("entries only on candle close", func(t *testing.T) {
		desk := newTestDesk(t, 1, models.InstrumentConfig{Symbol: "AAA", Price: 100})
		strategy := NewStrategyEngine(cfg, desk.orders)
		bullish(desk.state.Instruments["AAA"])

		assert.Empty(t, strategy.Evaluate(desk.state, false))

		orders := strategy.Evaluate(desk.state, true)
		require.Len(t, orders, 1)
		assert.Equal(t, models.OrderSideBuy, orders[0].Side)
		assert.Equal(t, models.OrderReasonBullishCrossover, orders[0].Reason)
		assert.Equal(t, 666.0, orders[0].Quantity)
	})

	t.Run("bearish crossover sells", func(t *testing.T) {
		desk := newTestDesk(t, 1, models.InstrumentConfig{Symbol: "AAA", Price: 100})
		strategy := NewStrategyEngine(cfg, desk.orders)
		bearish(desk.state.Instruments["AAA"])

		orders := strategy.Evaluate(desk.state, true)
		require.Len(t, orders, 1)
		assert.Equal(t, models.OrderSideSell, orders[0].Side)
		assert.Equal(t, models.OrderReasonBearishCrossover, orders[0].Reason)
	})

	t.Run("no signal without a sign change", func(t *testing.T) {
		desk := newTestDesk(t, 1, models.InstrumentConfig{Symbol: "AAA", Price: 100})
		strategy := NewStrategyEngine(cfg, desk.orders)
		instrument := desk.state.Instruments["AAA"]
		instrument.PrevShortEMA, instrument.PrevLongEMA = 11, 10
		instrument.ShortEMA, instrument.LongEMA = 12, 10

		assert.Empty(t, strategy.Evaluate(desk.state, true))
	})

	t.Run("max open positions counts pending entries", func(t *testing.T) {
		desk := newTestDesk(t, 1,
			models.InstrumentConfig{Symbol: "AAA", Price: 100},
			models.InstrumentConfig{Symbol: "BBB", Price: 100},
		)
		strategy := NewStrategyEngine(cfg, desk.orders)
		bullish(desk.state.Instruments["AAA"])
		bullish(desk.state.Instruments["BBB"])

		orders := strategy.Evaluate(desk.state, true)
		require.Len(t, orders, 1)
		assert.Equal(t, "AAA", orders[0].Symbol.String())
	})

	t.Run("zero size is skipped", func(t *testing.T) {
		desk := newTestDesk(t, 1, models.InstrumentConfig{Symbol: "AAA", Price: 100})
		strategy := NewStrategyEngine(cfg, desk.orders)
		instrument := desk.state.Instruments["AAA"]
		bullish(instrument)
		instrument.VolatilityRange = 0

		assert.Empty(t, strategy.Evaluate(desk.state, true))
		assert.Empty(t, desk.state.PendingOrders)
	})

	t.Run("exit on every tick with full quantity", func(t *testing.T) {
		desk := newTestDesk(t, 1, models.InstrumentConfig{Symbol: "AAA", Price: 100})
		strategy := NewStrategyEngine(cfg, desk.orders)
		bullish(desk.state.Instruments["AAA"])

		require.Len(t, strategy.Evaluate(desk.state, true), 1)
		require.Equal(t, 1, desk.tick())

		position, found := desk.state.Positions["AAA"]
		require.True(t, found)

		desk.setPrice("AAA", position.TakeProfit+0.01)
		orders := strategy.Evaluate(desk.state, false)
		require.Len(t, orders, 1)
		assert.Equal(t, models.OrderSideSell, orders[0].Side)
		assert.Equal(t, position.Quantity, orders[0].Quantity)
		assert.Equal(t, models.OrderReasonTakeProfit, orders[0].Reason)

		assert.Empty(t, strategy.Evaluate(desk.state, false), "pending exit is not resubmitted")
	})

	t.Run("opposite crossover leaves an open position alone", func(t *testing.T) {
		desk := newTestDesk(t, 1, models.InstrumentConfig{Symbol: "AAA", Price: 100})
		strategy := NewStrategyEngine(cfg, desk.orders)
		instrument := desk.state.Instruments["AAA"]
		bullish(instrument)

		require.Len(t, strategy.Evaluate(desk.state, true), 1)
		require.Equal(t, 1, desk.tick())
		require.Contains(t, desk.state.Positions, instrument.Symbol)

		bearish(instrument)

		assert.Empty(t, strategy.Evaluate(desk.state, true))
		assert.Empty(t, desk.state.PendingOrders)
		assert.Contains(t, desk.state.Positions, instrument.Symbol)
	})
}
