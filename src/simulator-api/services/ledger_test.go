package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/sim-trading/src/eventpubsub"
	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

func TestLedger(t *testing.T) {
	aaa := models.InstrumentConfig{Symbol: "AAA", Price: 100}

	filledOrder := func(t *testing.T, desk *testDesk, side models.OrderSide, quantity float64, price float64) *models.Order {
		order := models.NewOrder(desk.state.NextOrderID(), testStart, desk.state.Clock.Tick, "AAA", side, quantity, models.OrderReasonManual)
		require.NoError(t, order.Fill(models.NewFill(order, desk.state.Clock.Tick, testStart, quantity, price)))
		return order
	}

	t.Run("long round trip", func(t *testing.T) {
		desk := newTestDesk(t, 1, aaa)

		var closed []models.ClosedPosition
		require.NoError(t, desk.bus.Subscribe("test", eventpubsub.PositionClosedEvent, func(event *models.PositionClosedEvent) {
			closed = append(closed, event.Closed)
		}))

		require.NoError(t, desk.ledger.ApplyFill(desk.state, filledOrder(t, desk, models.OrderSideBuy, 10, 100)))

		desk.setPrice("AAA", 104)
		desk.ledger.MarkToMarket(desk.state)

		position := desk.state.Positions["AAA"]
		assert.InDelta(t, 40.0, position.UnrealizedPL, 1e-9)
		assert.InDelta(t, 4.0, position.UnrealizedPLPct, 1e-9)
		assert.InDelta(t, 1040.0, position.MarketValue, 1e-9)
		assert.InDelta(t, 100040.0, desk.state.Statistics.Equity, 1e-9)

		require.NoError(t, desk.ledger.ApplyFill(desk.state, filledOrder(t, desk, models.OrderSideSell, 10, 110)))

		stats := desk.state.Statistics
		assert.Empty(t, desk.state.Positions)
		assert.InDelta(t, 100.0, stats.RealizedPL, 1e-9)
		assert.InDelta(t, 100.0, stats.GrossProfit, 1e-9)
		assert.InDelta(t, 100100.0, stats.Equity, 1e-9)
		assert.InDelta(t, 100100.0, stats.Balance, 1e-9)
		assert.Equal(t, 1, stats.Wins)
		assert.Equal(t, 1.0, stats.WinRate)
		assert.Zero(t, stats.ProfitFactor, "no losses yet")

		require.Len(t, closed, 1)
		assert.Equal(t, 110.0, closed[0].ExitPrice)
		assert.Equal(t, models.PositionSideLong, closed[0].Side)
	})

	t.Run("short loss", func(t *testing.T) {
		desk := newTestDesk(t, 1, aaa)

		require.NoError(t, desk.ledger.ApplyFill(desk.state, filledOrder(t, desk, models.OrderSideSell, 10, 100)))

		desk.setPrice("AAA", 103)
		desk.ledger.MarkToMarket(desk.state)
		position := desk.state.Positions["AAA"]
		assert.InDelta(t, -30.0, position.UnrealizedPL, 1e-9)
		assert.InDelta(t, -1030.0, position.MarketValue, 1e-9)

		require.NoError(t, desk.ledger.ApplyFill(desk.state, filledOrder(t, desk, models.OrderSideBuy, 10, 105)))

		stats := desk.state.Statistics
		assert.InDelta(t, -50.0, stats.RealizedPL, 1e-9)
		assert.InDelta(t, 50.0, stats.GrossLoss, 1e-9)
		assert.Equal(t, 1, stats.Losses)
		assert.Zero(t, stats.WinRate)
		assert.InDelta(t, 99950.0, stats.Equity, 1e-9)
	})

	t.Run("different quantity closes the whole position", func(t *testing.T) {
		desk := newTestDesk(t, 1, aaa)

		require.NoError(t, desk.ledger.ApplyFill(desk.state, filledOrder(t, desk, models.OrderSideBuy, 10, 100)))
		require.NoError(t, desk.ledger.ApplyFill(desk.state, filledOrder(t, desk, models.OrderSideSell, 25, 101)))

		assert.Empty(t, desk.state.Positions)
		assert.InDelta(t, 10.0, desk.state.Statistics.RealizedPL, 1e-9)
	})

	t.Run("same side is rejected", func(t *testing.T) {
		desk := newTestDesk(t, 1, aaa)

		require.NoError(t, desk.ledger.ApplyFill(desk.state, filledOrder(t, desk, models.OrderSideBuy, 10, 100)))
		err := desk.ledger.ApplyFill(desk.state, filledOrder(t, desk, models.OrderSideBuy, 10, 101))
		assert.ErrorIs(t, err, models.ErrSameSidePosition)
		assert.Equal(t, 10.0, desk.state.Positions["AAA"].Quantity)
	})

	t.Run("break even is a trade but not a win", func(t *testing.T) {
		desk := newTestDesk(t, 1, aaa)

		require.NoError(t, desk.ledger.ApplyFill(desk.state, filledOrder(t, desk, models.OrderSideBuy, 10, 100)))
		require.NoError(t, desk.ledger.ApplyFill(desk.state, filledOrder(t, desk, models.OrderSideSell, 10, 100)))

		stats := desk.state.Statistics
		assert.Equal(t, 1, stats.TotalTrades)
		assert.Zero(t, stats.Wins)
		assert.Zero(t, stats.Losses)
		assert.Zero(t, stats.WinRate)
	})

	t.Run("protective levels come from the volatility range", func(t *testing.T) {
		desk := newTestDesk(t, 1, aaa)
		desk.state.Instruments["AAA"].VolatilityRange = 2

		require.NoError(t, desk.ledger.ApplyFill(desk.state, filledOrder(t, desk, models.OrderSideBuy, 10, 100)))

		position := desk.state.Positions["AAA"]
		assert.InDelta(t, 106.0, position.TakeProfit, 1e-9)
		assert.InDelta(t, 97.0, position.StopLoss, 1e-9)
	})

	t.Run("unfilled order is rejected", func(t *testing.T) {
		desk := newTestDesk(t, 1, aaa)
		order := models.NewOrder(1, testStart, 0, "AAA", models.OrderSideBuy, 1, models.OrderReasonManual)
		assert.Error(t, desk.ledger.ApplyFill(desk.state, order))
	})
}
