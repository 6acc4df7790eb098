package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/sim-trading/src/eventpubsub"
	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

func TestOrderManager(t *testing.T) {
	aaa := models.InstrumentConfig{Symbol: "AAA", Price: 100}

	t.Run("fills after the delay at the then-current price", func(t *testing.T) {
		desk := newTestDesk(t, 2, aaa)

		order, err := desk.orders.Submit(desk.state, "AAA", models.OrderSideBuy, 10, models.OrderReasonManual)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusOpen, order.Status)
		assert.Equal(t, uint(1), order.ID)

		assert.Equal(t, 0, desk.tick())
		assert.Equal(t, models.OrderStatusOpen, order.Status)

		desk.setPrice("AAA", 105)
		assert.Equal(t, 1, desk.tick())

		assert.Equal(t, models.OrderStatusFilled, order.Status)
		assert.Equal(t, 105.0, order.FilledAvgPrice)
		assert.Equal(t, 10.0, order.FilledQuantity)
		assert.Empty(t, desk.state.PendingOrders)

		position, found := desk.state.Positions["AAA"]
		require.True(t, found)
		assert.Equal(t, models.PositionSideLong, position.Side)
		assert.Equal(t, 105.0, position.AvgEntryPrice)
	})

	t.Run("cancel after fill is a no-op", func(t *testing.T) {
		desk := newTestDesk(t, 1, aaa)

		order, err := desk.orders.Submit(desk.state, "AAA", models.OrderSideBuy, 10, models.OrderReasonManual)
		require.NoError(t, err)
		desk.tick()
		require.Equal(t, models.OrderStatusFilled, order.Status)

		require.NoError(t, desk.orders.Cancel(desk.state, order.ID, CanceledByUserReason))
		assert.Equal(t, models.OrderStatusFilled, order.Status)
		assert.Nil(t, order.CancelReason)
		assert.Equal(t, 1, desk.state.OrderHistory.Len())
	})

	t.Run("canceled order is never filled", func(t *testing.T) {
		desk := newTestDesk(t, 1, aaa)

		var filled int
		require.NoError(t, desk.bus.Subscribe("test", eventpubsub.OrderFilledEvent, func(event *models.OrderFilledEvent) {
			filled++
		}))

		order, err := desk.orders.Submit(desk.state, "AAA", models.OrderSideBuy, 10, models.OrderReasonManual)
		require.NoError(t, err)
		require.NoError(t, desk.orders.Cancel(desk.state, order.ID, CanceledByUserReason))

		assert.Equal(t, 1, desk.tick(), "the fill callback still runs")
		assert.Equal(t, models.OrderStatusCanceled, order.Status)
		require.NotNil(t, order.CancelReason)
		assert.Equal(t, CanceledByUserReason, *order.CancelReason)
		assert.Zero(t, filled)
		assert.Empty(t, desk.state.Positions)

		require.NoError(t, desk.orders.Cancel(desk.state, order.ID, "again"))
		assert.Equal(t, CanceledByUserReason, *order.CancelReason)
	})

	t.Run("unknown order", func(t *testing.T) {
		desk := newTestDesk(t, 1, aaa)
		assert.ErrorIs(t, desk.orders.Cancel(desk.state, 42, CanceledByUserReason), models.ErrOrderNotFound)
	})

	t.Run("submission is validated", func(t *testing.T) {
		desk := newTestDesk(t, 1, aaa)

		_, err := desk.orders.Submit(desk.state, "AAA", models.OrderSideBuy, 0, models.OrderReasonManual)
		assert.ErrorIs(t, err, models.ErrInvalidOrderQuantity)

		_, err = desk.orders.Submit(desk.state, "AAA", models.OrderSideBuy, -1, models.OrderReasonManual)
		assert.ErrorIs(t, err, models.ErrInvalidOrderQuantity)

		_, err = desk.orders.Submit(desk.state, "ZZZ", models.OrderSideBuy, 1, models.OrderReasonManual)
		assert.ErrorIs(t, err, models.ErrUnknownSymbol)

		_, err = desk.orders.Submit(desk.state, "AAA", models.OrderSide("hold"), 1, models.OrderReasonManual)
		assert.ErrorIs(t, err, models.ErrInvalidOrderSide)

		_, err = desk.orders.Submit(desk.state, "AAA", models.OrderSideBuy, 1, models.OrderReasonManual)
		require.NoError(t, err)

		_, err = desk.orders.Submit(desk.state, "AAA", models.OrderSideSell, 1, models.OrderReasonManual)
		assert.ErrorIs(t, err, models.ErrOrderPending)

		desk.tick()

		_, err = desk.orders.Submit(desk.state, "AAA", models.OrderSideBuy, 1, models.OrderReasonManual)
		assert.ErrorIs(t, err, models.ErrSameSidePosition)

		_, err = desk.orders.Submit(desk.state, "AAA", models.OrderSideSell, 1, models.OrderReasonManual)
		assert.NoError(t, err)
	})

	t.Run("cancel all", func(t *testing.T) {
		desk := newTestDesk(t, 5, aaa, models.InstrumentConfig{Symbol: "BBB", Price: 50})

		_, err := desk.orders.Submit(desk.state, "AAA", models.OrderSideBuy, 1, models.OrderReasonManual)
		require.NoError(t, err)
		_, err = desk.orders.Submit(desk.state, "BBB", models.OrderSideSell, 1, models.OrderReasonManual)
		require.NoError(t, err)

		desk.orders.CancelAll(desk.state, EngineStoppedReason)

		assert.Empty(t, desk.state.PendingOrders)
		for _, order := range desk.state.OrderHistory.Items() {
			assert.Equal(t, models.OrderStatusCanceled, order.Status)
			assert.Equal(t, EngineStoppedReason, *order.CancelReason)
		}
	})
}
