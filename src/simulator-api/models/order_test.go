package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder(t *testing.T) {
	now := time.Date(2024, time.January, 2, 14, 30, 0, 0, time.UTC)

	t.Run("fill is terminal", func(t *testing.T) {
		order := NewOrder(1, now, 0, "AAPL", OrderSideBuy, 10, OrderReasonManual)
		require.NoError(t, order.Fill(NewFill(order, 1, now.Add(time.Second), 10, 191.5)))

		assert.Equal(t, OrderStatusFilled, order.Status)
		assert.Equal(t, 191.5, order.FilledAvgPrice)
		require.NotNil(t, order.FilledAt)
		assert.Equal(t, now.Add(time.Second), *order.FilledAt)

		assert.ErrorIs(t, order.Cancel("late"), ErrOrderNotOpen)
		assert.ErrorIs(t, order.Fill(NewFill(order, 2, now, 10, 192)), ErrOrderNotOpen)
		assert.Equal(t, 191.5, order.FilledAvgPrice)
	})

	t.Run("cancel is terminal", func(t *testing.T) {
		order := NewOrder(2, now, 0, "AAPL", OrderSideSell, 5, OrderReasonManual)
		require.NoError(t, order.Cancel("user"))

		assert.Equal(t, OrderStatusCanceled, order.Status)
		assert.True(t, order.Status.IsTerminal())
		assert.ErrorIs(t, order.Fill(NewFill(order, 1, now, 5, 100)), ErrOrderNotOpen)
		assert.Equal(t, -5.0, order.GetSignedQuantity())
	})

	t.Run("fill must match the order", func(t *testing.T) {
		order := NewOrder(3, now, 0, "AAPL", OrderSideBuy, 10, OrderReasonManual)
		assert.Error(t, order.Fill(NewFill(order, 1, now, 4, 100)))
		assert.Error(t, order.Fill(NewFill(order, 1, now, 10, 0)))
		assert.Equal(t, OrderStatusOpen, order.Status)
	})
}

func TestOrderSide(t *testing.T) {
	assert.NoError(t, OrderSideBuy.Validate())
	assert.ErrorIs(t, OrderSide("hold").Validate(), ErrInvalidOrderSide)
	assert.Equal(t, OrderSideSell, OrderSideBuy.Opposite())
	assert.Equal(t, PositionSideShort, OrderSideSell.PositionSide())
	assert.Equal(t, OrderSideBuy, PositionSideShort.ExitSide())
	assert.Equal(t, OrderSideSell, PositionSideLong.ExitSide())
}
