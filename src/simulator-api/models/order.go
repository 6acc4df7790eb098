package models

import (
	"fmt"
	"time"

	"github.com/jiaming2012/sim-trading/src/eventmodels"
)

type Order struct {
	ID             uint                    `json:"id"`
	Symbol         eventmodels.StockSymbol `json:"symbol"`
	Quantity       float64                 `json:"qty"`
	Side           OrderSide               `json:"side"`
	Type           OrderType               `json:"type"`
	Status         OrderStatus             `json:"status"`
	FilledQuantity float64                 `json:"filledQty"`
	FilledAvgPrice float64                 `json:"filledAvgPrice"`
	SubmittedAt    time.Time               `json:"submittedAt"`
	SubmittedTick  uint64                  `json:"submittedTick"`
	FilledAt       *time.Time              `json:"filledAt,omitempty"`
	Reason         OrderReason             `json:"reason"`
	CancelReason   *string                 `json:"cancelReason,omitempty"`
}

// Fill executes the whole order at the fill's price. Market orders are never
// partially filled.
func (o *Order) Fill(fill *Fill) error {
	if o.Status != OrderStatusOpen {
		return fmt.Errorf("order %d: %w", o.ID, ErrOrderNotOpen)
	}

	if fill.Price <= 0 {
		return fmt.Errorf("fill price must be greater than 0")
	}

	if fill.Quantity != o.Quantity {
		return fmt.Errorf("fill quantity %.4f does not match order quantity %.4f", fill.Quantity, o.Quantity)
	}

	filledAt := fill.CreateDate
	o.FilledQuantity = fill.Quantity
	o.FilledAvgPrice = fill.Price
	o.FilledAt = &filledAt
	o.Status = OrderStatusFilled

	return nil
}

func (o *Order) Cancel(reason string) error {
	if o.Status != OrderStatusOpen {
		return fmt.Errorf("order %d: %w", o.ID, ErrOrderNotOpen)
	}

	o.CancelReason = &reason
	o.Status = OrderStatusCanceled

	return nil
}

// GetSignedQuantity is positive for buys and negative for sells.
func (o *Order) GetSignedQuantity() float64 {
	if o.Side == OrderSideSell {
		return -o.Quantity
	}

	return o.Quantity
}

func NewOrder(id uint, createDate time.Time, tick uint64, symbol eventmodels.StockSymbol, side OrderSide, quantity float64, reason OrderReason) *Order {
	return &Order{
		ID:            id,
		Symbol:        symbol,
		Quantity:      quantity,
		Side:          side,
		Type:          Market,
		Status:        OrderStatusOpen,
		SubmittedAt:   createDate,
		SubmittedTick: tick,
		Reason:        reason,
	}
}
