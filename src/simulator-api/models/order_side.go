package models

import "fmt"

type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

func (s OrderSide) Validate() error {
	switch s {
	case OrderSideBuy, OrderSideSell:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrderSide, string(s))
	}
}

func (s OrderSide) Opposite() OrderSide {
	if s == OrderSideBuy {
		return OrderSideSell
	}

	return OrderSideBuy
}

// PositionSide is the exposure a fill on this side opens.
func (s OrderSide) PositionSide() PositionSide {
	if s == OrderSideBuy {
		return PositionSideLong
	}

	return PositionSideShort
}
