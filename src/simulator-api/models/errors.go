package models

import "fmt"

var (
	ErrEngineStopped        = fmt.Errorf("simulation engine is stopped")
	ErrUnknownSymbol        = fmt.Errorf("symbol is not tracked by the simulation")
	ErrInvalidOrderSide     = fmt.Errorf("invalid order side")
	ErrInvalidOrderQuantity = fmt.Errorf("invalid order quantity: must be greater than 0")
	ErrOrderPending         = fmt.Errorf("an order for this symbol is already pending")
	ErrSameSidePosition     = fmt.Errorf("position on the same side is already open: close it first")
	ErrOrderNotFound        = fmt.Errorf("order not found")
	ErrOrderNotOpen         = fmt.Errorf("order is not open")
	ErrPositionNotFound     = fmt.Errorf("position not found")
)
