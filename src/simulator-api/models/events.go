package models

import (
	"time"

	"github.com/jiaming2012/sim-trading/src/eventmodels"
)

type OrderSubmittedEvent struct {
	Order Order
}

type OrderFilledEvent struct {
	Order Order
	Fill  Fill
}

type OrderCanceledEvent struct {
	Order Order
}

type PositionOpenedEvent struct {
	Tick     uint64
	Time     time.Time
	Position Position
	Reason   OrderReason
}

type PositionClosedEvent struct {
	Tick   uint64
	Closed ClosedPosition
}

type CandleClosedEvent struct {
	Tick   uint64
	Time   time.Time
	Prices map[eventmodels.StockSymbol]float64
}

type CandleSealedEvent struct {
	Point PerformancePoint
}
