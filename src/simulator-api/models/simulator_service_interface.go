package models

import (
	"github.com/google/uuid"
)

// ISimulatorService is the read and command surface presentation code uses.
// A live-data source emitting the same records can stand in for it.
type ISimulatorService interface {
	GetStatistics() Statistics
	GetPositions() []*Position
	GetOrders() []*Order
	GetPerformance() []PerformancePoint
	GetCurrentCandle() PerformancePoint
	GetLogs() []LogEntry
	GetAdvisories() []Advisory
	GetAnalyses() []Advisory
	PlaceOrder(symbol string, side OrderSide, quantity float64, reason OrderReason) (*Order, error)
	ClosePosition(positionID uuid.UUID, reason OrderReason) (*Order, error)
	CancelOrder(orderID uint) error
	OnTick(listener func(delta *TickDelta))
}
