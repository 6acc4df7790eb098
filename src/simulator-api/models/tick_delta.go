package models

import "time"

// TickDelta is what changed during one tick, pushed to presentation listeners.
type TickDelta struct {
	Tick            uint64             `json:"tick"`
	CurrentTime     time.Time          `json:"currentTime"`
	Prices          map[string]float64 `json:"prices"`
	CandleClosed    bool               `json:"candleClosed"`
	NewOrders       []Order            `json:"newOrders,omitempty"`
	Fills           []Fill             `json:"fills,omitempty"`
	CanceledOrders  []Order            `json:"canceledOrders,omitempty"`
	ClosedPositions []ClosedPosition   `json:"closedPositions,omitempty"`
	SealedCandle    *PerformancePoint  `json:"sealedCandle,omitempty"`
	Statistics      Statistics         `json:"statistics"`
}

func NewTickDelta(tick uint64, currentTime time.Time) *TickDelta {
	return &TickDelta{
		Tick:        tick,
		CurrentTime: currentTime,
		Prices:      make(map[string]float64),
	}
}
