package models

type OrderReason string

const (
	OrderReasonBullishCrossover OrderReason = "bullish_crossover"
	OrderReasonBearishCrossover OrderReason = "bearish_crossover"
	OrderReasonTakeProfit       OrderReason = "take_profit"
	OrderReasonStopLoss         OrderReason = "stop_loss"
	OrderReasonManual           OrderReason = "manual"
	OrderReasonManualClose      OrderReason = "manual_close"
)

// IsEntry reports whether the reason belongs to a signal that opens exposure.
func (r OrderReason) IsEntry() bool {
	return r == OrderReasonBullishCrossover || r == OrderReasonBearishCrossover
}
