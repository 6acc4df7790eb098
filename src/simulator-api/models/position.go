package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jiaming2012/sim-trading/src/eventmodels"
)

type Position struct {
	ID              uuid.UUID               `json:"id"`
	Symbol          eventmodels.StockSymbol `json:"symbol"`
	Quantity        float64                 `json:"qty"`
	Side            PositionSide            `json:"side"`
	AvgEntryPrice   float64                 `json:"avgEntryPrice"`
	CurrentPrice    float64                 `json:"currentPrice"`
	UnrealizedPL    float64                 `json:"unrealizedPl"`
	UnrealizedPLPct float64                 `json:"unrealizedPlPct"`
	MarketValue     float64                 `json:"marketValue"`
	TakeProfit      float64                 `json:"takeProfit"`
	StopLoss        float64                 `json:"stopLoss"`
	OpenedAt        time.Time               `json:"openedAt"`
	OpenReason      OrderReason             `json:"openReason"`
}

// PL is the profit or loss of the whole position if it were closed at price.
func (p *Position) PL(price float64) float64 {
	return (price - p.AvgEntryPrice) * p.Quantity * p.Side.Direction()
}

// Mark re-prices the position. Short market value is negative.
func (p *Position) Mark(price float64) {
	p.CurrentPrice = price
	p.UnrealizedPL = p.PL(price)
	p.MarketValue = price * p.Quantity * p.Side.Direction()

	costBasis := p.AvgEntryPrice * p.Quantity
	if costBasis > 0 {
		p.UnrealizedPLPct = p.UnrealizedPL / costBasis * 100
	} else {
		p.UnrealizedPLPct = 0
	}
}

func NewPosition(symbol eventmodels.StockSymbol, side PositionSide, quantity float64, entryPrice float64, takeProfit float64, stopLoss float64, openedAt time.Time, reason OrderReason) *Position {
	position := &Position{
		ID:            uuid.New(),
		Symbol:        symbol,
		Quantity:      quantity,
		Side:          side,
		AvgEntryPrice: entryPrice,
		TakeProfit:    takeProfit,
		StopLoss:      stopLoss,
		OpenedAt:      openedAt,
		OpenReason:    reason,
	}

	position.Mark(entryPrice)

	return position
}

type ClosedPosition struct {
	PositionID  uuid.UUID               `json:"positionId"`
	Symbol      eventmodels.StockSymbol `json:"symbol"`
	Side        PositionSide            `json:"side"`
	Quantity    float64                 `json:"qty"`
	EntryPrice  float64                 `json:"entryPrice"`
	ExitPrice   float64                 `json:"exitPrice"`
	RealizedPL  float64                 `json:"realizedPl"`
	OpenReason  OrderReason             `json:"openReason"`
	CloseReason OrderReason             `json:"closeReason"`
	OpenedAt    time.Time               `json:"openedAt"`
	ClosedAt    time.Time               `json:"closedAt"`
}
