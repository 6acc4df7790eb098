package models

import (
	"sort"

	"github.com/google/uuid"

	"github.com/jiaming2012/sim-trading/src/eventmodels"
)

// SimulationState is everything the trading path mutates. The engine owns the
// only instance and hands it to each component's step function.
type SimulationState struct {
	Clock         *Clock
	Symbols       []eventmodels.StockSymbol
	Instruments   map[eventmodels.StockSymbol]*Instrument
	Positions     map[eventmodels.StockSymbol]*Position
	PendingOrders map[uint]*Order
	OrderHistory  *RingBuffer[*Order]
	Statistics    *Statistics
	orderNonce    uint
}

func (s *SimulationState) NextOrderID() uint {
	s.orderNonce++
	return s.orderNonce
}

// WasIssued reports whether id was handed out by NextOrderID.
func (s *SimulationState) WasIssued(id uint) bool {
	return id > 0 && id <= s.orderNonce
}

func (s *SimulationState) GetPendingOrder(symbol eventmodels.StockSymbol) (*Order, bool) {
	for _, order := range s.PendingOrders {
		if order.Symbol == symbol {
			return order, true
		}
	}

	return nil, false
}

func (s *SimulationState) GetPendingOrders() []*Order {
	orders := make([]*Order, 0, len(s.PendingOrders))
	for _, order := range s.PendingOrders {
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ID < orders[j].ID
	})

	return orders
}

func (s *SimulationState) GetPositionByID(id uuid.UUID) (*Position, bool) {
	for _, position := range s.Positions {
		if position.ID == id {
			return position, true
		}
	}

	return nil, false
}

func (s *SimulationState) GetUnrealizedPL() float64 {
	total := 0.0
	for _, position := range s.Positions {
		total += position.UnrealizedPL
	}

	return total
}

func (s *SimulationState) GetPrices() map[eventmodels.StockSymbol]float64 {
	prices := make(map[eventmodels.StockSymbol]float64, len(s.Instruments))
	for symbol, instrument := range s.Instruments {
		prices[symbol] = instrument.Price
	}

	return prices
}

// EquityDrift is how far equity is from starting equity plus realized plus
// unrealized P&L. It is zero, up to rounding, after every tick.
func (s *SimulationState) EquityDrift() float64 {
	expected := s.Statistics.StartingEquity + s.Statistics.RealizedPL + s.GetUnrealizedPL()
	return s.Statistics.Equity - expected
}

func NewSimulationState(clock *Clock, instruments []*Instrument, startingEquity float64, orderHistoryCapacity int) *SimulationState {
	state := &SimulationState{
		Clock:         clock,
		Instruments:   make(map[eventmodels.StockSymbol]*Instrument, len(instruments)),
		Positions:     make(map[eventmodels.StockSymbol]*Position),
		PendingOrders: make(map[uint]*Order),
		OrderHistory:  NewRingBuffer[*Order](orderHistoryCapacity),
		Statistics:    NewStatistics(startingEquity),
	}

	var symbols []eventmodels.StockSymbol
	for _, instrument := range instruments {
		state.Instruments[instrument.Symbol] = instrument
		symbols = append(symbols, instrument.Symbol)
	}

	state.Symbols = eventmodels.SortStockSymbols(symbols)

	return state
}
