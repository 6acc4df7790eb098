package services

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/sim-trading/src/eventmodels"
	"github.com/jiaming2012/sim-trading/src/eventpubsub"
	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

// Ledger keeps at most one position per symbol. An opposite-side fill always
// closes the whole position; reversing exposure takes a second order.
type Ledger struct {
	cfg models.StrategyConfig
	bus *eventpubsub.Bus
}

// CanApply reports whether an order on side would open or close exposure.
// Adding to an open position is not supported.
func (l *Ledger) CanApply(state *models.SimulationState, symbol eventmodels.StockSymbol, side models.OrderSide) error {
	position, found := state.Positions[symbol]
	if !found {
		return nil
	}

	if side != position.Side.ExitSide() {
		return fmt.Errorf("%s %s: %w", position.Side, symbol, models.ErrSameSidePosition)
	}

	return nil
}

func (l *Ledger) ApplyFill(state *models.SimulationState, order *models.Order) error {
	if order.Status != models.OrderStatusFilled {
		return fmt.Errorf("ApplyFill: order %d is %s, not filled", order.ID, order.Status)
	}

	position, found := state.Positions[order.Symbol]
	if !found {
		l.open(state, order)
		return nil
	}

	if err := l.CanApply(state, order.Symbol, order.Side); err != nil {
		return fmt.Errorf("ApplyFill: %w", err)
	}

	l.close(state, position, order)
	return nil
}

// MarkToMarket re-prices every open position and refreshes equity.
func (l *Ledger) MarkToMarket(state *models.SimulationState) {
	for symbol, position := range state.Positions {
		position.Mark(state.Instruments[symbol].Price)
	}

	state.Statistics.SetUnrealizedPL(state.GetUnrealizedPL())
}

func (l *Ledger) open(state *models.SimulationState, order *models.Order) {
	instrument := state.Instruments[order.Symbol]
	side := order.Side.PositionSide()
	takeProfit, stopLoss := ProtectiveLevels(side, order.FilledAvgPrice, instrument.VolatilityRange, l.cfg)

	position := models.NewPosition(order.Symbol, side, order.FilledQuantity, order.FilledAvgPrice, takeProfit, stopLoss, state.Clock.CurrentTime, order.Reason)
	state.Positions[order.Symbol] = position
	state.Statistics.SetUnrealizedPL(state.GetUnrealizedPL())

	log.WithFields(log.Fields{
		"symbol":      position.Symbol,
		"side":        position.Side,
		"qty":         position.Quantity,
		"entry":       position.AvgEntryPrice,
		"take_profit": position.TakeProfit,
		"stop_loss":   position.StopLoss,
	}).Info("position opened")

	l.bus.Publish("Ledger", eventpubsub.PositionOpenedEvent, &models.PositionOpenedEvent{
		Tick:     state.Clock.Tick,
		Time:     state.Clock.CurrentTime,
		Position: *position,
		Reason:   order.Reason,
	})
}

func (l *Ledger) close(state *models.SimulationState, position *models.Position, order *models.Order) {
	if order.FilledQuantity != position.Quantity {
		log.Warnf("Ledger.close: order %d qty %.2f differs from %s position qty %.2f: closing the full position", order.ID, order.FilledQuantity, position.Symbol, position.Quantity)
	}

	exitPrice := order.FilledAvgPrice
	realized := position.PL(exitPrice)

	delete(state.Positions, position.Symbol)
	state.Statistics.RecordClose(realized)
	state.Statistics.SetUnrealizedPL(state.GetUnrealizedPL())

	closed := models.ClosedPosition{
		PositionID:  position.ID,
		Symbol:      position.Symbol,
		Side:        position.Side,
		Quantity:    position.Quantity,
		EntryPrice:  position.AvgEntryPrice,
		ExitPrice:   exitPrice,
		RealizedPL:  realized,
		OpenReason:  position.OpenReason,
		CloseReason: order.Reason,
		OpenedAt:    position.OpenedAt,
		ClosedAt:    state.Clock.CurrentTime,
	}

	log.WithFields(log.Fields{
		"symbol": closed.Symbol,
		"side":   closed.Side,
		"qty":    closed.Quantity,
		"entry":  closed.EntryPrice,
		"exit":   closed.ExitPrice,
		"pl":     closed.RealizedPL,
		"reason": closed.CloseReason,
	}).Info("position closed")

	l.bus.Publish("Ledger", eventpubsub.PositionClosedEvent, &models.PositionClosedEvent{
		Tick:   state.Clock.Tick,
		Closed: closed,
	})
}

func NewLedger(cfg models.StrategyConfig, bus *eventpubsub.Bus) *Ledger {
	return &Ledger{
		cfg: cfg,
		bus: bus,
	}
}
