package services

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/sim-trading/src/eventmodels"
	"github.com/jiaming2012/sim-trading/src/eventpubsub"
	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

// OrderManager owns orders from submission until their single terminal
// transition. An order leaves state.PendingOrders the moment it is filled or
// canceled, so a fill callback that fires after a cancel finds nothing to do.
type OrderManager struct {
	scheduler *models.Scheduler
	fillDelay uint64
	ledger    *Ledger
	bus       *eventpubsub.Bus
}

func (m *OrderManager) Submit(state *models.SimulationState, symbol eventmodels.StockSymbol, side models.OrderSide, quantity float64, reason models.OrderReason) (*models.Order, error) {
	if err := side.Validate(); err != nil {
		return nil, err
	}

	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidOrderQuantity, quantity)
	}

	if _, ok := state.Instruments[symbol]; !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownSymbol, symbol)
	}

	if pending, found := state.GetPendingOrder(symbol); found {
		return nil, fmt.Errorf("order %d for %s: %w", pending.ID, symbol, models.ErrOrderPending)
	}

	if err := m.ledger.CanApply(state, symbol, side); err != nil {
		return nil, err
	}

	order := models.NewOrder(state.NextOrderID(), state.Clock.CurrentTime, state.Clock.Tick, symbol, side, quantity, reason)
	state.PendingOrders[order.ID] = order

	orderID := order.ID
	m.scheduler.Schedule(state.Clock.Tick+m.fillDelay, fmt.Sprintf("fill order %d", orderID), func() {
		m.fill(state, orderID)
	})

	log.WithFields(log.Fields{
		"order":  order.ID,
		"symbol": symbol,
		"side":   side,
		"qty":    quantity,
		"reason": reason,
	}).Debug("order submitted")

	m.bus.Publish("OrderManager", eventpubsub.OrderSubmittedEvent, &models.OrderSubmittedEvent{Order: *order})

	return order, nil
}

// Cancel moves a pending order to canceled. Canceling an order that already
// reached a terminal state is a no-op.
func (m *OrderManager) Cancel(state *models.SimulationState, orderID uint, reason string) error {
	order, found := state.PendingOrders[orderID]
	if !found {
		if state.WasIssued(orderID) {
			return nil
		}

		return fmt.Errorf("order %d: %w", orderID, models.ErrOrderNotFound)
	}

	m.cancel(state, order, reason)
	return nil
}

// CancelAll cancels every pending order.
func (m *OrderManager) CancelAll(state *models.SimulationState, reason string) {
	for _, order := range state.GetPendingOrders() {
		m.cancel(state, order, reason)
	}
}

// ProcessFills runs every fill due on the current tick.
func (m *OrderManager) ProcessFills(state *models.SimulationState) int {
	return m.scheduler.RunDue(state.Clock.Tick)
}

func (m *OrderManager) cancel(state *models.SimulationState, order *models.Order, reason string) {
	delete(state.PendingOrders, order.ID)

	if err := order.Cancel(reason); err != nil {
		log.Errorf("OrderManager.cancel: %v", err)
		return
	}

	state.OrderHistory.Push(order)

	log.WithFields(log.Fields{
		"order":  order.ID,
		"symbol": order.Symbol,
		"reason": reason,
	}).Info("order canceled")

	m.bus.Publish("OrderManager", eventpubsub.OrderCanceledEvent, &models.OrderCanceledEvent{Order: *order})
}

func (m *OrderManager) fill(state *models.SimulationState, orderID uint) {
	order, found := state.PendingOrders[orderID]
	if !found {
		return
	}

	if err := m.ledger.CanApply(state, order.Symbol, order.Side); err != nil {
		m.cancel(state, order, err.Error())
		return
	}

	price := state.Instruments[order.Symbol].Price
	fill := models.NewFill(order, state.Clock.Tick, state.Clock.CurrentTime, order.Quantity, price)
	if err := order.Fill(fill); err != nil {
		log.Errorf("OrderManager.fill: order %d: %v", order.ID, err)
		m.cancel(state, order, err.Error())
		return
	}

	delete(state.PendingOrders, order.ID)

	state.OrderHistory.Push(order)

	log.WithFields(log.Fields{
		"order":  order.ID,
		"symbol": order.Symbol,
		"side":   order.Side,
		"qty":    order.Quantity,
		"price":  price,
	}).Info("order filled")

	m.bus.Publish("OrderManager", eventpubsub.OrderFilledEvent, &models.OrderFilledEvent{Order: *order, Fill: *fill})

	if err := m.ledger.ApplyFill(state, order); err != nil {
		log.Errorf("OrderManager.fill: ledger rejected order %d: %v", order.ID, err)
	}
}

func NewOrderManager(scheduler *models.Scheduler, fillDelay uint64, ledger *Ledger, bus *eventpubsub.Bus) *OrderManager {
	return &OrderManager{
		scheduler: scheduler,
		fillDelay: fillDelay,
		ledger:    ledger,
		bus:       bus,
	}
}
