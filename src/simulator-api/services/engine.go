package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/kataras/go-events"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/sim-trading/src/eventmodels"
	"github.com/jiaming2012/sim-trading/src/eventpubsub"
	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

const (
	tickEvent events.EventName = "tick"

	// EngineStoppedReason is the cancel reason of orders still pending at Stop.
	EngineStoppedReason = "engine_stopped"
	// CanceledByUserReason is the cancel reason of orders canceled by command.
	CanceledByUserReason = "canceled_by_user"

	equityDriftTolerance = 1e-6
)

var _ models.ISimulatorService = (*Engine)(nil)

// Engine is the tick orchestrator. Every mutation of simulation state
// happens under mu, either inside Step or inside a command.
type Engine struct {
	mu              sync.Mutex
	id              uuid.UUID
	cfg             models.SimulatorConfig
	state           *models.SimulationState
	bus             *eventpubsub.Bus
	emitter         events.EventEmmiter
	fills           *models.Scheduler
	prices          *PriceModel
	indicators      *IndicatorEngine
	ledger          *Ledger
	orders          *OrderManager
	strategy        *StrategyEngine
	performance     *PerformanceAggregator
	narrative       *NarrativeGenerator
	logs            *models.RingBuffer[models.LogEntry]
	delta           *models.TickDelta
	nextCandleClose time.Time
	stopped         bool
	cancelRun       context.CancelFunc
}

func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Step runs exactly one tick and returns what changed during it.
func (e *Engine) Step() (*models.TickDelta, error) {
	e.mu.Lock()
	delta, err := e.step()
	e.mu.Unlock()

	if err != nil {
		return nil, err
	}

	e.emitter.Emit(tickEvent, delta)

	return delta, nil
}

func (e *Engine) step() (*models.TickDelta, error) {
	if e.stopped {
		return nil, models.ErrEngineStopped
	}

	state := e.state
	clock := state.Clock

	clock.Add(e.cfg.TickInterval)

	e.prices.Step(state)

	candleClosed := false
	if !clock.CurrentTime.Before(e.nextCandleClose) {
		candleClosed = true
		for !clock.CurrentTime.Before(e.nextCandleClose) {
			e.nextCandleClose = e.nextCandleClose.Add(e.cfg.CandlePeriod)
		}

		e.indicators.OnCandleClose(state)

		e.bus.Publish("Engine", eventpubsub.CandleClosedEvent, &models.CandleClosedEvent{
			Tick:   clock.Tick,
			Time:   clock.CurrentTime,
			Prices: state.GetPrices(),
		})
	}

	e.strategy.Evaluate(state, candleClosed)

	e.orders.ProcessFills(state)

	e.ledger.MarkToMarket(state)

	e.performance.Update(state)

	e.narrative.Advance(clock.Tick, clock.CurrentTime)

	if drift := state.EquityDrift(); math.Abs(drift) > equityDriftTolerance {
		log.Errorf("Engine.step: tick %d: equity is off by %.8f", clock.Tick, drift)
	}

	delta := e.delta
	delta.Tick = clock.Tick
	delta.CurrentTime = clock.CurrentTime
	delta.CandleClosed = candleClosed
	delta.Statistics = *state.Statistics
	for symbol, price := range state.GetPrices() {
		delta.Prices[symbol.String()] = price
	}

	e.delta = models.NewTickDelta(clock.Tick+1, clock.CurrentTime.Add(e.cfg.TickInterval))

	return delta, nil
}

// Simulate runs ticks back to back without waiting on a timer.
func (e *Engine) Simulate(ticks int) error {
	for i := 0; i < ticks; i++ {
		if _, err := e.Step(); err != nil {
			return fmt.Errorf("Simulate: tick %d: %w", i+1, err)
		}
	}

	return nil
}

// Run steps the engine every TickInterval until ctx is done or Stop is
// called. The ticker is the engine's only timer.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return models.ErrEngineStopped
	}

	ctx, cancel := context.WithCancel(ctx)
	e.cancelRun = cancel
	e.mu.Unlock()

	defer cancel()

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	log.Infof("simulation %s running: tick every %v", e.id, e.cfg.TickInterval)

	for {
		select {
		case <-ctx.Done():
			log.Infof("simulation %s: run loop exited", e.id)
			return nil
		case <-ticker.C:
			if _, err := e.Step(); err != nil {
				if errors.Is(err, models.ErrEngineStopped) {
					return nil
				}

				return err
			}
		}
	}
}

// Stop halts the engine for good. Pending orders are canceled and every
// deferred fill and narrative is dropped without running.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return
	}

	e.orders.CancelAll(e.state, EngineStoppedReason)
	e.fills.Clear()
	e.narrative.Stop()
	e.stopped = true

	if e.cancelRun != nil {
		e.cancelRun()
	}

	log.Infof("simulation %s stopped at tick %d", e.id, e.state.Clock.Tick)
}

func (e *Engine) IsStopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stopped
}

func (e *Engine) PlaceOrder(symbol string, side models.OrderSide, quantity float64, reason models.OrderReason) (*models.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return nil, models.ErrEngineStopped
	}

	if reason == "" {
		reason = models.OrderReasonManual
	}

	order, err := e.orders.Submit(e.state, eventmodels.NewStockSymbol(symbol), side, quantity, reason)
	if err != nil {
		return nil, fmt.Errorf("PlaceOrder: %w", err)
	}

	return copyOrder(order), nil
}

func (e *Engine) ClosePosition(positionID uuid.UUID, reason models.OrderReason) (*models.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return nil, models.ErrEngineStopped
	}

	position, found := e.state.GetPositionByID(positionID)
	if !found {
		return nil, fmt.Errorf("ClosePosition: %s: %w", positionID, models.ErrPositionNotFound)
	}

	if reason == "" {
		reason = models.OrderReasonManualClose
	}

	order, err := e.orders.Submit(e.state, position.Symbol, position.Side.ExitSide(), position.Quantity, reason)
	if err != nil {
		return nil, fmt.Errorf("ClosePosition: %w", err)
	}

	return copyOrder(order), nil
}

func (e *Engine) CancelOrder(orderID uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return models.ErrEngineStopped
	}

	if err := e.orders.Cancel(e.state, orderID, CanceledByUserReason); err != nil {
		return fmt.Errorf("CancelOrder: %w", err)
	}

	return nil
}

func (e *Engine) GetStatistics() models.Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()

	return *e.state.Statistics
}

// GetPositions returns copies of the open positions ordered by symbol.
func (e *Engine) GetPositions() []*models.Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	positions := make([]*models.Position, 0, len(e.state.Positions))
	for _, symbol := range e.state.Symbols {
		if position, found := e.state.Positions[symbol]; found {
			positions = append(positions, copyPosition(position))
		}
	}

	return positions
}

// GetOrders returns the recent terminal orders, oldest first, followed by
// the pending ones.
func (e *Engine) GetOrders() []*models.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := e.state.OrderHistory.Items()
	pending := e.state.GetPendingOrders()

	orders := make([]*models.Order, 0, len(history)+len(pending))
	for _, order := range history {
		orders = append(orders, copyOrder(order))
	}

	for _, order := range pending {
		orders = append(orders, copyOrder(order))
	}

	return orders
}

func (e *Engine) GetPerformance() []models.PerformancePoint {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.performance.Points()
}

func (e *Engine) GetCurrentCandle() models.PerformancePoint {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.performance.Current()
}

func (e *Engine) GetInstruments() []models.Instrument {
	e.mu.Lock()
	defer e.mu.Unlock()

	instruments := make([]models.Instrument, 0, len(e.state.Symbols))
	for _, symbol := range e.state.Symbols {
		instruments = append(instruments, *e.state.Instruments[symbol])
	}

	return instruments
}

func (e *Engine) GetLogs() []models.LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.logs.Items()
}

func (e *Engine) GetAdvisories() []models.Advisory {
	return e.narrative.Advisories()
}

func (e *Engine) GetAnalyses() []models.Advisory {
	return e.narrative.Analyses()
}

// OnTick registers listener for every completed tick. Listeners run on the
// stepping goroutine after the engine lock is released and must not modify
// the delta.
func (e *Engine) OnTick(listener func(delta *models.TickDelta)) {
	e.emitter.On(tickEvent, func(payload ...interface{}) {
		if len(payload) == 0 {
			return
		}

		if delta, ok := payload[0].(*models.TickDelta); ok {
			listener(delta)
		}
	})
}

func (e *Engine) addLog(level log.Level, format string, args ...interface{}) {
	e.logs.Push(models.LogEntry{
		Timestamp: e.state.Clock.CurrentTime,
		Tick:      e.state.Clock.Tick,
		Level:     level.String(),
		Message:   fmt.Sprintf(format, args...),
	})
}

// subscribe records the domain events of the current tick into the pending
// delta and the log list. Callbacks run under the engine lock.
func (e *Engine) subscribe() error {
	subscriptions := []struct {
		topic eventpubsub.EventName
		fn    interface{}
	}{
		{eventpubsub.OrderSubmittedEvent, func(event *models.OrderSubmittedEvent) {
			e.delta.NewOrders = append(e.delta.NewOrders, event.Order)
			e.addLog(log.InfoLevel, "submitted %s %v %s (%s), order #%d", event.Order.Side, event.Order.Quantity, event.Order.Symbol, event.Order.Reason, event.Order.ID)
		}},
		{eventpubsub.OrderFilledEvent, func(event *models.OrderFilledEvent) {
			e.delta.Fills = append(e.delta.Fills, event.Fill)
			e.addLog(log.InfoLevel, "filled order #%d: %s %v %s @ %.2f", event.Order.ID, event.Fill.Side, event.Fill.Quantity, event.Fill.Symbol, event.Fill.Price)
		}},
		{eventpubsub.OrderCanceledEvent, func(event *models.OrderCanceledEvent) {
			e.delta.CanceledOrders = append(e.delta.CanceledOrders, event.Order)
			reason := ""
			if event.Order.CancelReason != nil {
				reason = *event.Order.CancelReason
			}

			e.addLog(log.WarnLevel, "canceled order #%d for %s: %s", event.Order.ID, event.Order.Symbol, reason)
		}},
		{eventpubsub.PositionOpenedEvent, func(event *models.PositionOpenedEvent) {
			p := event.Position
			e.addLog(log.InfoLevel, "opened %s %s: %v @ %.2f, take profit %.2f, stop loss %.2f", p.Side, p.Symbol, p.Quantity, p.AvgEntryPrice, p.TakeProfit, p.StopLoss)
		}},
		{eventpubsub.PositionClosedEvent, func(event *models.PositionClosedEvent) {
			c := event.Closed
			e.delta.ClosedPositions = append(e.delta.ClosedPositions, c)
			e.addLog(log.InfoLevel, "closed %s %s @ %.2f (%s): realized %.2f", c.Side, c.Symbol, c.ExitPrice, c.CloseReason, c.RealizedPL)
		}},
		{eventpubsub.CandleSealedEvent, func(event *models.CandleSealedEvent) {
			point := event.Point
			e.delta.SealedCandle = &point
		}},
	}

	for _, s := range subscriptions {
		if err := e.bus.Subscribe("Engine", s.topic, s.fn); err != nil {
			return err
		}
	}

	return e.narrative.Subscribe(e.bus)
}

// warmUp walks every instrument through cfg.WarmupCandles candles and seeds
// the moving averages from that history, so crossovers can fire on the first
// candle close.
func (e *Engine) warmUp() error {
	if e.cfg.WarmupCandles <= 0 {
		return nil
	}

	ticksPerCandle := float64(e.cfg.CandlePeriod) / float64(e.cfg.TickInterval)
	dt := e.cfg.TimeStep * ticksPerCandle

	for _, symbol := range e.state.Symbols {
		instrument := e.state.Instruments[symbol]

		closes := []float64{instrument.Price}
		for i := 0; i < e.cfg.WarmupCandles; i++ {
			closes = append(closes, e.prices.Advance(instrument, dt))
		}

		e.narrative.SeedHistory(symbol, closes)

		if len(closes) < e.cfg.Strategy.LongPeriod+1 {
			log.Debugf("warm up %s: %d closes is too short to seed the averages", symbol, len(closes))
			continue
		}

		if err := e.indicators.Seed(instrument, closes); err != nil {
			return fmt.Errorf("warm up: %w", err)
		}
	}

	return nil
}

func copyOrder(order *models.Order) *models.Order {
	out := &models.Order{}
	if err := copier.CopyWithOption(out, order, copier.Option{DeepCopy: true}); err != nil {
		log.Errorf("copyOrder: %v", err)
		o := *order
		return &o
	}

	return out
}

func copyPosition(position *models.Position) *models.Position {
	out := &models.Position{}
	if err := copier.CopyWithOption(out, position, copier.Option{DeepCopy: true}); err != nil {
		log.Errorf("copyPosition: %v", err)
		p := *position
		return &p
	}

	return out
}

// NewEngine validates cfg and builds a ready-to-step engine. A nil composer
// uses the template composer.
func NewEngine(cfg models.SimulatorConfig, composer NarrativeComposer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("NewEngine: invalid config: %w", err)
	}

	instruments := make([]*models.Instrument, 0, len(cfg.Instruments))
	for _, instrumentCfg := range cfg.Instruments {
		instruments = append(instruments, models.NewInstrument(instrumentCfg))
	}

	sort.Slice(instruments, func(i, j int) bool {
		return instruments[i].Symbol < instruments[j].Symbol
	})

	state := models.NewSimulationState(models.NewClock(cfg.StartTime, time.Time{}), instruments, cfg.StartingEquity, cfg.OrderHistoryCapacity)

	bus := eventpubsub.NewBus()
	fills := models.NewScheduler()
	ledger := NewLedger(cfg.Strategy, bus)
	orders := NewOrderManager(fills, cfg.FillDelayTicks, ledger, bus)

	e := &Engine{
		id:          uuid.New(),
		cfg:         cfg,
		state:       state,
		bus:         bus,
		emitter:     events.New(),
		fills:       fills,
		prices:      NewPriceModel(NewRandomSource(cfg.Seed), cfg.TimeStep),
		indicators:  NewIndicatorEngine(cfg.Strategy.ShortPeriod, cfg.Strategy.LongPeriod),
		ledger:      ledger,
		orders:      orders,
		strategy:    NewStrategyEngine(cfg.Strategy, orders),
		performance: NewPerformanceAggregator(cfg.PerformancePeriod, cfg.PerformanceCapacity, cfg.StartTime, cfg.StartingEquity, bus),
		narrative: NewNarrativeGenerator(NarrativeGeneratorConfig{
			Delay:           cfg.NarrativeDelayTicks,
			CommentaryEvery: cfg.CommentaryEveryTicks,
			HistoryLimit:    cfg.NarrativeHistoryLimit,
			AdvisoryCap:     cfg.AdvisoryCapacity,
			AnalysisCap:     cfg.AdvisoryCapacity,
			Seed:            cfg.Seed + 1,
		}, state.Symbols, composer),
		logs:            models.NewRingBuffer[models.LogEntry](cfg.LogCapacity),
		delta:           models.NewTickDelta(1, cfg.StartTime.Add(cfg.TickInterval)),
		nextCandleClose: cfg.StartTime.Add(cfg.CandlePeriod),
	}

	if err := e.warmUp(); err != nil {
		return nil, fmt.Errorf("NewEngine: %w", err)
	}

	if err := e.subscribe(); err != nil {
		return nil, fmt.Errorf("NewEngine: %w", err)
	}

	log.WithFields(log.Fields{
		"session":     e.id,
		"seed":        cfg.Seed,
		"instruments": len(instruments),
		"equity":      cfg.StartingEquity,
	}).Info("simulation engine created")

	return e, nil
}
