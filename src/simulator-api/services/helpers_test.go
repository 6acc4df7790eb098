package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/sim-trading/src/eventmodels"
	"github.com/jiaming2012/sim-trading/src/eventpubsub"
	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

var testStart = time.Date(2024, time.January, 2, 14, 30, 0, 0, time.UTC)

type fixedRandom struct {
	z float64
}

func (f fixedRandom) NormFloat64() float64 { return f.z }
func (f fixedRandom) Float64() float64     { return 0.5 }
func (f fixedRandom) Intn(n int) int       { return 0 }

type testDesk struct {
	state     *models.SimulationState
	bus       *eventpubsub.Bus
	scheduler *models.Scheduler
	ledger    *Ledger
	orders    *OrderManager
}

// tick advances the clock one second and runs the due fills.
func (d *testDesk) tick() int {
	d.state.Clock.Add(time.Second)
	return d.orders.ProcessFills(d.state)
}

func (d *testDesk) setPrice(symbol string, price float64) {
	d.state.Instruments[eventmodels.NewStockSymbol(symbol)].Price = price
}

func newTestDesk(t *testing.T, fillDelay uint64, instruments ...models.InstrumentConfig) *testDesk {
	t.Helper()
	require.NotEmpty(t, instruments)

	var list []*models.Instrument
	for _, cfg := range instruments {
		list = append(list, models.NewInstrument(cfg))
	}

	state := models.NewSimulationState(models.NewClock(testStart, time.Time{}), list, 100000, 50)
	bus := eventpubsub.NewBus()
	scheduler := models.NewScheduler()
	ledger := NewLedger(models.DefaultStrategyConfig(), bus)

	return &testDesk{
		state:     state,
		bus:       bus,
		scheduler: scheduler,
		ledger:    ledger,
		orders:    NewOrderManager(scheduler, fillDelay, ledger, bus),
	}
}

func testEngineConfig() models.SimulatorConfig {
	cfg := models.DefaultSimulatorConfig()
	cfg.StartTime = testStart
	cfg.TickInterval = time.Second
	cfg.CandlePeriod = time.Second
	cfg.PerformancePeriod = 5 * time.Second
	cfg.PerformanceCapacity = 20
	cfg.WarmupCandles = 0
	cfg.FillDelayTicks = 1
	cfg.NarrativeDelayTicks = 3
	cfg.CommentaryEveryTicks = 0
	cfg.Strategy = models.StrategyConfig{
		ShortPeriod:        5,
		LongPeriod:         20,
		RiskPerTrade:       0.01,
		StopMultiple:       1.5,
		TakeProfitMultiple: 2,
		MaxOpenPositions:   3,
	}
	cfg.Instruments = []models.InstrumentConfig{
		{Symbol: "TEST", Price: 100, Drift: 0.01, Volatility: 0},
	}

	return cfg
}
