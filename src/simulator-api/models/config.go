package models

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
)

type InstrumentConfig struct {
	Symbol     string  `yaml:"symbol"`
	Price      float64 `yaml:"price"`
	Drift      float64 `yaml:"drift"`
	Volatility float64 `yaml:"volatility"`
}

type StrategyConfig struct {
	ShortPeriod        int     `yaml:"short_period"`
	LongPeriod         int     `yaml:"long_period"`
	RiskPerTrade       float64 `yaml:"risk_per_trade"`
	StopMultiple       float64 `yaml:"stop_multiple"`
	TakeProfitMultiple float64 `yaml:"take_profit_multiple"`
	MaxOpenPositions   int     `yaml:"max_open_positions"`
}

type SimulatorConfig struct {
	Seed                  int64              `yaml:"seed"`
	StartingEquity        float64            `yaml:"starting_equity"`
	StartTime             time.Time          `yaml:"start_time"`
	TickInterval          time.Duration      `yaml:"tick_interval"`
	TimeStep              float64            `yaml:"time_step"`
	CandlePeriod          time.Duration      `yaml:"candle_period"`
	WarmupCandles         int                `yaml:"warmup_candles"`
	PerformancePeriod     time.Duration      `yaml:"performance_period"`
	PerformanceCapacity   int                `yaml:"performance_capacity"`
	FillDelayTicks        uint64             `yaml:"fill_delay_ticks"`
	NarrativeDelayTicks   uint64             `yaml:"narrative_delay_ticks"`
	CommentaryEveryTicks  uint64             `yaml:"commentary_every_ticks"`
	LogCapacity           int                `yaml:"log_capacity"`
	AdvisoryCapacity      int                `yaml:"advisory_capacity"`
	OrderHistoryCapacity  int                `yaml:"order_history_capacity"`
	NarrativeHistoryLimit int                `yaml:"narrative_history_limit"`
	Strategy              StrategyConfig     `yaml:"strategy"`
	Instruments           []InstrumentConfig `yaml:"instruments"`
}

func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		ShortPeriod:        9,
		LongPeriod:         21,
		RiskPerTrade:       0.01,
		StopMultiple:       1.5,
		TakeProfitMultiple: 3,
		MaxOpenPositions:   3,
	}
}

func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		Seed:                  1,
		StartingEquity:        100000,
		StartTime:             time.Date(2024, time.January, 2, 14, 30, 0, 0, time.UTC),
		TickInterval:          time.Second,
		TimeStep:              1,
		CandlePeriod:          time.Minute,
		WarmupCandles:         30,
		PerformancePeriod:     5 * time.Minute,
		PerformanceCapacity:   288,
		FillDelayTicks:        2,
		NarrativeDelayTicks:   3,
		CommentaryEveryTicks:  90,
		LogCapacity:           200,
		AdvisoryCapacity:      50,
		OrderHistoryCapacity:  100,
		NarrativeHistoryLimit: 120,
		Strategy:              DefaultStrategyConfig(),
		Instruments: []InstrumentConfig{
			{Symbol: "AAPL", Price: 190, Drift: 0.000002, Volatility: 0.0009},
			{Symbol: "MSFT", Price: 410, Drift: 0.000002, Volatility: 0.0008},
			{Symbol: "NVDA", Price: 880, Drift: 0.000004, Volatility: 0.0016},
			{Symbol: "TSLA", Price: 175, Drift: -0.000001, Volatility: 0.0020},
			{Symbol: "SPY", Price: 510, Drift: 0.000001, Volatility: 0.0005},
		},
	}
}

func (c StrategyConfig) Validate() error {
	var err error

	if c.ShortPeriod < 1 {
		err = multierr.Append(err, fmt.Errorf("strategy.short_period must be at least 1"))
	}

	if c.LongPeriod <= c.ShortPeriod {
		err = multierr.Append(err, fmt.Errorf("strategy.long_period (%d) must be greater than short_period (%d)", c.LongPeriod, c.ShortPeriod))
	}

	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 1 {
		err = multierr.Append(err, fmt.Errorf("strategy.risk_per_trade must be in (0, 1]"))
	}

	if c.StopMultiple <= 0 {
		err = multierr.Append(err, fmt.Errorf("strategy.stop_multiple must be greater than 0"))
	}

	if c.TakeProfitMultiple <= 0 {
		err = multierr.Append(err, fmt.Errorf("strategy.take_profit_multiple must be greater than 0"))
	}

	if c.MaxOpenPositions < 1 {
		err = multierr.Append(err, fmt.Errorf("strategy.max_open_positions must be at least 1"))
	}

	return err
}

// Validate reports every problem with the configuration at once.
func (c SimulatorConfig) Validate() error {
	var err error

	if c.StartingEquity <= 0 {
		err = multierr.Append(err, fmt.Errorf("starting_equity must be greater than 0"))
	}

	if c.TickInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("tick_interval must be greater than 0"))
	}

	if c.TimeStep <= 0 {
		err = multierr.Append(err, fmt.Errorf("time_step must be greater than 0"))
	}

	if c.CandlePeriod < c.TickInterval {
		err = multierr.Append(err, fmt.Errorf("candle_period (%v) must be at least tick_interval (%v)", c.CandlePeriod, c.TickInterval))
	}

	if c.PerformancePeriod < c.TickInterval {
		err = multierr.Append(err, fmt.Errorf("performance_period (%v) must be at least tick_interval (%v)", c.PerformancePeriod, c.TickInterval))
	}

	if c.WarmupCandles < 0 {
		err = multierr.Append(err, fmt.Errorf("warmup_candles must not be negative"))
	}

	if c.PerformanceCapacity < 1 || c.LogCapacity < 1 || c.AdvisoryCapacity < 1 || c.OrderHistoryCapacity < 1 {
		err = multierr.Append(err, fmt.Errorf("list capacities must be at least 1"))
	}

	if len(c.Instruments) == 0 {
		err = multierr.Append(err, fmt.Errorf("at least one instrument is required"))
	}

	seen := make(map[string]struct{})
	for i, instrument := range c.Instruments {
		symbol := strings.ToUpper(strings.TrimSpace(instrument.Symbol))
		if symbol == "" {
			err = multierr.Append(err, fmt.Errorf("instruments[%d]: symbol must not be empty", i))
		} else if _, found := seen[symbol]; found {
			err = multierr.Append(err, fmt.Errorf("instruments[%d]: duplicate symbol %s", i, symbol))
		}

		seen[symbol] = struct{}{}

		if instrument.Price <= 0 {
			err = multierr.Append(err, fmt.Errorf("instruments[%d]: price must be greater than 0", i))
		}

		if instrument.Volatility < 0 {
			err = multierr.Append(err, fmt.Errorf("instruments[%d]: volatility must not be negative", i))
		}
	}

	return multierr.Append(err, c.Strategy.Validate())
}
