package services

import (
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/sim-trading/src/indicators"
	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

// StrategyEngine trades EMA crossovers with fixed protective levels.
type StrategyEngine struct {
	cfg    models.StrategyConfig
	orders *OrderManager
}

// Evaluate checks exits on every tick and entries only on ticks where a
// candle closed. A symbol with a pending order is left alone. Returns the
// orders submitted.
func (s *StrategyEngine) Evaluate(state *models.SimulationState, candleClosed bool) []*models.Order {
	var submitted []*models.Order

	exposure := s.exposure(state)

	for _, symbol := range state.Symbols {
		if _, pending := state.GetPendingOrder(symbol); pending {
			continue
		}

		instrument := state.Instruments[symbol]

		if position, open := state.Positions[symbol]; open {
			reason, exit := EvaluateExit(position, instrument.Price)
			if !exit {
				continue
			}

			order, err := s.orders.Submit(state, symbol, position.Side.ExitSide(), position.Quantity, reason)
			if err != nil {
				log.Warnf("StrategyEngine: exit %s: %v", symbol, err)
				continue
			}

			submitted = append(submitted, order)
			continue
		}

		if !candleClosed {
			continue
		}

		side, reason, ok := EntrySignal(instrument)
		if !ok {
			continue
		}

		if exposure >= s.cfg.MaxOpenPositions {
			log.Debugf("StrategyEngine: skipping %s %s: %d of %d positions in use", reason, symbol, exposure, s.cfg.MaxOpenPositions)
			continue
		}

		quantity := PositionSize(state.Statistics.Equity, instrument.VolatilityRange, s.cfg)
		if quantity <= 0 {
			log.Debugf("StrategyEngine: skipping %s %s: size is zero (equity %.2f, range %.4f)", reason, symbol, state.Statistics.Equity, instrument.VolatilityRange)
			continue
		}

		order, err := s.orders.Submit(state, symbol, side, quantity, reason)
		if err != nil {
			log.Warnf("StrategyEngine: entry %s: %v", symbol, err)
			continue
		}

		submitted = append(submitted, order)
		exposure++
	}

	return submitted
}

// exposure counts open positions plus pending orders that would open one.
func (s *StrategyEngine) exposure(state *models.SimulationState) int {
	count := len(state.Positions)
	for _, order := range state.PendingOrders {
		if _, open := state.Positions[order.Symbol]; !open {
			count++
		}
	}

	return count
}

// EntrySignal maps a crossover on the instrument's averages to an order.
func EntrySignal(instrument *models.Instrument) (models.OrderSide, models.OrderReason, bool) {
	switch indicators.DetectCrossover(instrument.PrevShortEMA, instrument.PrevLongEMA, instrument.ShortEMA, instrument.LongEMA) {
	case indicators.CrossoverBullish:
		return models.OrderSideBuy, models.OrderReasonBullishCrossover, true
	case indicators.CrossoverBearish:
		return models.OrderSideSell, models.OrderReasonBearishCrossover, true
	default:
		return "", "", false
	}
}

// EvaluateExit reports whether price has reached the position's take profit
// or stop loss.
func EvaluateExit(position *models.Position, price float64) (models.OrderReason, bool) {
	switch position.Side {
	case models.PositionSideLong:
		if price >= position.TakeProfit {
			return models.OrderReasonTakeProfit, true
		}

		if price <= position.StopLoss {
			return models.OrderReasonStopLoss, true
		}
	case models.PositionSideShort:
		if price <= position.TakeProfit {
			return models.OrderReasonTakeProfit, true
		}

		if price >= position.StopLoss {
			return models.OrderReasonStopLoss, true
		}
	}

	return "", false
}

// PositionSize risks RiskPerTrade of equity over a stop StopMultiple
// volatility ranges away. Whole shares only.
func PositionSize(equity float64, volatilityRange float64, cfg models.StrategyConfig) float64 {
	riskPerShare := volatilityRange * cfg.StopMultiple
	if equity <= 0 || riskPerShare <= 0 {
		return 0
	}

	size := math.Floor(equity * cfg.RiskPerTrade / riskPerShare)
	if math.IsNaN(size) || math.IsInf(size, 0) || size < 0 {
		return 0
	}

	return size
}

// ProtectiveLevels returns the take profit and stop loss for a new position.
func ProtectiveLevels(side models.PositionSide, entry float64, volatilityRange float64, cfg models.StrategyConfig) (takeProfit float64, stopLoss float64) {
	direction := side.Direction()
	takeProfit = entry + direction*volatilityRange*cfg.TakeProfitMultiple
	stopLoss = entry - direction*volatilityRange*cfg.StopMultiple
	return
}

func NewStrategyEngine(cfg models.StrategyConfig, orders *OrderManager) *StrategyEngine {
	return &StrategyEngine{
		cfg:    cfg,
		orders: orders,
	}
}
