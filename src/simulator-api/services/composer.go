package services

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/sim-trading/src/eventmodels"
	"github.com/jiaming2012/sim-trading/src/indicators"
	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

const (
	rationaleVariants  = 3
	commentaryVariants = 3

	commentaryBandPeriod = 20
	commentaryBandWidth  = 2.0
	commentaryRsiPeriod  = 14
)

// TemplateComposer fills a small set of fixed sentences.
type TemplateComposer struct {
	printer *message.Printer
}

func (c *TemplateComposer) Rationale(position models.Position, reason models.OrderReason, variant int) (string, error) {
	var cross string
	switch reason {
	case models.OrderReasonBullishCrossover:
		cross = "crossed above"
	case models.OrderReasonBearishCrossover:
		cross = "crossed below"
	default:
		cross = "was overridden by a manual entry against"
	}

	switch variant % rationaleVariants {
	case 0:
		return c.printer.Sprintf("Opened %s %s at %.2f: the fast EMA %s the slow EMA. Target %.2f, stop %.2f.",
			position.Side, position.Symbol, position.AvgEntryPrice, cross, position.TakeProfit, position.StopLoss), nil
	case 1:
		return c.printer.Sprintf("%s: %v shares %s at %.2f. Momentum turned when the fast average %s the slow one; risk is capped at %.2f.",
			position.Symbol, position.Quantity, position.Side, position.AvgEntryPrice, cross, position.StopLoss), nil
	default:
		return c.printer.Sprintf("New %s position in %s (%s). Looking for %.2f with a protective stop at %.2f.",
			position.Side, position.Symbol, reason, position.TakeProfit, position.StopLoss), nil
	}
}

func (c *TemplateComposer) Commentary(symbol eventmodels.StockSymbol, closes []float64, variant int) (string, error) {
	if len(closes) == 0 {
		return "", fmt.Errorf("no closes recorded for %s", symbol)
	}

	last := closes[len(closes)-1]

	ok, bands, err := indicators.CalculateBollingerBands(closes, commentaryBandPeriod, commentaryBandWidth)
	if err != nil {
		return "", fmt.Errorf("bollinger bands for %s: %w", symbol, err)
	}

	if !ok {
		return c.printer.Sprintf("%s is trading at %.2f. Not enough history yet for a read on the range.", symbol, last), nil
	}

	position := describeBandPosition(bands.PercentB(last))

	momentum := ""
	if rsi, err := indicators.Rsi(closes, commentaryRsiPeriod); err == nil {
		momentum = c.printer.Sprintf(" RSI(%d) is %.1f, %s.", commentaryRsiPeriod, rsi, describeRsi(rsi))
	}

	switch variant % commentaryVariants {
	case 0:
		return c.printer.Sprintf("%s at %.2f sits %s of its %d-candle bands (%.2f to %.2f).%s",
			symbol, last, position, commentaryBandPeriod, bands.Lower, bands.Upper, momentum), nil
	case 1:
		return c.printer.Sprintf("Watching %s: price %.2f against a mean of %.2f, %s of the range.%s",
			symbol, last, bands.MovingAverage, position, momentum), nil
	default:
		return c.printer.Sprintf("%s band width is %.2f around %.2f; the last close is %s.%s",
			symbol, bands.Upper-bands.Lower, bands.MovingAverage, position, momentum), nil
	}
}

func describeBandPosition(percentB float64) string {
	switch {
	case percentB > 1:
		return "above the top"
	case percentB >= 0.8:
		return "near the top"
	case percentB <= 0:
		return "below the bottom"
	case percentB <= 0.2:
		return "near the bottom"
	default:
		return "in the middle"
	}
}

func describeRsi(rsi float64) string {
	switch {
	case rsi >= 70:
		return "overbought"
	case rsi <= 30:
		return "oversold"
	default:
		return "neutral"
	}
}

func NewTemplateComposer() *TemplateComposer {
	return &TemplateComposer{
		printer: message.NewPrinter(language.English),
	}
}
