package models

import (
	"github.com/jiaming2012/sim-trading/src/eventmodels"
)

// MinimumPrice is the floor the price process clamps to.
const MinimumPrice = 0.01

type Instrument struct {
	Symbol          eventmodels.StockSymbol `json:"symbol"`
	Price           float64                 `json:"price"`
	Drift           float64                 `json:"drift"`
	Volatility      float64                 `json:"volatility"`
	VolatilityRange float64                 `json:"volatilityRange"`
	ShortEMA        float64                 `json:"shortEma"`
	LongEMA         float64                 `json:"longEma"`
	PrevShortEMA    float64                 `json:"prevShortEma"`
	PrevLongEMA     float64                 `json:"prevLongEma"`
}

// NewInstrument starts every moving average at the opening price and the
// volatility range at one percent of it.
func NewInstrument(cfg InstrumentConfig) *Instrument {
	price := cfg.Price
	if price < MinimumPrice {
		price = MinimumPrice
	}

	return &Instrument{
		Symbol:          eventmodels.NewStockSymbol(cfg.Symbol),
		Price:           price,
		Drift:           cfg.Drift,
		Volatility:      cfg.Volatility,
		VolatilityRange: price * 0.01,
		ShortEMA:        price,
		LongEMA:         price,
		PrevShortEMA:    price,
		PrevLongEMA:     price,
	}
}
