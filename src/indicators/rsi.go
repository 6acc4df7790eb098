package indicators

import (
	"fmt"

	"github.com/markcheno/go-talib"
)

// Rsi returns the latest Wilder RSI over closes.
func Rsi(closes []float64, period int) (float64, error) {
	if period < 2 {
		return 0, fmt.Errorf("Rsi: period must be at least 2")
	}

	if len(closes) <= period {
		return 0, fmt.Errorf("Rsi: need more than %d closes, found %d", period, len(closes))
	}

	values := talib.Rsi(closes, period)
	return values[len(values)-1], nil
}
