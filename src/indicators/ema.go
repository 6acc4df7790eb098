package indicators

import (
	"fmt"

	"github.com/markcheno/go-talib"
)

// EmaMultiplier is the smoothing factor k = 2/(period+1).
func EmaMultiplier(period int) float64 {
	return 2.0 / float64(period+1)
}

// NextEma applies one step of the exponential smoothing recurrence.
func NextEma(price float64, prevEma float64, period int) float64 {
	k := EmaMultiplier(period)
	return price*k + prevEma*(1-k)
}

// EmaPair is the latest and previous value of one moving average.
type EmaPair struct {
	Previous float64
	Current  float64
}

// SeedEma computes the last two values of an EMA over a close history. The
// history must be longer than the period so both values are defined.
func SeedEma(closes []float64, period int) (EmaPair, error) {
	if period < 1 {
		return EmaPair{}, fmt.Errorf("SeedEma: period must be at least 1")
	}

	if len(closes) < period+1 {
		return EmaPair{}, fmt.Errorf("SeedEma: need at least %d closes, found %d", period+1, len(closes))
	}

	series := talib.Ema(closes, period)
	n := len(series)

	return EmaPair{
		Previous: series[n-2],
		Current:  series[n-1],
	}, nil
}
