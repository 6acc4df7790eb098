package indicators

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

type BollingerBands struct {
	SmaPeriod         int
	StandardDeviation float64
	closes            []float64
}

type BollingerBandsStats struct {
	Upper         float64
	Lower         float64
	MovingAverage float64
}

// PercentB locates price within the bands: 0 at the lower band, 1 at the upper.
func (s BollingerBandsStats) PercentB(price float64) float64 {
	width := s.Upper - s.Lower
	if width == 0 {
		return 0.5
	}

	return (price - s.Lower) / width
}

// Update adds a close and returns the bands once SmaPeriod closes are available.
func (b *BollingerBands) Update(close float64) (bool, BollingerBandsStats, error) {
	if len(b.closes) < b.SmaPeriod {
		b.closes = append(b.closes, close)
	} else {
		b.closes = append(b.closes[1:], close)
	}

	if len(b.closes) < b.SmaPeriod {
		return false, BollingerBandsStats{}, nil
	}

	movingAverage, err := stats.Mean(b.closes)
	if err != nil {
		return false, BollingerBandsStats{}, fmt.Errorf("failed to calculate mean: %v", err)
	}

	sd, err := stats.StandardDeviation(b.closes)
	if err != nil {
		return false, BollingerBandsStats{}, fmt.Errorf("failed to calculate the standard deviation: %v", err)
	}

	return true, BollingerBandsStats{
		Upper:         movingAverage + (b.StandardDeviation * sd),
		Lower:         movingAverage - (b.StandardDeviation * sd),
		MovingAverage: movingAverage,
	}, nil
}

// CalculateBollingerBands evaluates the bands over the last smaPeriod closes.
func CalculateBollingerBands(closes []float64, smaPeriod int, standardDeviation float64) (bool, BollingerBandsStats, error) {
	if len(closes) > smaPeriod {
		closes = closes[len(closes)-smaPeriod:]
	}

	bands := NewBollingerBands(smaPeriod, standardDeviation)

	var ok bool
	var result BollingerBandsStats
	for _, c := range closes {
		var err error
		if ok, result, err = bands.Update(c); err != nil {
			return false, BollingerBandsStats{}, err
		}
	}

	return ok, result, nil
}

func NewBollingerBands(smaPeriod int, standardDeviation float64) *BollingerBands {
	return &BollingerBands{
		SmaPeriod:         smaPeriod,
		StandardDeviation: standardDeviation,
	}
}
