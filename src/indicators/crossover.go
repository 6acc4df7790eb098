package indicators

type Crossover int

const (
	CrossoverNone Crossover = iota
	CrossoverBullish
	CrossoverBearish
)

func (c Crossover) String() string {
	switch c {
	case CrossoverBullish:
		return "bullish"
	case CrossoverBearish:
		return "bearish"
	default:
		return "none"
	}
}

// DetectCrossover compares the previous and current short/long averages and
// reports a crossover only on the step where the sign of short-long flips.
func DetectCrossover(prevShort, prevLong, short, long float64) Crossover {
	if prevShort < prevLong && short > long {
		return CrossoverBullish
	}

	if prevShort > prevLong && short < long {
		return CrossoverBearish
	}

	return CrossoverNone
}
