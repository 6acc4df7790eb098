package models

type PositionSide string

const (
	PositionSideLong  PositionSide = "long"
	PositionSideShort PositionSide = "short"
)

// Direction is +1 for long exposure and -1 for short exposure.
func (s PositionSide) Direction() float64 {
	if s == PositionSideShort {
		return -1
	}

	return 1
}

// ExitSide is the order side that closes exposure on this side.
func (s PositionSide) ExitSide() OrderSide {
	if s == PositionSideShort {
		return OrderSideBuy
	}

	return OrderSideSell
}
