package models

// Statistics are the running account totals. Balance is cash: the starting
// equity plus everything realized. Equity adds the open positions' unrealized P&L.
type Statistics struct {
	StartingEquity float64 `json:"startingEquity"`
	Balance        float64 `json:"balance"`
	Equity         float64 `json:"equity"`
	RealizedPL     float64 `json:"realizedPl"`
	UnrealizedPL   float64 `json:"unrealizedPl"`
	GrossProfit    float64 `json:"grossProfit"`
	GrossLoss      float64 `json:"grossLoss"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	TotalTrades    int     `json:"totalTrades"`
	WinRate        float64 `json:"winRate"`
	ProfitFactor   float64 `json:"profitFactor"`
}

// RecordClose folds one realized result into the totals. A break-even close
// counts as a trade but neither as a win nor a loss.
func (s *Statistics) RecordClose(pl float64) {
	s.TotalTrades++
	s.RealizedPL += pl
	s.Balance = s.StartingEquity + s.RealizedPL

	if pl > 0 {
		s.GrossProfit += pl
		s.Wins++
	} else if pl < 0 {
		s.GrossLoss += -pl
		s.Losses++
	}

	s.WinRate = s.GetWinRate()
	s.ProfitFactor = s.GetProfitFactor()
	s.Equity = s.Balance + s.UnrealizedPL
}

func (s *Statistics) SetUnrealizedPL(unrealized float64) {
	s.UnrealizedPL = unrealized
	s.Equity = s.Balance + unrealized
}

func (s *Statistics) GetWinRate() float64 {
	closed := s.Wins + s.Losses
	if closed == 0 {
		return 0
	}

	return float64(s.Wins) / float64(closed)
}

func (s *Statistics) GetProfitFactor() float64 {
	if s.GrossLoss <= 0 {
		return 0
	}

	return s.GrossProfit / s.GrossLoss
}

func NewStatistics(startingEquity float64) *Statistics {
	return &Statistics{
		StartingEquity: startingEquity,
		Balance:        startingEquity,
		Equity:         startingEquity,
	}
}
