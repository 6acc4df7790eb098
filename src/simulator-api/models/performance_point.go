package models

import "time"

// PerformancePoint is one equity candle. Only the aggregator's current point
// is ever mutated; sealed points are copied by value.
type PerformancePoint struct {
	Timestamp    time.Time `json:"timestamp"`
	Open         float64   `json:"open"`
	High         float64   `json:"high"`
	Low          float64   `json:"low"`
	Close        float64   `json:"close"`
	PL           float64   `json:"pnl"`
	WinRate      float64   `json:"winRate"`
	ProfitFactor float64   `json:"profitFactor"`
	Wins         int       `json:"wins"`
	Losses       int       `json:"losses"`
}

func (p *PerformancePoint) Update(equity float64) {
	if equity > p.High {
		p.High = equity
	}

	if equity < p.Low {
		p.Low = equity
	}

	p.Close = equity
}

func (p *PerformancePoint) Seal(stats *Statistics) {
	p.PL = stats.RealizedPL
	p.WinRate = stats.GetWinRate()
	p.ProfitFactor = stats.GetProfitFactor()
	p.Wins = stats.Wins
	p.Losses = stats.Losses
}

func (p PerformancePoint) ToDTO() *PerformancePointDTO {
	return &PerformancePointDTO{
		Timestamp:    p.Timestamp.Format(time.RFC3339),
		Open:         p.Open,
		High:         p.High,
		Low:          p.Low,
		Close:        p.Close,
		PL:           p.PL,
		WinRate:      p.WinRate,
		ProfitFactor: p.ProfitFactor,
		Wins:         p.Wins,
		Losses:       p.Losses,
	}
}

func NewPerformancePoint(timestamp time.Time, equity float64) *PerformancePoint {
	return &PerformancePoint{
		Timestamp: timestamp,
		Open:      equity,
		High:      equity,
		Low:       equity,
		Close:     equity,
	}
}

type PerformancePointDTO struct {
	Timestamp    string  `csv:"timestamp"`
	Open         float64 `csv:"open"`
	High         float64 `csv:"high"`
	Low          float64 `csv:"low"`
	Close        float64 `csv:"close"`
	PL           float64 `csv:"pnl"`
	WinRate      float64 `csv:"win_rate"`
	ProfitFactor float64 `csv:"profit_factor"`
	Wins         int     `csv:"wins"`
	Losses       int     `csv:"losses"`
}
