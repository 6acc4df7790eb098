package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
	"github.com/jiaming2012/sim-trading/src/utils"
)

type PerformanceSummary struct {
	Candles      int
	TotalReturn  float64
	MaxDrawdown  float64
	MeanReturn   float64
	StdDevReturn float64
	SharpeLike   float64
	Statistics   models.Statistics
}

// SummarizePerformance reduces the sealed candles and the final totals to a
// handful of numbers. Returns are per candle, measured close to close.
func SummarizePerformance(points []models.PerformancePoint, totals models.Statistics) (PerformanceSummary, error) {
	summary := PerformanceSummary{
		Candles:    len(points),
		Statistics: totals,
	}

	if totals.StartingEquity > 0 {
		summary.TotalReturn = (totals.Equity - totals.StartingEquity) / totals.StartingEquity
	}

	summary.MaxDrawdown = maxDrawdown(points)

	var returns []float64
	prev := 0.0
	for i, p := range points {
		if i == 0 {
			prev = p.Open
		}

		if prev > 0 {
			returns = append(returns, p.Close/prev-1)
		}

		prev = p.Close
	}

	if len(returns) < 2 {
		return summary, nil
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return PerformanceSummary{}, fmt.Errorf("SummarizePerformance: mean: %w", err)
	}

	sd, err := stats.StandardDeviation(returns)
	if err != nil {
		return PerformanceSummary{}, fmt.Errorf("SummarizePerformance: standard deviation: %w", err)
	}

	summary.MeanReturn = mean
	summary.StdDevReturn = sd
	if sd > 0 {
		summary.SharpeLike = mean / sd * math.Sqrt(float64(len(returns)))
	}

	return summary, nil
}

// maxDrawdown is the largest fall from a running high to a later low, as a
// fraction of the high. A candle's own high is not used against its low.
func maxDrawdown(points []models.PerformancePoint) float64 {
	peak := 0.0
	worst := 0.0
	for _, p := range points {
		if p.Open > peak {
			peak = p.Open
		}

		if peak > 0 {
			if dd := (peak - p.Low) / peak; dd > worst {
				worst = dd
			}
		}

		if p.High > peak {
			peak = p.High
		}
	}

	return worst
}

func (s PerformanceSummary) String() string {
	display := &strings.Builder{}
	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	st := s.Statistics
	table.Append([]string{"Starting equity", utils.FormatMoney(st.StartingEquity)})
	table.Append([]string{"Equity", utils.FormatMoney(st.Equity)})
	table.Append([]string{"Realized P&L", utils.FormatMoney(st.RealizedPL)})
	table.Append([]string{"Unrealized P&L", utils.FormatMoney(st.UnrealizedPL)})
	table.Append([]string{"Total return", fmt.Sprintf("%.2f%%", s.TotalReturn*100)})
	table.Append([]string{"Max drawdown", fmt.Sprintf("%.2f%%", s.MaxDrawdown*100)})
	table.Append([]string{"Trades", utils.FormatNumber(float64(st.TotalTrades), 0)})
	table.Append([]string{"Wins / losses", fmt.Sprintf("%d / %d", st.Wins, st.Losses)})
	table.Append([]string{"Win rate", fmt.Sprintf("%.1f%%", st.WinRate*100)})
	table.Append([]string{"Profit factor", utils.FormatNumber(st.ProfitFactor, 2)})
	table.Append([]string{"Candles", utils.FormatNumber(float64(s.Candles), 0)})
	table.Append([]string{"Sharpe-like ratio", utils.FormatNumber(s.SharpeLike, 3)})

	table.Render()
	return display.String()
}
