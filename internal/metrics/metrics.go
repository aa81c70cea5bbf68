// Package metrics computes derived performance figures from a normalized
// NAV time series.
package metrics

import (
	"math"

	"github.com/bobmcallan/fundwatch/internal/models"
)

// RiskFreeRate is the fixed annual risk-free rate used for the Sharpe ratio.
const RiskFreeRate = 0.03

// Compute derives annualized return, volatility, max drawdown, and Sharpe
// ratio from a NAV series. Fewer than 2 points yields all-zero metrics.
// Results are rounded once at the boundary: ratio fields to 2 decimals,
// rate/fraction fields to 4. The computation is deterministic for a given
// input series.
func Compute(series []models.HistoricalPoint) models.PerformanceMetrics {
	if len(series) < 2 {
		return models.PerformanceMetrics{}
	}

	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].NavValue
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (series[i].NavValue-prev)/prev)
	}

	first := series[0].NavValue
	last := series[len(series)-1].NavValue
	totalReturn := 0.0
	if first != 0 {
		totalReturn = (last - first) / first
	}
	dayCount := float64(len(series) - 1)
	annualizedReturn := math.Pow(1+totalReturn, 365/dayCount) - 1

	// Population variance (mean of squared deviations), annualized by √365.
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	volatility := math.Sqrt(variance * 365)

	// Max drawdown from a left-to-right running peak.
	maxDrawdown := 0.0
	peak := series[0].NavValue
	for _, p := range series {
		if p.NavValue > peak {
			peak = p.NavValue
		} else if peak > 0 {
			drawdown := (peak - p.NavValue) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	sharpe := 0.0
	if volatility > 0 {
		sharpe = (annualizedReturn - RiskFreeRate) / volatility
	}

	return models.PerformanceMetrics{
		SharpeRatio:      round(sharpe, 2),
		MaxDrawdown:      round(maxDrawdown, 4),
		Volatility:       round(volatility, 4),
		AnnualizedReturn: round(annualizedReturn, 4),
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
