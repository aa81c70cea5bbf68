package models

import "github.com/shopspring/decimal"

// FundPosition is a user's holding in one fund, keyed uniquely by FundCode.
// The derived fields are recomputed on read by combining the position with
// its current valuation; they are never persisted.
type FundPosition struct {
	FundCode string  `json:"fundCode"`
	FundName string  `json:"fundName"`
	Shares   float64 `json:"shares"`
	Cost     float64 `json:"cost"`    // total cost basis
	BuyDate  string  `json:"buyDate"` // YYYY-MM-DD

	CurrentValue float64 `json:"currentValue,omitempty"`
	MarketValue  float64 `json:"marketValue,omitempty"`
	Profit       float64 `json:"profit,omitempty"`
	ProfitRate   float64 `json:"profitRate,omitempty"`
}

// ApplyValuation fills the derived fields from a per-unit NAV.
// Decimal arithmetic avoids binary-float drift on the share*nav products.
func (p *FundPosition) ApplyValuation(nav float64) {
	shares := decimal.NewFromFloat(p.Shares)
	cost := decimal.NewFromFloat(p.Cost)
	unit := decimal.NewFromFloat(nav)

	market := shares.Mul(unit)
	profit := market.Sub(cost)

	p.CurrentValue = nav
	p.MarketValue, _ = market.Float64()
	p.Profit, _ = profit.Float64()
	if cost.IsPositive() {
		p.ProfitRate, _ = profit.Div(cost).Round(6).Float64()
	} else {
		p.ProfitRate = 0
	}
}

// PositionSummary aggregates a position list.
type PositionSummary struct {
	TotalAssets     float64 `json:"totalAssets"`
	TotalCost       float64 `json:"totalCost"`
	TotalProfit     float64 `json:"totalProfit"`
	TotalProfitRate float64 `json:"totalProfitRate"`
	PositionCount   int     `json:"positionCount"`
}

// Summarize computes the aggregate view over positions.
func Summarize(positions []FundPosition) PositionSummary {
	assets := decimal.Zero
	cost := decimal.Zero
	for _, p := range positions {
		assets = assets.Add(decimal.NewFromFloat(p.MarketValue))
		cost = cost.Add(decimal.NewFromFloat(p.Cost))
	}

	profit := assets.Sub(cost)
	summary := PositionSummary{PositionCount: len(positions)}
	summary.TotalAssets, _ = assets.Float64()
	summary.TotalCost, _ = cost.Float64()
	summary.TotalProfit, _ = profit.Float64()
	if cost.IsPositive() {
		summary.TotalProfitRate, _ = profit.Div(cost).Round(6).Float64()
	}
	return summary
}
