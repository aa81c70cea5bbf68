package models

import "testing"

func TestApplyValuation(t *testing.T) {
	p := FundPosition{FundCode: "005911", Shares: 100, Cost: 200}
	p.ApplyValuation(2.5)

	if p.CurrentValue != 2.5 {
		t.Errorf("CurrentValue = %v", p.CurrentValue)
	}
	if p.MarketValue != 250 {
		t.Errorf("MarketValue = %v, want 250", p.MarketValue)
	}
	if p.Profit != 50 {
		t.Errorf("Profit = %v, want 50", p.Profit)
	}
	if p.ProfitRate != 0.25 {
		t.Errorf("ProfitRate = %v, want 0.25", p.ProfitRate)
	}
}

func TestApplyValuation_ZeroCost(t *testing.T) {
	p := FundPosition{Shares: 10, Cost: 0}
	p.ApplyValuation(1.5)
	if p.ProfitRate != 0 {
		t.Errorf("ProfitRate with zero cost = %v, want 0", p.ProfitRate)
	}
	if p.MarketValue != 15 {
		t.Errorf("MarketValue = %v, want 15", p.MarketValue)
	}
}

// binary-float share counts must not leak drift into the products
func TestApplyValuation_DecimalPrecision(t *testing.T) {
	p := FundPosition{Shares: 1234.56, Cost: 1000}
	p.ApplyValuation(0.1)
	if p.MarketValue != 123.456 {
		t.Errorf("MarketValue = %v, want 123.456", p.MarketValue)
	}
}

func TestSummarize(t *testing.T) {
	positions := []FundPosition{
		{MarketValue: 250, Cost: 200},
		{MarketValue: 150, Cost: 100},
	}
	summary := Summarize(positions)
	if summary.TotalAssets != 400 || summary.TotalCost != 300 || summary.TotalProfit != 100 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.PositionCount != 2 {
		t.Errorf("PositionCount = %d", summary.PositionCount)
	}

	empty := Summarize(nil)
	if empty.TotalProfitRate != 0 || empty.PositionCount != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}
