package models

import "testing"

func TestValidFundCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"005911", true},
		{"000001", true},
		{"12345", false},
		{"1234567", false},
		{"abc123", false},
		{"", false},
		{"005911 ", false},
	}
	for _, tt := range tests {
		if got := ValidFundCode(tt.code); got != tt.want {
			t.Errorf("ValidFundCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestBestNav(t *testing.T) {
	estimate := 2.5
	v := RealTimeValuation{UnitNav: 2.4, EstimateNav: &estimate}
	if got := v.BestNav(); got != 2.5 {
		t.Errorf("BestNav with estimate = %v, want 2.5", got)
	}

	v.EstimateNav = nil
	if got := v.BestNav(); got != 2.4 {
		t.Errorf("BestNav without estimate = %v, want 2.4", got)
	}

	zero := 0.0
	v.EstimateNav = &zero
	if got := v.BestNav(); got != 2.4 {
		t.Errorf("BestNav with zero estimate = %v, want unit NAV", got)
	}
}

func TestChartPeriodValid(t *testing.T) {
	for _, p := range []ChartPeriod{Period1D, Period5D, Period1M, Period3M, Period6M, Period1Y, PeriodAll} {
		if !p.Valid() {
			t.Errorf("%q reported invalid", p)
		}
	}
	if ChartPeriod("2w").Valid() {
		t.Error("unknown period reported valid")
	}
}
