// Package models defines the domain records for Fundwatch
package models

import "regexp"

// TypeTag classifies a fund by its dominant asset mix.
type TypeTag string

const (
	TypeStock TypeTag = "gp" // equity-heavy
	TypeBond  TypeTag = "zq" // bond-heavy
	TypeMixed TypeTag = "hh" // mixed allocation
	TypeIndex TypeTag = "zs" // index / ETF feeder
)

// fundCodePattern matches the 6-digit fund code format.
var fundCodePattern = regexp.MustCompile(`^\d{6}$`)

// ValidFundCode reports whether code is a well-formed 6-digit fund code.
func ValidFundCode(code string) bool {
	return fundCodePattern.MatchString(code)
}

// RealTimeValuation is the normalized snapshot from the intraday estimate
// endpoint. Estimate fields are nil when the upstream omits them (e.g. for
// funds without intraday estimation).
type RealTimeValuation struct {
	Code                   string   `json:"code"`
	Name                   string   `json:"name"`
	NavDate                string   `json:"navDate"` // date of last confirmed NAV, YYYY-MM-DD
	UnitNav                float64  `json:"unitNav"`
	EstimateNav            *float64 `json:"estimateNav,omitempty"`
	EstimateChangeFraction *float64 `json:"estimateChangeFraction,omitempty"` // 0.0161 == +1.61%
	EstimateTime           string   `json:"estimateTime,omitempty"`
}

// BestNav returns the intraday estimate when present, otherwise the last
// confirmed unit NAV.
func (v *RealTimeValuation) BestNav() float64 {
	if v.EstimateNav != nil && *v.EstimateNav > 0 {
		return *v.EstimateNav
	}
	return v.UnitNav
}

// HistoricalPoint is one day of the NAV series.
type HistoricalPoint struct {
	Time     string  `json:"time"` // YYYY-MM-DD
	NavValue float64 `json:"navValue"`
	Change   float64 `json:"change"` // day-over-day delta, 0 for the first point
}

// StaticInfo holds the best-effort scraped fund facts. Any field may be
// empty when the upstream payload doesn't carry it.
type StaticInfo struct {
	Manager       string `json:"manager,omitempty"`
	Scale         string `json:"scale,omitempty"`
	EstablishDate string `json:"establishDate,omitempty"`
}

// Empty reports whether no field was resolved.
func (s *StaticInfo) Empty() bool {
	return s.Manager == "" && s.Scale == "" && s.EstablishDate == ""
}

// FundListItem is the normalized record for list display.
// Code uniquely identifies one item within a list snapshot.
type FundListItem struct {
	Code                   string   `json:"code"`
	Name                   string   `json:"name"`
	Type                   TypeTag  `json:"type"`
	UnitValue              float64  `json:"unitValue"`
	EstimateValue          *float64 `json:"estimateValue,omitempty"`
	EstimateChangeFraction *float64 `json:"estimateChangeFraction,omitempty"`
	EstimateTime           string   `json:"estimateTime,omitempty"`
	DayGrowthRate          *float64 `json:"dayGrowthRate,omitempty"` // unknown unless derivable
	Tags                   []string `json:"tags,omitempty"`
	ReturnAfterAddition    *float64 `json:"returnAfterAddition,omitempty"` // set only for held funds
	DurationDays           int      `json:"durationDays,omitempty"`        // days since position buy date
}

// PerformanceMetrics are derived purely from a NAV series.
// Ratio fields are rounded to 2 decimals, fraction fields to 4.
type PerformanceMetrics struct {
	SharpeRatio      float64 `json:"sharpeRatio"`
	MaxDrawdown      float64 `json:"maxDrawdown"` // fraction, >= 0
	Volatility       float64 `json:"volatility"`  // annualized fraction
	AnnualizedReturn float64 `json:"annualizedReturn"`
}

// FundDetailRecord is the assembled detail view for one fund.
type FundDetailRecord struct {
	Code               string             `json:"code"`
	Name               string             `json:"name"`
	Type               TypeTag            `json:"type"`
	Company            string             `json:"company"`
	RiskLevel          int                `json:"riskLevel"` // 1..5
	EstablishDate      string             `json:"establishDate,omitempty"`
	Manager            string             `json:"manager,omitempty"`
	Scale              string             `json:"scale,omitempty"`
	CurrentValue       *RealTimeValuation `json:"currentValue,omitempty"`
	ChartData          []HistoricalPoint  `json:"chartData"`
	PerformanceMetrics PerformanceMetrics `json:"performanceMetrics"`
}

// ChartPeriod selects the lookback window for the NAV chart.
type ChartPeriod string

const (
	Period1D  ChartPeriod = "1d"
	Period5D  ChartPeriod = "5d"
	Period1M  ChartPeriod = "1m"
	Period3M  ChartPeriod = "3m"
	Period6M  ChartPeriod = "6m"
	Period1Y  ChartPeriod = "1y"
	PeriodAll ChartPeriod = "all"
)

// Valid reports whether p is a known chart period.
func (p ChartPeriod) Valid() bool {
	switch p {
	case Period1D, Period5D, Period1M, Period3M, Period6M, Period1Y, PeriodAll:
		return true
	}
	return false
}
