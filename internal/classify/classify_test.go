package classify

import (
	"testing"

	"github.com/bobmcallan/fundwatch/internal/models"
)

func TestFundType(t *testing.T) {
	tests := []struct {
		name string
		want models.TypeTag
	}{
		{"天弘沪深300ETF联接", models.TypeIndex},
		{"招商中证白酒指数", models.TypeIndex},
		{"易方达消费行业", models.TypeStock},
		{"中欧时代先锋股票", models.TypeStock},
		{"博时信用债券", models.TypeBond},
		{"广发双擎升级混合", models.TypeMixed},
		{"银华鑫盛灵活", models.TypeMixed},
		{"", models.TypeMixed},
		// index keywords outrank equity keywords
		{"科技创新ETF", models.TypeIndex},
	}
	for _, tt := range tests {
		if got := FundType(tt.name); got != tt.want {
			t.Errorf("FundType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		typeTag models.TypeTag
		name    string
		want    int
	}{
		{models.TypeIndex, "天弘沪深300ETF联接", 4},
		{models.TypeMixed, "广发双擎升级混合", 3},
		{models.TypeBond, "博时纯债", 2},
		{models.TypeStock, "易方达消费精选", 4},
		{models.TypeMixed, "华宝现金宝货币", 1},
		// money-market term wins over a later equity term
		{models.TypeStock, "货币科技", 1},
		// no keyword: fall back to the type table
		{models.TypeBond, "某某某", 2},
		{models.TypeStock, "某某某", 4},
		{models.TypeIndex, "某某某", 4},
		{models.TypeMixed, "某某某", 3},
		{models.TypeTag("unknown"), "某某某", 3},
	}
	for _, tt := range tests {
		if got := RiskLevel(tt.typeTag, tt.name); got != tt.want {
			t.Errorf("RiskLevel(%q, %q) = %d, want %d", tt.typeTag, tt.name, got, tt.want)
		}
	}
}

func TestCompanyName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"广发双擎升级混合", "广发基金"},
		{"天弘沪深300ETF联接", "天弘基金"},
		{"易方达消费行业", "易方达基金"},
		{"汇添富价值精选", "汇添富基金"},
		{"某无名基金", UnknownCompany},
		{"", UnknownCompany},
	}
	for _, tt := range tests {
		if got := CompanyName(tt.name); got != tt.want {
			t.Errorf("CompanyName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestClassificationIsDeterministic(t *testing.T) {
	name := "招商中证白酒指数"
	first := FundType(name)
	for i := 0; i < 100; i++ {
		if got := FundType(name); got != first {
			t.Fatalf("FundType flapped: %q then %q", first, got)
		}
	}
}
