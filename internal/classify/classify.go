// Package classify infers a fund's category, risk tier, and management
// company from its display name. The upstream endpoints don't supply these
// directly, so classification is a keyword scan over the name in a fixed
// priority order. All functions are pure and total.
package classify

import (
	"strings"

	"github.com/bobmcallan/fundwatch/internal/models"
)

// Keyword tables are ordered slices, not maps: ties resolve by declared
// priority, and longest-match-first for company names.

var indexKeywords = []string{"指数", "ETF", "联接", "沪深300", "中证", "上证", "创业板指"}

var equityKeywords = []string{"股票", "成长", "行业", "精选", "先锋", "创新", "科技", "消费", "医疗", "新能源"}

var bondKeywords = []string{"债券", "债", "纯债", "双债", "信用债", "可转债"}

// FundType infers the category tag from the display name.
// Priority: index/ETF, then equity/growth, then bond, default mixed.
func FundType(name string) models.TypeTag {
	for _, kw := range indexKeywords {
		if strings.Contains(name, kw) {
			return models.TypeIndex
		}
	}
	for _, kw := range equityKeywords {
		if strings.Contains(name, kw) {
			return models.TypeStock
		}
	}
	for _, kw := range bondKeywords {
		if strings.Contains(name, kw) {
			return models.TypeBond
		}
	}
	return models.TypeMixed
}

// riskKeywords maps name fragments to risk levels, scanned in order.
// Lower-risk terms come first so a "货币债券" style name resolves to the
// safest matching tier.
var riskKeywords = []struct {
	level    int
	keywords []string
}{
	{1, []string{"货币", "现金", "理财", "存单"}},
	{2, []string{"债券", "纯债", "双债", "短债"}},
	{3, []string{"混合", "平衡", "配置", "回报"}},
	{4, []string{"股票", "成长", "科技", "医疗", "消费", "新能源", "主题"}},
	{4, []string{"指数", "ETF", "联接"}},
}

// typeRiskLevels is the fallback when no name keyword matches.
var typeRiskLevels = map[models.TypeTag]int{
	models.TypeBond:  2,
	models.TypeMixed: 3,
	models.TypeStock: 4,
	models.TypeIndex: 4,
}

// RiskLevel estimates the 1-5 risk tier. Name keywords take priority over
// the type-based fallback table; unknown types land on 3.
func RiskLevel(typeTag models.TypeTag, name string) int {
	for _, group := range riskKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(name, kw) {
				return group.level
			}
		}
	}
	if level, ok := typeRiskLevels[typeTag]; ok {
		return level
	}
	return 3
}

// UnknownCompany is the placeholder when no company fragment matches.
const UnknownCompany = "其他基金公司"

// companyFragments is scanned longest-first so "华夏回报" style prefixes
// can't be shadowed by shorter fragments.
var companyFragments = []struct {
	fragment string
	company  string
}{
	{"易方达", "易方达基金"},
	{"天弘", "天弘基金"},
	{"华夏", "华夏基金"},
	{"广发", "广发基金"},
	{"招商", "招商基金"},
	{"南方", "南方基金"},
	{"嘉实", "嘉实基金"},
	{"博时", "博时基金"},
	{"银华", "银华基金"},
	{"中欧", "中欧基金"},
	{"富国", "富国基金"},
	{"汇添富", "汇添富基金"},
	{"工银", "工银瑞信基金"},
	{"建信", "建信基金"},
	{"鹏华", "鹏华基金"},
	{"兴全", "兴证全球基金"},
	{"交银", "交银施罗德基金"},
	{"国泰", "国泰基金"},
	{"华安", "华安基金"},
	{"景顺", "景顺长城基金"},
}

// CompanyName infers the fund company from the display name, preferring the
// longest matching fragment. Falls back to a generic placeholder.
func CompanyName(name string) string {
	best := ""
	company := UnknownCompany
	for _, entry := range companyFragments {
		if strings.Contains(name, entry.fragment) && len(entry.fragment) > len(best) {
			best = entry.fragment
			company = entry.company
		}
	}
	return company
}
