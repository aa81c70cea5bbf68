package position

import (
	"context"
	"errors"
	"testing"

	"github.com/bobmcallan/fundwatch/internal/common"
	"github.com/bobmcallan/fundwatch/internal/models"
)

type mockStore struct {
	positions []models.FundPosition
	loadErr   error
}

func (m *mockStore) GetPositions(ctx context.Context) ([]models.FundPosition, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]models.FundPosition(nil), m.positions...), nil
}

func (m *mockStore) SavePositions(ctx context.Context, positions []models.FundPosition) error {
	m.positions = positions
	return nil
}

func (m *mockStore) DeletePositions(ctx context.Context) error {
	m.positions = nil
	return nil
}

// mockFundService stubs only the batch valuation path used by positions.
type mockFundService struct {
	valuations map[string]models.RealTimeValuation
	err        error
}

func (m *mockFundService) ListTracked(ctx context.Context, page, pageSize int) (*models.FundPage, error) {
	return nil, errors.New("not implemented")
}

func (m *mockFundService) Search(ctx context.Context, keyword string) ([]models.FundListItem, error) {
	return nil, errors.New("not implemented")
}

func (m *mockFundService) BatchValuations(ctx context.Context, codes []string) (map[string]models.RealTimeValuation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.valuations, nil
}

func (m *mockFundService) GetDetail(ctx context.Context, code string, period models.ChartPeriod) (*models.FundDetailRecord, error) {
	return nil, errors.New("not implemented")
}

func (m *mockFundService) GetHistory(ctx context.Context, code string, period models.ChartPeriod) ([]models.HistoricalPoint, error) {
	return nil, errors.New("not implemented")
}

func (m *mockFundService) RefreshTracked(ctx context.Context) error {
	return errors.New("not implemented")
}

func floatPtr(v float64) *float64 { return &v }

func estimatedValuation(code string, estimate float64) models.RealTimeValuation {
	return models.RealTimeValuation{Code: code, UnitNav: estimate - 0.1, EstimateNav: floatPtr(estimate)}
}

func TestList_CombinesValuations(t *testing.T) {
	store := &mockStore{positions: []models.FundPosition{
		{FundCode: "005911", Shares: 100, Cost: 200, BuyDate: "2024-02-20"},
		{FundCode: "110022", Shares: 50, Cost: 160},
	}}
	funds := &mockFundService{valuations: map[string]models.RealTimeValuation{
		"005911": estimatedValuation("005911", 2.5),
		// 110022 unresolved: derived fields stay zero
	}}
	svc := NewService(store, funds, common.NewSilentLogger())

	positions, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(positions))
	}

	valued := positions[0]
	if valued.CurrentValue != 2.5 || valued.MarketValue != 250 {
		t.Errorf("valued = %+v, want currentValue 2.5, marketValue 250", valued)
	}
	if valued.Profit != 50 || valued.ProfitRate != 0.25 {
		t.Errorf("valued = %+v, want profit 50, profitRate 0.25", valued)
	}

	unresolved := positions[1]
	if unresolved.MarketValue != 0 || unresolved.ProfitRate != 0 {
		t.Errorf("unresolved position carries derived fields: %+v", unresolved)
	}
}

func TestAdd_MergesExisting(t *testing.T) {
	store := &mockStore{positions: []models.FundPosition{
		{FundCode: "005911", FundName: "广发双擎升级混合", Shares: 100, Cost: 200, BuyDate: "2024-01-10"},
	}}
	svc := NewService(store, nil, common.NewSilentLogger())

	err := svc.Add(context.Background(), models.FundPosition{
		FundCode: "005911", Shares: 40, Cost: 100, BuyDate: "2024-02-20",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.positions) != 1 {
		t.Fatalf("got %d positions, want 1 merged", len(store.positions))
	}
	merged := store.positions[0]
	if merged.Shares != 140 || merged.Cost != 300 {
		t.Errorf("merged = %+v, want shares 140, cost 300", merged)
	}
	if merged.BuyDate != "2024-02-20" {
		t.Errorf("BuyDate = %q, want latest", merged.BuyDate)
	}
	if merged.FundName != "广发双擎升级混合" {
		t.Errorf("FundName = %q", merged.FundName)
	}
}

func TestAdd_NewPosition(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store, nil, common.NewSilentLogger())

	if err := svc.Add(context.Background(), models.FundPosition{FundCode: "110022", Shares: 10, Cost: 30}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.positions) != 1 || store.positions[0].FundCode != "110022" {
		t.Errorf("positions = %+v", store.positions)
	}
}

func TestAdd_InvalidCode(t *testing.T) {
	svc := NewService(&mockStore{}, nil, common.NewSilentLogger())
	err := svc.Add(context.Background(), models.FundPosition{FundCode: "12ab"})
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
}

func TestUpdate(t *testing.T) {
	store := &mockStore{positions: []models.FundPosition{
		{FundCode: "005911", Shares: 100, Cost: 200, BuyDate: "2024-01-10"},
	}}
	svc := NewService(store, nil, common.NewSilentLogger())

	if err := svc.Update(context.Background(), "005911", floatPtr(80), nil, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := store.positions[0]
	if got.Shares != 80 || got.Cost != 200 || got.BuyDate != "2024-01-10" {
		t.Errorf("patched = %+v, want only shares changed", got)
	}

	err := svc.Update(context.Background(), "999999", floatPtr(1), nil, "")
	if !errors.Is(err, ErrPositionNotFound) {
		t.Fatalf("err = %v, want ErrPositionNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	store := &mockStore{positions: []models.FundPosition{
		{FundCode: "005911"}, {FundCode: "110022"},
	}}
	svc := NewService(store, nil, common.NewSilentLogger())

	if err := svc.Delete(context.Background(), "005911"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.positions) != 1 || store.positions[0].FundCode != "110022" {
		t.Errorf("positions = %+v", store.positions)
	}

	// absent code is a no-op
	if err := svc.Delete(context.Background(), "888888"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSummary(t *testing.T) {
	store := &mockStore{positions: []models.FundPosition{
		{FundCode: "005911", Shares: 100, Cost: 200},
		{FundCode: "110022", Shares: 50, Cost: 100},
	}}
	funds := &mockFundService{valuations: map[string]models.RealTimeValuation{
		"005911": estimatedValuation("005911", 2.5), // market 250
		"110022": estimatedValuation("110022", 3.0), // market 150
	}}
	svc := NewService(store, funds, common.NewSilentLogger())

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalAssets != 400 || summary.TotalCost != 300 {
		t.Errorf("summary = %+v, want assets 400, cost 300", summary)
	}
	if summary.TotalProfit != 100 || summary.PositionCount != 2 {
		t.Errorf("summary = %+v, want profit 100, count 2", summary)
	}
	if diff := summary.TotalProfitRate - 1.0/3; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("TotalProfitRate = %v, want ~0.333333", summary.TotalProfitRate)
	}
}
