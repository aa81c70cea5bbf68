package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/bobmcallan/fundwatch/internal/app"
	"github.com/bobmcallan/fundwatch/internal/common"
	"github.com/bobmcallan/fundwatch/internal/models"
	"github.com/bobmcallan/fundwatch/internal/services/position"
	"github.com/bobmcallan/fundwatch/internal/storage"
)

// stubFundService serves canned pipeline results to the handlers.
type stubFundService struct {
	page       *models.FundPage
	searchHits []models.FundListItem
	valuations map[string]models.RealTimeValuation
	detail     *models.FundDetailRecord
	history    []models.HistoricalPoint
	listErr    error
	detailErr  error
}

func (s *stubFundService) ListTracked(ctx context.Context, page, pageSize int) (*models.FundPage, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.page, nil
}

func (s *stubFundService) Search(ctx context.Context, keyword string) ([]models.FundListItem, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.searchHits, nil
}

func (s *stubFundService) BatchValuations(ctx context.Context, codes []string) (map[string]models.RealTimeValuation, error) {
	return s.valuations, nil
}

func (s *stubFundService) GetDetail(ctx context.Context, code string, period models.ChartPeriod) (*models.FundDetailRecord, error) {
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return s.detail, nil
}

func (s *stubFundService) GetHistory(ctx context.Context, code string, period models.ChartPeriod) ([]models.HistoricalPoint, error) {
	return s.history, nil
}

func (s *stubFundService) RefreshTracked(ctx context.Context) error {
	return errors.New("not implemented")
}

// newTestServer builds a server over the real position service and file
// store (in a temp dir) with a stubbed fund pipeline.
func newTestServer(t *testing.T, funds *stubFundService) *Server {
	t.Helper()

	logger := common.NewSilentLogger()
	store, err := storage.NewFileStore(logger, &common.StorageConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	a := &app.App{
		Config:      common.NewDefaultConfig(),
		Logger:      logger,
		Storage:     store,
		Funds:       funds,
		Positions:   position.NewService(store, funds, logger),
		StartupTime: time.Now(),
	}
	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(data)
}
