package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fundwatch/internal/models"
	"github.com/bobmcallan/fundwatch/internal/services/fund"
)

func trackedPage() *models.FundPage {
	return &models.FundPage{
		List: []models.FundListItem{
			{Code: "005911", Name: "广发双擎升级混合", Type: models.TypeMixed, UnitValue: 2.4},
			{Code: "110022", Name: "易方达消费行业股票", Type: models.TypeStock, UnitValue: 3.1},
		},
		PageMeta: models.PageMeta{Total: 2, Page: 1, PageSize: 10, TotalPages: 1},
	}
}

func TestHandleFundList(t *testing.T) {
	srv := newTestServer(t, &stubFundService{page: trackedPage()})

	req := httptest.NewRequest(http.MethodGet, "/api/funds?page=1&pageSize=10", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.FundPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.List, 2)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "005911", resp.List[0].Code)
}

func TestHandleFundList_UniverseDown(t *testing.T) {
	srv := newTestServer(t, &stubFundService{listErr: fund.ErrUniverseUnavailable})

	req := httptest.NewRequest(http.MethodGet, "/api/funds", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Retryable, "total upstream failure must carry the retry affordance")
}

func TestHandleFundSearch(t *testing.T) {
	srv := newTestServer(t, &stubFundService{searchHits: trackedPage().List[:1]})

	req := httptest.NewRequest(http.MethodGet, "/api/funds/search?q=广发", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		List  []models.FundListItem `json:"list"`
		Total int                   `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Total)
}

func TestHandleFundDetail(t *testing.T) {
	srv := newTestServer(t, &stubFundService{detail: &models.FundDetailRecord{
		Code: "005911", Name: "广发双擎升级混合", Type: models.TypeMixed,
		Company: "广发基金", RiskLevel: 3,
		ChartData: []models.HistoricalPoint{{Time: "2024-03-01", NavValue: 2.4}},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/funds/005911?period=1m", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.FundDetailRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "广发基金", resp.Company)
	assert.Equal(t, 3, resp.RiskLevel)
	assert.Len(t, resp.ChartData, 1)
}

func TestHandleFundDetail_BadCode(t *testing.T) {
	srv := newTestServer(t, &stubFundService{})

	// malformed codes 404 without touching the pipeline
	for _, path := range []string{"/api/funds/12345", "/api/funds/abcdef"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestHandleFundHistory(t *testing.T) {
	srv := newTestServer(t, &stubFundService{history: []models.HistoricalPoint{
		{Time: "2024-02-29", NavValue: 2.35},
		{Time: "2024-03-01", NavValue: 2.40, Change: 0.05},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/funds/005911/history?period=5d", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Code   string                   `json:"code"`
		Points []models.HistoricalPoint `json:"points"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "005911", resp.Code)
	assert.Len(t, resp.Points, 2)
}

func TestHandleBatchValuations(t *testing.T) {
	srv := newTestServer(t, &stubFundService{valuations: map[string]models.RealTimeValuation{
		"005911": {Code: "005911", UnitNav: 2.4},
	}})

	body := jsonBody(t, map[string][]string{"codes": {"005911", "999999"}})
	req := httptest.NewRequest(http.MethodPost, "/api/valuations/batch", body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]models.RealTimeValuation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 1)
	assert.NotContains(t, resp, "999999")
}

func TestHandleBatchValuations_EmptyCodes(t *testing.T) {
	srv := newTestServer(t, &stubFundService{})

	body := jsonBody(t, map[string][]string{"codes": {}})
	req := httptest.NewRequest(http.MethodPost, "/api/valuations/batch", body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &stubFundService{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubFundService{})

	req := httptest.NewRequest(http.MethodPost, "/api/funds", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodGet)
}
