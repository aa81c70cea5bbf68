package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/fundwatch/internal/models"
	"github.com/bobmcallan/fundwatch/internal/services/fund"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// handleFundList handles GET /api/funds?page&pageSize.
func (s *Server) handleFundList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	page := QueryInt(r, "page", 1)
	pageSize := QueryInt(r, "pageSize", defaultPageSize)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	result, err := s.app.Funds.ListTracked(r.Context(), page, pageSize)
	if err != nil {
		if errors.Is(err, fund.ErrUniverseUnavailable) {
			WriteRetryableError(w, http.StatusBadGateway, "Fund list temporarily unavailable")
			return
		}
		s.logger.Error().Err(err).Msg("Fund list failed")
		WriteError(w, http.StatusInternalServerError, "Failed to list funds")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleFundSearch handles GET /api/funds/search?q=.
func (s *Server) handleFundSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	results, err := s.app.Funds.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, fund.ErrUniverseUnavailable) {
			WriteRetryableError(w, http.StatusBadGateway, "Fund search temporarily unavailable")
			return
		}
		s.logger.Error().Err(err).Msg("Fund search failed")
		WriteError(w, http.StatusInternalServerError, "Failed to search funds")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"list": results, "total": len(results)})
}

// routeFunds dispatches /api/funds/{code} and /api/funds/{code}/history.
func (s *Server) routeFunds(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/funds/")
	if strings.HasSuffix(rest, "/history") {
		s.handleFundHistory(w, r)
		return
	}
	s.handleFundDetail(w, r)
}

// handleFundDetail handles GET /api/funds/{code}?period=.
func (s *Server) handleFundDetail(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	code := PathParam(r, "/api/funds/", "")
	if !models.ValidFundCode(code) {
		WriteError(w, http.StatusNotFound, "Unknown fund code")
		return
	}

	record, err := s.app.Funds.GetDetail(r.Context(), code, chartPeriod(r))
	if err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("Fund detail failed")
		WriteError(w, http.StatusInternalServerError, "Failed to load fund detail")
		return
	}
	WriteJSON(w, http.StatusOK, record)
}

// handleFundHistory handles GET /api/funds/{code}/history?period=.
func (s *Server) handleFundHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	code := PathParam(r, "/api/funds/", "/history")
	if !models.ValidFundCode(code) {
		WriteError(w, http.StatusNotFound, "Unknown fund code")
		return
	}

	points, err := s.app.Funds.GetHistory(r.Context(), code, chartPeriod(r))
	if err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("Fund history failed")
		WriteError(w, http.StatusInternalServerError, "Failed to load fund history")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"code": code, "points": points})
}

// handleBatchValuations handles POST /api/valuations/batch with {"codes":[...]}.
func (s *Server) handleBatchValuations(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Codes []string `json:"codes"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Codes) == 0 {
		WriteError(w, http.StatusBadRequest, "codes is required")
		return
	}

	valuations, err := s.app.Funds.BatchValuations(r.Context(), req.Codes)
	if err != nil {
		s.logger.Error().Err(err).Msg("Batch valuations failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch valuations")
		return
	}
	WriteJSON(w, http.StatusOK, valuations)
}

// chartPeriod reads the period query parameter, defaulting to "all".
func chartPeriod(r *http.Request) models.ChartPeriod {
	period := models.ChartPeriod(r.URL.Query().Get("period"))
	if !period.Valid() {
		return models.PeriodAll
	}
	return period
}
