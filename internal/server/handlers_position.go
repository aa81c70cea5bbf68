package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/fundwatch/internal/models"
	"github.com/bobmcallan/fundwatch/internal/services/position"
)

// handlePositions handles GET/POST/DELETE /api/positions.
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handlePositionList(w, r)
	case http.MethodPost:
		s.handlePositionAdd(w, r)
	case http.MethodDelete:
		s.handlePositionClear(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) handlePositionList(w http.ResponseWriter, r *http.Request) {
	positions, err := s.app.Positions.List(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Position list failed")
		WriteError(w, http.StatusInternalServerError, "Failed to list positions")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"list": positions, "total": len(positions)})
}

func (s *Server) handlePositionAdd(w http.ResponseWriter, r *http.Request) {
	var req models.FundPosition
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.Positions.Add(r.Context(), req); err != nil {
		if errors.Is(err, position.ErrInvalidCode) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("code", req.FundCode).Msg("Position add failed")
		WriteError(w, http.StatusInternalServerError, "Failed to save position")
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

func (s *Server) handlePositionClear(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Positions.Clear(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("Position clear failed")
		WriteError(w, http.StatusInternalServerError, "Failed to clear positions")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handlePositionSummary handles GET /api/positions/summary.
func (s *Server) handlePositionSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.Positions.Summary(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Position summary failed")
		WriteError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// routePositions dispatches PUT/DELETE /api/positions/{code}.
func (s *Server) routePositions(w http.ResponseWriter, r *http.Request) {
	code := PathParam(r, "/api/positions/", "")
	if !models.ValidFundCode(code) {
		WriteError(w, http.StatusNotFound, "Unknown fund code")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handlePositionUpdate(w, r, code)
	case http.MethodDelete:
		s.handlePositionDelete(w, r, code)
	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handlePositionUpdate(w http.ResponseWriter, r *http.Request, code string) {
	var req struct {
		Shares  *float64 `json:"shares"`
		Cost    *float64 `json:"cost"`
		BuyDate string   `json:"buyDate"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.Positions.Update(r.Context(), code, req.Shares, req.Cost, req.BuyDate); err != nil {
		if errors.Is(err, position.ErrPositionNotFound) {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("code", code).Msg("Position update failed")
		WriteError(w, http.StatusInternalServerError, "Failed to update position")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handlePositionDelete(w http.ResponseWriter, r *http.Request, code string) {
	if err := s.app.Positions.Delete(r.Context(), code); err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("Position delete failed")
		WriteError(w, http.StatusInternalServerError, "Failed to delete position")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
