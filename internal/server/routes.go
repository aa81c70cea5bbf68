package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Funds
	mux.HandleFunc("/api/funds", s.handleFundList)
	mux.HandleFunc("/api/funds/search", s.handleFundSearch)
	mux.HandleFunc("/api/funds/", s.routeFunds)
	mux.HandleFunc("/api/valuations/batch", s.handleBatchValuations)

	// Positions
	mux.HandleFunc("/api/positions", s.handlePositions)
	mux.HandleFunc("/api/positions/summary", s.handlePositionSummary)
	mux.HandleFunc("/api/positions/", s.routePositions)
}
