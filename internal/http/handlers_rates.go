package http

import (
	"net/http"

	"moneta/internal/core"
)

func (s *Server) handleGetRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.finance.GetRates(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rates == nil {
		rates = core.RateTable{}
	}
	writeJSON(w, http.StatusOK, rates)
}

func (s *Server) handleSaveRates(w http.ResponseWriter, r *http.Request) {
	var rates core.RateTable
	if err := decodeJSON(r, &rates); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.finance.SaveRates(r.Context(), rates); err != nil {
		writeError(w, r, err)
		return
	}
	s.reports.Invalidate()
	writeJSON(w, http.StatusOK, rates)
}
