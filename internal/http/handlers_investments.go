package http

import (
	"net/http"

	"moneta/internal/core"
)

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	lots, err := s.finance.ListInvestments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if lots == nil {
		lots = []core.Investment{}
	}
	writeJSON(w, http.StatusOK, lots)
}

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	var inv core.Investment
	if err := decodeJSON(r, &inv); err != nil {
		writeError(w, r, err)
		return
	}
	inv.ID = ""
	inv.Name = sanitize(inv.Name)

	created, err := s.finance.CreateInvestment(r.Context(), inv)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.reports.Invalidate()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetInvestment(w http.ResponseWriter, r *http.Request) {
	inv, err := s.finance.GetInvestment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleUpdateInvestment(w http.ResponseWriter, r *http.Request) {
	var inv core.Investment
	if err := decodeJSON(r, &inv); err != nil {
		writeError(w, r, err)
		return
	}
	inv.ID = r.PathValue("id")
	inv.Name = sanitize(inv.Name)

	if err := s.finance.UpdateInvestment(r.Context(), inv); err != nil {
		writeError(w, r, err)
		return
	}
	s.reports.Invalidate()
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	if err := s.finance.DeleteInvestment(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.reports.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}
