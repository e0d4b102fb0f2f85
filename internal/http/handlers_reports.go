package http

import (
	"net/http"

	"moneta/internal/core"
)

func (s *Server) handlePortfolioReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Portfolio(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Budgets(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// reportPeriod reads the period query parameter, defaulting to the month
// view.
func reportPeriod(r *http.Request) string {
	if p := r.URL.Query().Get("period"); p != "" {
		return p
	}
	return core.AdviceMonth
}

func (s *Server) handleSummaryReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Summary(r.Context(), reportPeriod(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleAdviceReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Advice(r.Context(), reportPeriod(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleGoalReport(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.reports.GoalStatuses(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}
