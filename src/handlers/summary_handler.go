package handlers

import (
	"net/http"

	"ledger-server/src/models"
	"ledger-server/src/services"
)

func BudgetSummary(summary *services.SummaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := summary.BudgetCheck(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, "failed to compute budget summary", err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func CategorySummary(summary *services.SummaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := models.TransactionType(r.URL.Query().Get("type"))
		totals, err := summary.CategoryTotals(r.Context(), userID(r), typ)
		if err != nil {
			writeError(w, r, "failed to compute category summary", err)
			return
		}
		writeJSON(w, http.StatusOK, totals)
	}
}

func CategoryMonthlySummary(summary *services.SummaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		totals, err := summary.CategoryMonthly(r.Context(), userID(r), models.TransactionType(q.Get("type")), q.Get("month"))
		if err != nil {
			writeError(w, r, "failed to compute monthly category summary", err)
			return
		}
		writeJSON(w, http.StatusOK, totals)
	}
}

func MonthlySummary(summary *services.SummaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trend, err := summary.MonthlyTrend(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, "failed to compute monthly trend", err)
			return
		}
		writeJSON(w, http.StatusOK, trend)
	}
}

func DashboardSummary(summary *services.SummaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := summary.Dashboard(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, "failed to compute dashboard", err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}
