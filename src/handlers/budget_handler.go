package handlers

import (
	"net/http"

	"ledger-server/src/logging"
	"ledger-server/src/services"

	"github.com/shopspring/decimal"
)

type limitBody struct {
	MonthlyLimit *decimal.Decimal `json:"monthly_limit"`
}

func GetLimit(budgets *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := budgets.GetLimit(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, "failed to get monthly limit", err)
			return
		}
		writeJSON(w, http.StatusOK, limitBody{MonthlyLimit: limit})
	}
}

func SetLimit(budgets *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req limitBody
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, "failed to decode limit request body", err)
			return
		}
		if req.MonthlyLimit == nil {
			writeMessage(w, http.StatusBadRequest, "monthly_limit is required")
			return
		}
		goal, err := budgets.SetLimit(r.Context(), userID(r), *req.MonthlyLimit)
		if err != nil {
			writeError(w, r, "failed to set monthly limit", err)
			return
		}
		logging.FromContext(r.Context()).Info("set monthly limit", "monthly_limit", goal.MonthlyLimit.String())
		writeJSON(w, http.StatusOK, goal)
	}
}
