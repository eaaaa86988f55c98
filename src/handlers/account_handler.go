package handlers

import (
	"net/http"

	"ledger-server/src/services"
)

// GetAccount also serves account initialization: both create the account on
// first use and are safe to repeat.
func GetAccount(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := ledger.GetAccount(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, "failed to get account", err)
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}
