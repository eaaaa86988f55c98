package handlers

import (
	"net/http"

	"ledger-server/src/logging"
	"ledger-server/src/models"
	"ledger-server/src/services"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type transactionBody struct {
	Amount   decimal.Decimal        `json:"amount"`
	Type     models.TransactionType `json:"type"`
	Category string                 `json:"category"`
	Sender   string                 `json:"sender"`
	Receiver string                 `json:"receiver"`
	Date     string                 `json:"date"`
	Note     string                 `json:"note"`
}

type transactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
	Account     *models.Account     `json:"account"`
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (models.TransactionInput, error) {
	var body transactionBody
	if err := decodeJSON(w, r, &body); err != nil {
		return models.TransactionInput{}, err
	}
	in := models.TransactionInput{
		Amount:   body.Amount,
		Type:     body.Type,
		Category: body.Category,
		Sender:   body.Sender,
		Receiver: body.Receiver,
		Note:     body.Note,
	}
	if body.Date != "" {
		date, err := parseDate(body.Date, false)
		if err != nil {
			return in, err
		}
		in.Date = &date
	}
	return in, nil
}

func RecordTransaction(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decodeTransaction(w, r)
		if err != nil {
			writeError(w, r, "failed to decode transaction request body", err)
			return
		}
		tx, account, err := ledger.RecordTransaction(r.Context(), userID(r), in)
		if err != nil {
			writeError(w, r, "failed to record transaction", err)
			return
		}
		logging.FromContext(r.Context()).Info("recorded transaction",
			"transaction_id", tx.ID, "type", tx.Type, "amount", tx.Amount.String())
		writeJSON(w, http.StatusCreated, transactionResponse{Transaction: tx, Account: account})
	}
}

func ListTransactions(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := models.TransactionFilter{
			Category: q.Get("category"),
			Type:     models.TransactionType(q.Get("type")),
		}
		if s := q.Get("startDate"); s != "" {
			start, err := parseDate(s, false)
			if err != nil {
				writeError(w, r, "invalid startDate", err)
				return
			}
			filter.Start = &start
		}
		if s := q.Get("endDate"); s != "" {
			end, err := parseDate(s, true)
			if err != nil {
				writeError(w, r, "invalid endDate", err)
				return
			}
			filter.End = &end
		}

		txs, err := ledger.ListTransactions(r.Context(), userID(r), filter)
		if err != nil {
			writeError(w, r, "failed to list transactions", err)
			return
		}
		writeJSON(w, http.StatusOK, txs)
	}
}

func GetTransaction(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tx, err := ledger.GetTransaction(r.Context(), userID(r), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, "failed to get transaction", err)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func UpdateTransaction(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		in, err := decodeTransaction(w, r)
		if err != nil {
			writeError(w, r, "failed to decode transaction request body", err)
			return
		}
		tx, account, err := ledger.UpdateTransaction(r.Context(), userID(r), id, in)
		if err != nil {
			writeError(w, r, "failed to update transaction", err)
			return
		}
		logging.FromContext(r.Context()).Info("updated transaction", "transaction_id", id)
		writeJSON(w, http.StatusOK, transactionResponse{Transaction: tx, Account: account})
	}
}

func DeleteTransaction(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		account, err := ledger.DeleteTransaction(r.Context(), userID(r), id)
		if err != nil {
			writeError(w, r, "failed to delete transaction", err)
			return
		}
		logging.FromContext(r.Context()).Info("deleted transaction", "transaction_id", id)
		writeJSON(w, http.StatusOK, map[string]any{"account": account})
	}
}
