package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rcashman/savings-buckets/internal/history"
	"github.com/rcashman/savings-buckets/internal/ledger"
	"github.com/rcashman/savings-buckets/internal/models"
)

// HandleTransactions handles GET (history) and POST (record) requests.
func (d *Dependencies) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		d.listTransactions(w, r)
	case http.MethodPost:
		d.addTransaction(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (d *Dependencies) listTransactions(w http.ResponseWriter, r *http.Request) {
	data, err := d.loadState(r.Context())
	if err != nil {
		slog.Error("failed to load ledger for transaction list", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load transactions: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, data.Transactions)
}

func (d *Dependencies) addTransaction(w http.ResponseWriter, r *http.Request) {
	var draft models.TransactionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		slog.Warn("invalid transaction request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	data, err := d.loadState(r.Context())
	if err != nil {
		slog.Error("failed to load ledger", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load state: "+err.Error())
		return
	}

	if err := ledger.Validate(data, draft); err != nil {
		slog.Warn("rejected transaction", "amount", draft.Amount.String(), "error", err)
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx := ledger.Record(data, draft)

	if err := d.Store.SaveLedger(r.Context(), data); err != nil {
		slog.Error("failed to save ledger", "transaction_id", tx.ID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to save state: "+err.Error())
		return
	}

	slog.Info("recorded transaction",
		"transaction_id", tx.ID,
		"kind", tx.Kind(),
		"amount", tx.Amount.String(),
		"total_balance", data.TotalBalance.String(),
	)
	WriteJSON(w, http.StatusOK, stateResponse{
		Data:           data,
		HistoricalData: history.Reconstruct(data.Transactions),
	})
}
