package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rcashman/savings-buckets/internal/ledger"
)

// HandlePreview computes what a deposit or a general withdrawal would do to
// each bucket, without committing anything. The UI shows these splits
// before the user confirms.
func (d *Dependencies) HandlePreview(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	amountStr := r.URL.Query().Get("amount")
	if amountStr == "" {
		WriteError(w, http.StatusBadRequest, "amount parameter is required")
		return
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil || !amount.IsPositive() {
		WriteError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	data, err := d.loadState(r.Context())
	if err != nil {
		slog.Error("failed to load ledger for preview", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load state: "+err.Error())
		return
	}

	switch kind {
	case "deposit":
		WriteJSON(w, http.StatusOK, map[string]any{
			"allocations": ledger.DepositSplit(data.Buckets, amount),
		})
	case "withdrawal":
		WriteJSON(w, http.StatusOK, map[string]any{
			"impact": ledger.WithdrawalSplit(data, amount),
		})
	default:
		WriteError(w, http.StatusBadRequest, "type must be deposit or withdrawal")
	}
}
