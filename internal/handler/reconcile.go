package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rcashman/savings-buckets/internal/history"
)

// reconcileReport compares the three views of the total: the stored value,
// the sum of live bucket balances, and the final point of the reconstructed
// series.
type reconcileReport struct {
	TotalBalance       decimal.Decimal `json:"totalBalance"`
	BucketSum          decimal.Decimal `json:"bucketSum"`
	ReconstructedTotal decimal.Decimal `json:"reconstructedTotal"`
	StoredDrift        decimal.Decimal `json:"storedDrift"`  // totalBalance - bucketSum
	HistoryDrift       decimal.Decimal `json:"historyDrift"` // totalBalance - reconstructedTotal
	Reconciled         bool            `json:"reconciled"`
}

// HandleNightlyTrigger runs the scheduled reconciliation check. Drift is
// reported and logged, never auto-corrected; the cleanup utility is the
// only thing allowed to rewrite balances.
func (d *Dependencies) HandleNightlyTrigger(w http.ResponseWriter, r *http.Request) {
	slog.Info("starting nightly reconciliation check")

	data, err := d.loadState(r.Context())
	if err != nil {
		slog.Error("failed to load ledger for reconciliation", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load state: "+err.Error())
		return
	}

	report := reconcileReport{
		TotalBalance:       data.TotalBalance,
		BucketSum:          data.BucketSum(),
		ReconstructedTotal: decimal.Zero,
	}
	if points := history.Reconstruct(data.Transactions); len(points) > 0 {
		report.ReconstructedTotal = points[len(points)-1].TotalBalance
	}
	report.StoredDrift = report.TotalBalance.Sub(report.BucketSum)
	report.HistoryDrift = report.TotalBalance.Sub(report.ReconstructedTotal)
	report.Reconciled = report.StoredDrift.IsZero() && report.HistoryDrift.IsZero()

	if report.Reconciled {
		slog.Info("ledger reconciled", "total_balance", report.TotalBalance.String())
	} else {
		slog.Warn("ledger drift detected",
			"total_balance", report.TotalBalance.String(),
			"bucket_sum", report.BucketSum.String(),
			"reconstructed_total", report.ReconstructedTotal.String(),
			"stored_drift", report.StoredDrift.String(),
			"history_drift", report.HistoryDrift.String(),
		)
	}

	WriteJSON(w, http.StatusOK, report)
}
