package handler

import (
	"log/slog"
	"net/http"

	"github.com/rcashman/savings-buckets/internal/history"
)

// HandleHistory serves the reconstructed balance series. With a bucket
// query parameter it projects that single bucket's series instead.
func (d *Dependencies) HandleHistory(w http.ResponseWriter, r *http.Request) {
	data, err := d.loadState(r.Context())
	if err != nil {
		slog.Error("failed to load ledger for history", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load state: "+err.Error())
		return
	}

	points := history.Reconstruct(data.Transactions)

	if bucket := r.URL.Query().Get("bucket"); bucket != "" {
		WriteJSON(w, http.StatusOK, history.BucketHistory(points, bucket))
		return
	}
	WriteJSON(w, http.StatusOK, points)
}
