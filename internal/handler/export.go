package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rcashman/savings-buckets/internal/bootstrap"
)

// HandleExport writes the current state back to the bootstrap container in
// the snapshot file format. The uploaded file is what the cleanup utility
// operates on and what a fresh deployment bootstraps from.
func (d *Dependencies) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := d.loadState(r.Context())
	if err != nil {
		slog.Error("failed to load ledger for export", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load state: "+err.Error())
		return
	}

	snap := bootstrap.Export(data)
	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		slog.Error("failed to encode snapshot", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to encode snapshot")
		return
	}

	container := bootstrapContainer()
	if err := d.Blob.UploadText(r.Context(), container, snapshotBlobName, string(out)); err != nil {
		slog.Error("failed to upload snapshot", "container", container, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to upload snapshot: "+err.Error())
		return
	}

	slog.Info("exported snapshot",
		"container", container,
		"blob_name", snapshotBlobName,
		"buckets", len(snap.Buckets),
		"transactions", len(snap.Transactions),
	)
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "exported",
		"blob_name": snapshotBlobName,
	})
}
