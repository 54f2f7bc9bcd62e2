package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rcashman/savings-buckets/internal/models"
)

const (
	importContainer = "imports"
	importQueue     = "import-queue"
)

// HandleImport accepts a JSON array of transaction drafts, stages it in
// blob storage and enqueues it for processing.
func (d *Dependencies) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read import body", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to read request body")
		return
	}

	// Reject batches that don't even parse before staging them.
	var drafts []models.TransactionDraft
	if err := json.Unmarshal(body, &drafts); err != nil {
		slog.Warn("invalid import batch", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid batch: "+err.Error())
		return
	}
	if len(drafts) == 0 {
		WriteError(w, http.StatusBadRequest, "Empty batch")
		return
	}

	blobName := fmt.Sprintf("batches/%s.json", time.Now().UTC().Format("20060102-150405.000"))
	if err := d.Blob.UploadText(r.Context(), importContainer, blobName, string(body)); err != nil {
		slog.Error("failed to stage import batch", "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to upload batch: "+err.Error())
		return
	}

	msg := map[string]string{"blob_name": blobName}
	if err := d.Queue.EnqueueMessage(r.Context(), importQueue, msg); err != nil {
		slog.Error("failed to enqueue import batch", "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to enqueue batch: "+err.Error())
		return
	}

	slog.Info("staged import batch", "blob_name", blobName, "drafts", len(drafts))
	WriteJSON(w, http.StatusOK, map[string]any{"status": "queued", "count": len(drafts)})
}
