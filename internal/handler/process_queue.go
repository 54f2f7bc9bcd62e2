package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rcashman/savings-buckets/internal/ledger"
	"github.com/rcashman/savings-buckets/internal/models"
)

// invokeRequest is the payload the Functions host posts for queue triggers.
type invokeRequest struct {
	Data     map[string]any `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// ProcessQueue handles the queue trigger for staged import batches: it
// downloads the batch, replays every valid draft through the ledger and
// persists the result.
func (d *Dependencies) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read queue request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var invokeReq invokeRequest
	if err := json.Unmarshal(bodyBytes, &invokeReq); err != nil {
		slog.Error("failed to unmarshal queue request", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to unmarshal request")
		return
	}

	queueItemVal, ok := invokeReq.Data["queueItem"]
	if !ok {
		if queueItemVal, ok = invokeReq.Data["queueitem"]; !ok {
			WriteError(w, http.StatusBadRequest, "Missing queueItem in Data")
			return
		}
	}
	queueItemStr, ok := queueItemVal.(string)
	if !ok {
		WriteError(w, http.StatusBadRequest, "queueItem is not a string")
		return
	}

	var queueData map[string]string
	if err := json.Unmarshal([]byte(queueItemStr), &queueData); err != nil {
		slog.Error("failed to unmarshal queueItem", "error", err)
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid queueItem JSON: %v", err))
		return
	}

	blobName := queueData["blob_name"]
	if blobName == "" {
		slog.Warn("queue message missing blob_name", "queue_data", queueData)
		WriteError(w, http.StatusBadRequest, "Missing blob_name")
		return
	}

	slog.Info("processing import batch", "blob_name", blobName)

	batchText, err := d.Blob.DownloadText(r.Context(), importContainer, blobName)
	if err != nil {
		slog.Error("failed to download import batch", "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to download batch: %v", err))
		return
	}

	var drafts []models.TransactionDraft
	if err := json.Unmarshal([]byte(batchText), &drafts); err != nil {
		slog.Warn("import batch unparseable, consuming message", "blob_name", blobName, "error", err)
		// Consume the message so it doesn't retry forever.
		w.WriteHeader(http.StatusOK)
		return
	}

	data, err := d.loadState(r.Context())
	if err != nil {
		slog.Error("failed to load ledger for import", "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load state: %v", err))
		return
	}

	applied, skipped := 0, 0
	for i, draft := range drafts {
		if err := ledger.Validate(data, draft); err != nil {
			slog.Warn("skipping invalid draft in batch", "blob_name", blobName, "index", i, "error", err)
			skipped++
			continue
		}
		ledger.Record(data, draft)
		applied++
	}

	if applied > 0 {
		if err := d.Store.SaveLedger(r.Context(), data); err != nil {
			slog.Error("failed to save ledger after import", "blob_name", blobName, "error", err)
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save state: %v", err))
			return
		}
	}

	slog.Info("import batch processed",
		"blob_name", blobName,
		"applied", applied,
		"skipped", skipped,
		"total_balance", data.TotalBalance.String(),
	)
	w.WriteHeader(http.StatusOK)
}
