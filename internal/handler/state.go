package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/rcashman/savings-buckets/internal/bootstrap"
	"github.com/rcashman/savings-buckets/internal/history"
	"github.com/rcashman/savings-buckets/internal/ledger"
	"github.com/rcashman/savings-buckets/internal/models"
)

const (
	snapshotBlobName = "savings_data.json"
	configBlobName   = "savings_config.json"
)

func bootstrapContainer() string {
	if c := os.Getenv("BOOTSTRAP_CONTAINER"); c != "" {
		return c
	}
	return "bootstrap"
}

// loadState resolves the aggregate by strict priority: prior saved state if
// it exists and parses, then the bootstrap snapshot, then an empty ledger.
// It never fails the caller over malformed sources.
func (d *Dependencies) loadState(ctx context.Context) (*models.SavingsData, error) {
	data, err := d.Store.LoadLedger(ctx)
	if err != nil {
		return nil, err
	}
	if data != nil {
		return data, nil
	}

	data = d.loadBootstrap(ctx)
	if data == nil {
		slog.Info("no saved state and no bootstrap snapshot, starting empty")
		return models.NewSavingsData(), nil
	}

	// Persist the translated bootstrap so later loads skip this path.
	if err := d.Store.SaveLedger(ctx, data); err != nil {
		slog.Warn("failed to persist bootstrapped ledger", "error", err)
	}
	return data, nil
}

func (d *Dependencies) loadBootstrap(ctx context.Context) *models.SavingsData {
	container := bootstrapContainer()

	text, err := d.Blob.DownloadText(ctx, container, snapshotBlobName)
	if err != nil {
		slog.Info("bootstrap snapshot unavailable", "container", container, "error", err)
		return nil
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(text), &snap); err != nil {
		slog.Warn("bootstrap snapshot unparseable, ignoring", "container", container, "error", err)
		return nil
	}

	var cfg *models.BootstrapConfig
	if cfgText, err := d.Blob.DownloadText(ctx, container, configBlobName); err == nil {
		var parsed models.BootstrapConfig
		if err := json.Unmarshal([]byte(cfgText), &parsed); err != nil {
			slog.Warn("bootstrap config unparseable, using defaults", "error", err)
		} else {
			cfg = &parsed
		}
	}

	data := bootstrap.Translate(&snap, cfg)
	slog.Info("bootstrapped ledger from snapshot",
		"buckets", len(data.Buckets),
		"transactions", len(data.Transactions),
		"config_present", cfg != nil,
	)
	return data
}

// stateResponse is the published engine state the UI reads.
type stateResponse struct {
	Data           *models.SavingsData `json:"data"`
	HistoricalData []history.Point     `json:"historicalData"`
}

// HandleState serves the aggregate plus the derived historical series.
func (d *Dependencies) HandleState(w http.ResponseWriter, r *http.Request) {
	data, err := d.loadState(r.Context())
	if err != nil {
		slog.Error("failed to load ledger state", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load state: "+err.Error())
		return
	}

	if sum := ledger.AllocationSum(data.Buckets); len(data.Buckets) > 0 && sum != 100 {
		slog.Warn("bucket allocations do not sum to 100", "allocation_sum", sum)
	}

	WriteJSON(w, http.StatusOK, stateResponse{
		Data:           data,
		HistoricalData: history.Reconstruct(data.Transactions),
	})
}
