package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcashman/savings-buckets/internal/models"
)

// queueInvokeBody wraps a queue message the way the Functions host does.
func queueInvokeBody(t *testing.T, blobName string) string {
	t.Helper()
	item, err := json.Marshal(map[string]string{"blob_name": blobName})
	assert.NoError(t, err)
	envelope, err := json.Marshal(map[string]any{
		"Data":     map[string]any{"queueItem": string(item)},
		"Metadata": map[string]any{},
	})
	assert.NoError(t, err)
	return string(envelope)
}

func TestProcessQueue_AppliesBatch(t *testing.T) {
	mockStore := &MockStoreClient{}
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{Store: mockStore, Blob: mockBlob}

	mockStore.LoadLedgerFunc = func(ctx context.Context) (*models.SavingsData, error) {
		return fundedLedger(), nil
	}
	var saved *models.SavingsData
	mockStore.SaveLedgerFunc = func(ctx context.Context, data *models.SavingsData) error {
		saved = data
		return nil
	}
	mockBlob.DownloadTextFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		assert.Equal(t, importContainer, containerName)
		assert.Equal(t, "batches/test.json", blobName)
		return `[
			{"type": "deposit", "amount": 40, "allocations": {"Emergency": 20, "Travel": 20}},
			{"type": "bucket_withdrawal", "amount": 10, "bucket": "Travel"}
		]`, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/ProcessQueue",
		strings.NewReader(queueInvokeBody(t, "batches/test.json")))
	w := httptest.NewRecorder()

	deps.ProcessQueue(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, saved)
	assert.True(t, saved.TotalBalance.Equal(dec(130)))
	assert.True(t, saved.BucketByName("Emergency").Balance.Equal(dec(90)))
	assert.True(t, saved.BucketByName("Travel").Balance.Equal(dec(40)))
	assert.Len(t, saved.Transactions, 3)
}

func TestProcessQueue_SkipsInvalidDrafts(t *testing.T) {
	mockStore := &MockStoreClient{}
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{Store: mockStore, Blob: mockBlob}

	mockStore.LoadLedgerFunc = func(ctx context.Context) (*models.SavingsData, error) {
		return fundedLedger(), nil
	}
	var saved *models.SavingsData
	mockStore.SaveLedgerFunc = func(ctx context.Context, data *models.SavingsData) error {
		saved = data
		return nil
	}
	mockBlob.DownloadTextFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return `[
			{"type": "bucket_withdrawal", "amount": 9999, "bucket": "Travel"},
			{"type": "deposit", "amount": 10, "allocations": {"Emergency": 10}}
		]`, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/ProcessQueue",
		strings.NewReader(queueInvokeBody(t, "batches/test.json")))
	w := httptest.NewRecorder()

	deps.ProcessQueue(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, saved)
	assert.True(t, saved.TotalBalance.Equal(dec(110)), "only the valid draft should apply")
	assert.Len(t, saved.Transactions, 2)
}

func TestProcessQueue_ConsumesUnparseableBatch(t *testing.T) {
	mockStore := &MockStoreClient{}
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{Store: mockStore, Blob: mockBlob}

	mockStore.SaveLedgerFunc = func(ctx context.Context, data *models.SavingsData) error {
		t.Fatal("nothing should be saved for an unparseable batch")
		return nil
	}
	mockBlob.DownloadTextFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return "[{broken", nil
	}

	req := httptest.NewRequest(http.MethodPost, "/ProcessQueue",
		strings.NewReader(queueInvokeBody(t, "batches/bad.json")))
	w := httptest.NewRecorder()

	deps.ProcessQueue(w, req)

	// 200 so the host deletes the poison message instead of retrying.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProcessQueue_LowercaseQueueItemKey(t *testing.T) {
	mockStore := &MockStoreClient{}
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{Store: mockStore, Blob: mockBlob}

	mockStore.LoadLedgerFunc = func(ctx context.Context) (*models.SavingsData, error) {
		return fundedLedger(), nil
	}
	mockBlob.DownloadTextFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return `[{"type": "deposit", "amount": 1, "allocations": {"Emergency": 1}}]`, nil
	}

	item, _ := json.Marshal(map[string]string{"blob_name": "batches/x.json"})
	envelope, _ := json.Marshal(map[string]any{
		"Data": map[string]any{"queueitem": string(item)},
	})

	req := httptest.NewRequest(http.MethodPost, "/ProcessQueue", strings.NewReader(string(envelope)))
	w := httptest.NewRecorder()

	deps.ProcessQueue(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProcessQueue_MissingQueueItem(t *testing.T) {
	deps := &Dependencies{Store: &MockStoreClient{}, Blob: &MockBlobClient{}}

	req := httptest.NewRequest(http.MethodPost, "/ProcessQueue",
		strings.NewReader(`{"Data": {}, "Metadata": {}}`))
	w := httptest.NewRecorder()

	deps.ProcessQueue(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
