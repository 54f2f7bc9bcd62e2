package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcashman/savings-buckets/internal/models"
)

func TestHandleExport_UploadsSnapshot(t *testing.T) {
	mockStore := &MockStoreClient{}
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{Store: mockStore, Blob: mockBlob}

	mockStore.LoadLedgerFunc = func(ctx context.Context) (*models.SavingsData, error) {
		return fundedLedger(), nil
	}

	var uploadedBlob, uploadedContent string
	mockBlob.UploadTextFunc = func(ctx context.Context, containerName, blobName, content string) error {
		uploadedBlob, uploadedContent = blobName, content
		return nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/export", nil)
	w := httptest.NewRecorder()

	deps.HandleExport(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, snapshotBlobName, uploadedBlob)

	var snap models.Snapshot
	assert.NoError(t, json.Unmarshal([]byte(uploadedContent), &snap))
	assert.True(t, snap.TotalBalance.Equal(dec(100)))
	assert.True(t, snap.Buckets["Emergency"].Equal(dec(70)))
	assert.True(t, snap.Buckets["Travel"].Equal(dec(30)))
	assert.Len(t, snap.Transactions, 1)
	assert.Equal(t, models.KindDeposit, snap.Transactions[0].Type)
}

func TestHandleExport_UploadError(t *testing.T) {
	mockStore := &MockStoreClient{}
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{Store: mockStore, Blob: mockBlob}

	mockStore.LoadLedgerFunc = func(ctx context.Context) (*models.SavingsData, error) {
		return fundedLedger(), nil
	}
	mockBlob.UploadTextFunc = func(ctx context.Context, containerName, blobName, content string) error {
		return errors.New("container gone")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/export", nil)
	w := httptest.NewRecorder()

	deps.HandleExport(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
