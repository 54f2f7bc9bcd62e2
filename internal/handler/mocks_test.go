package handler

import (
	"context"

	"github.com/rcashman/savings-buckets/internal/models"
)

// MockStoreClient is a mock implementation of StoreClient
type MockStoreClient struct {
	LoadLedgerFunc func(ctx context.Context) (*models.SavingsData, error)
	SaveLedgerFunc func(ctx context.Context, data *models.SavingsData) error
}

func (m *MockStoreClient) LoadLedger(ctx context.Context) (*models.SavingsData, error) {
	if m.LoadLedgerFunc != nil {
		return m.LoadLedgerFunc(ctx)
	}
	return nil, nil
}

func (m *MockStoreClient) SaveLedger(ctx context.Context, data *models.SavingsData) error {
	if m.SaveLedgerFunc != nil {
		return m.SaveLedgerFunc(ctx, data)
	}
	return nil
}

// MockBlobClient is a mock implementation of BlobClient
type MockBlobClient struct {
	UploadTextFunc   func(ctx context.Context, containerName, blobName, content string) error
	DownloadTextFunc func(ctx context.Context, containerName, blobName string) (string, error)
}

func (m *MockBlobClient) UploadText(ctx context.Context, containerName, blobName, content string) error {
	if m.UploadTextFunc != nil {
		return m.UploadTextFunc(ctx, containerName, blobName, content)
	}
	return nil
}

func (m *MockBlobClient) DownloadText(ctx context.Context, containerName, blobName string) (string, error) {
	if m.DownloadTextFunc != nil {
		return m.DownloadTextFunc(ctx, containerName, blobName)
	}
	return "", nil
}

// MockQueueClient is a mock implementation of QueueClient
type MockQueueClient struct {
	EnqueueMessageFunc func(ctx context.Context, queueName string, message any) error
}

func (m *MockQueueClient) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	if m.EnqueueMessageFunc != nil {
		return m.EnqueueMessageFunc(ctx, queueName, message)
	}
	return nil
}
