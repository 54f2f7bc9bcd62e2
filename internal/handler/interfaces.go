package handler

import (
	"context"

	"github.com/rcashman/savings-buckets/internal/models"
)

// StoreClient defines the persisted-aggregate operations used by handlers.
// LoadLedger returns (nil, nil) when no prior saved state exists.
type StoreClient interface {
	LoadLedger(ctx context.Context) (*models.SavingsData, error)
	SaveLedger(ctx context.Context, data *models.SavingsData) error
}

// BlobClient defines the blob storage operations used by handlers.
type BlobClient interface {
	UploadText(ctx context.Context, containerName, blobName, content string) error
	DownloadText(ctx context.Context, containerName, blobName string) (string, error)
}

// QueueClient defines the queue operations used by handlers.
type QueueClient interface {
	EnqueueMessage(ctx context.Context, queueName string, message any) error
}
