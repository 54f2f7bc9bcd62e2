package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
)

// QueueService decouples batch imports from their processing: the import
// endpoint enqueues a message, and the Functions host delivers it to the
// queue trigger.
type QueueService struct {
	serviceClient *azqueue.ServiceClient
}

// NewQueueService creates a QueueService from environment configuration.
func NewQueueService() (*QueueService, error) {
	queueURL := os.Getenv("QUEUE_SERVICE_URL")
	if queueURL == "" {
		return nil, fmt.Errorf("QUEUE_SERVICE_URL environment variable is required")
	}

	var client *azqueue.ServiceClient

	if isLocal(queueURL) {
		slog.Info("using Azurite credentials for queue service")
		name, key := azuriteCredentials()
		cred, err := azqueue.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azqueue.NewServiceClientWithSharedKeyCredential(queueURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client with shared key: %w", err)
		}
	} else {
		slog.Info("using default Azure credentials for queue service")
		cred, err := defaultCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = azqueue.NewServiceClient(queueURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client: %w", err)
		}
	}

	slog.Info("queue service initialized", "queue_url", queueURL)
	return &QueueService{serviceClient: client}, nil
}

// EnqueueMessage adds a JSON message to a queue, base64 encoded as the
// Functions host expects.
func (s *QueueService) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	queueClient := s.serviceClient.NewQueueClient(queueName)

	_, err := queueClient.Create(ctx, nil)
	if err != nil && !strings.Contains(err.Error(), "QueueAlreadyExists") {
		slog.Warn("failed to create queue", "queue", queueName, "error", err)
	}

	msgBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(msgBytes)
	if _, err := queueClient.EnqueueMessage(ctx, encoded, nil); err != nil {
		return fmt.Errorf("failed to enqueue message to %s: %w", queueName, err)
	}

	slog.Info("enqueued message", "queue", queueName, "size_bytes", len(msgBytes))
	return nil
}
