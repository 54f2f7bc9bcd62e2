package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"github.com/rcashman/savings-buckets/internal/currency"
	"github.com/rcashman/savings-buckets/internal/models"
)

const (
	ledgerPartition = "LEDGER"
	summaryRowKey   = "SUMMARY"
	bucketRowPrefix = "BUCKET_"
	txnRowPrefix    = "TXN_"
)

// StoreService persists the savings aggregate in Azure Table Storage as one
// logical record: a SUMMARY row, one row per bucket and one row per
// transaction, all in a single partition.
type StoreService struct {
	serviceClient *aztables.ServiceClient
	ledgerTable   string
}

// NewStoreService creates a StoreService from environment configuration.
func NewStoreService() (*StoreService, error) {
	tableURL := os.Getenv("TABLE_SERVICE_URL")
	if tableURL == "" {
		return nil, fmt.Errorf("TABLE_SERVICE_URL environment variable is required")
	}

	ledgerTable := os.Getenv("LEDGER_TABLE")
	if ledgerTable == "" {
		ledgerTable = "ledger"
	}

	var client *aztables.ServiceClient

	if isLocal(tableURL) {
		slog.Info("using Azurite credentials for store service")
		name, key := azuriteCredentials()
		cred, err := aztables.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = aztables.NewServiceClientWithSharedKey(tableURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err)
		}
	} else {
		slog.Info("using default Azure credentials for store service")
		cred, err := defaultCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = aztables.NewServiceClient(tableURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err)
		}
	}

	svc := &StoreService{serviceClient: client, ledgerTable: ledgerTable}

	if err := svc.createTable(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create ledger table: %w", err)
	}

	slog.Info("store service initialized", "table_url", tableURL, "ledger_table", ledgerTable)
	return svc, nil
}

func (s *StoreService) createTable(ctx context.Context) error {
	_, err := s.serviceClient.CreateTable(ctx, s.ledgerTable, nil)
	if err != nil {
		var azErr *azcore.ResponseError
		if errors.As(err, &azErr) && azErr.ErrorCode == "TableAlreadyExists" {
			return nil
		}
		return err
	}
	return nil
}

func (s *StoreService) client() *aztables.Client {
	return s.serviceClient.NewClient(s.ledgerTable)
}

// LoadLedger reads the persisted aggregate. It returns (nil, nil) when no
// prior state exists, so callers can fall back to bootstrap data.
func (s *StoreService) LoadLedger(ctx context.Context) (*models.SavingsData, error) {
	filter := fmt.Sprintf("PartitionKey eq '%s'", ledgerPartition)
	pager := s.client().NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})

	data := models.NewSavingsData()
	found := false

	type orderedBucket struct {
		bucket   models.Bucket
		position int
	}
	var buckets []orderedBucket

	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list ledger entities: %w", err)
		}

		for _, entity := range resp.Entities {
			var parsed map[string]any
			if err := json.Unmarshal(entity, &parsed); err != nil {
				continue
			}

			rowKey, _ := parsed["RowKey"].(string)
			switch {
			case rowKey == summaryRowKey:
				found = true
				if v, ok := parsed["TotalBalance"].(float64); ok {
					data.TotalBalance = currency.FromFloat(v)
				}

			case strings.HasPrefix(rowKey, bucketRowPrefix):
				b := models.Bucket{
					ID:    strings.TrimPrefix(rowKey, bucketRowPrefix),
					Name:  str(parsed, "Name"),
					Color: str(parsed, "Color"),
				}
				if v, ok := parsed["Balance"].(float64); ok {
					b.Balance = currency.FromFloat(v)
				}
				if v, ok := parsed["Allocation"].(float64); ok {
					b.Allocation = v
				}
				if v, ok := parsed["Goal"].(float64); ok {
					b.Goal = currency.FromFloat(v)
				}
				pos := 0
				if v, ok := parsed["Position"].(float64); ok {
					pos = int(v)
				}
				buckets = append(buckets, orderedBucket{bucket: b, position: pos})

			case strings.HasPrefix(rowKey, txnRowPrefix):
				var tx models.Transaction
				if err := json.Unmarshal([]byte(str(parsed, "Payload")), &tx); err != nil {
					slog.Warn("skipping unreadable transaction row", "row_key", rowKey, "error", err)
					continue
				}
				data.Transactions = append(data.Transactions, tx)
			}
		}
	}

	if !found {
		return nil, nil
	}

	// Buckets keep insertion order; transactions are stored newest first.
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].position < buckets[j].position })
	for _, ob := range buckets {
		data.Buckets = append(data.Buckets, ob.bucket)
	}
	sort.SliceStable(data.Transactions, func(i, j int) bool {
		return data.Transactions[i].Date.After(data.Transactions[j].Date)
	})

	slog.Info("loaded ledger", "buckets", len(data.Buckets), "transactions", len(data.Transactions))
	return data, nil
}

// SaveLedger writes the aggregate back, upserting every current row and
// deleting rows for buckets or transactions that no longer exist.
func (s *StoreService) SaveLedger(ctx context.Context, data *models.SavingsData) error {
	client := s.client()

	// Collect existing row keys to detect deletions.
	filter := fmt.Sprintf("PartitionKey eq '%s'", ledgerPartition)
	selectFields := "RowKey"
	pager := client.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
		Select: &selectFields,
	})

	existing := make(map[string]bool)
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list existing entities: %w", err)
		}
		for _, entity := range resp.Entities {
			var parsed map[string]any
			if err := json.Unmarshal(entity, &parsed); err != nil {
				continue
			}
			if rk, ok := parsed["RowKey"].(string); ok && rk != summaryRowKey {
				existing[rk] = true
			}
		}
	}

	var batch []aztables.TransactionAction
	current := make(map[string]bool)

	addUpsert := func(entity map[string]any) {
		raw, _ := json.Marshal(entity)
		batch = append(batch, aztables.TransactionAction{
			ActionType: aztables.TransactionTypeInsertReplace,
			Entity:     raw,
		})
	}

	addUpsert(map[string]any{
		"PartitionKey": ledgerPartition,
		"RowKey":       summaryRowKey,
		"TotalBalance": data.TotalBalance.InexactFloat64(),
	})

	for i, b := range data.Buckets {
		rowKey := bucketRowPrefix + b.ID
		current[rowKey] = true
		addUpsert(map[string]any{
			"PartitionKey": ledgerPartition,
			"RowKey":       rowKey,
			"Name":         b.Name,
			"Balance":      b.Balance.InexactFloat64(),
			"Allocation":   b.Allocation,
			"Color":        b.Color,
			"Goal":         b.Goal.InexactFloat64(),
			"Position":     i,
		})
	}

	for _, tx := range data.Transactions {
		rowKey := txnRowPrefix + tx.ID
		current[rowKey] = true
		payload, err := json.Marshal(tx)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction %s: %w", tx.ID, err)
		}
		addUpsert(map[string]any{
			"PartitionKey": ledgerPartition,
			"RowKey":       rowKey,
			"Date":         tx.Date.UTC().Format(time.RFC3339Nano),
			"Payload":      string(payload),
		})
	}

	for rk := range existing {
		if !current[rk] {
			raw, _ := json.Marshal(map[string]any{
				"PartitionKey": ledgerPartition,
				"RowKey":       rk,
			})
			batch = append(batch, aztables.TransactionAction{
				ActionType: aztables.TransactionTypeDelete,
				Entity:     raw,
			})
		}
	}

	// Table batches are limited to 100 operations.
	const batchSize = 100
	for i := 0; i < len(batch); i += batchSize {
		end := min(i+batchSize, len(batch))
		if _, err := client.SubmitTransaction(ctx, batch[i:end], nil); err != nil {
			return fmt.Errorf("failed to submit ledger batch %d-%d: %w", i, end, err)
		}
	}

	slog.Info("saved ledger", "buckets", len(data.Buckets), "transactions", len(data.Transactions))
	return nil
}

func str(parsed map[string]any, key string) string {
	if v, ok := parsed[key].(string); ok {
		return v
	}
	return ""
}
