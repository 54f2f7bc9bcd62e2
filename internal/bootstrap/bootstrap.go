// Package bootstrap translates between the external snake_case snapshot
// format and the internal aggregate: Translate loads a snapshot when no
// prior saved state exists, Export produces one from live state.
package bootstrap

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcashman/savings-buckets/internal/currency"
	"github.com/rcashman/savings-buckets/internal/models"
)

// DefaultAllocation is assumed for snapshot buckets the config does not
// mention.
const DefaultAllocation = 10.0

// Translate converts a snapshot (and an optional config) into the internal
// aggregate: fresh ids, wheel-spread colors, default allocations and goals,
// overridden by the config where present. Transactions with unparseable
// dates are skipped rather than failing the whole load.
func Translate(snap *models.Snapshot, cfg *models.BootstrapConfig) *models.SavingsData {
	data := models.NewSavingsData()
	data.TotalBalance = currency.RoundToCents(snap.TotalBalance)

	names := make([]string, 0, len(snap.Buckets))
	for name := range snap.Buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		allocation := DefaultAllocation
		if cfg != nil {
			if a, ok := cfg.Allocations[name]; ok {
				allocation = a
			}
		}

		goal := models.DefaultGoal(allocation)
		if cfg != nil {
			if g, ok := cfg.Goals[name]; ok {
				goal = g
			}
		}

		data.Buckets = append(data.Buckets, models.Bucket{
			ID:         uuid.NewString(),
			Name:       name,
			Balance:    currency.RoundToCents(snap.Buckets[name]),
			Allocation: allocation,
			Color:      fmt.Sprintf("hsl(%d, 70%%, 60%%)", i*360/len(names)),
			Goal:       goal,
		})
	}

	for _, st := range snap.Transactions {
		date, err := models.ParseDate(st.Date)
		if err != nil {
			slog.Warn("skipping snapshot transaction with bad date", "date", st.Date, "type", st.Type)
			continue
		}
		detail, err := st.Detail()
		if err != nil {
			slog.Warn("skipping snapshot transaction", "date", st.Date, "error", err)
			continue
		}
		data.Transactions = append(data.Transactions, models.Transaction{
			ID:     uuid.NewString(),
			Date:   date,
			Amount: currency.RoundToCents(st.Amount),
			Detail: detail,
		})
	}

	return data
}

// Export renders the aggregate back into the snapshot file format. Ids,
// colors, allocations and goals have no place in that format and are
// dropped; a later Translate regenerates them.
func Export(data *models.SavingsData) *models.Snapshot {
	snap := &models.Snapshot{
		TotalBalance: data.TotalBalance,
		Buckets:      make(map[string]decimal.Decimal, len(data.Buckets)),
		Transactions: make([]models.SnapshotTransaction, 0, len(data.Transactions)),
	}
	for _, b := range data.Buckets {
		snap.Buckets[b.Name] = b.Balance
	}

	for _, tx := range data.Transactions {
		st := models.SnapshotTransaction{
			Date:   tx.Date.UTC().Format(time.RFC3339),
			Type:   tx.Kind(),
			Amount: tx.Amount,
		}
		switch d := tx.Detail.(type) {
		case models.Deposit:
			st.Allocations = d.Allocations
		case models.Withdrawal:
			st.Impact = d.Impact
		case models.BucketWithdrawal:
			st.Bucket = d.Bucket
		case models.Reallocation:
			st.FromBucket = d.FromBucket
			st.ToBucket = d.ToBucket
		}
		snap.Transactions = append(snap.Transactions, st)
	}
	return snap
}
