// Package history re-derives the chronological balance series from the
// transaction log alone. It shares the per-kind delta semantics with the
// live ledger, but recomputes every total from scratch so the two paths can
// be checked against each other.
package history

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcashman/savings-buckets/internal/currency"
	"github.com/rcashman/savings-buckets/internal/models"
)

// Point is one step of the derived series: the balances immediately after
// the transaction dated Date was applied.
type Point struct {
	Date           time.Time                  `json:"date"`
	TotalBalance   decimal.Decimal            `json:"totalBalance"`
	BucketBalances map[string]decimal.Decimal `json:"bucketBalances"`
}

// BucketPoint is one bucket's balance at a historical point.
type BucketPoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// Reconstruct replays the transaction log in chronological order and emits
// one point per transaction. The input order does not matter: transactions
// are stably sorted by date first. Buckets are tracked by every name the
// log ever references, starting from zero; live buckets no transaction
// touches do not appear.
func Reconstruct(transactions []models.Transaction) []Point {
	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	balances := make(map[string]decimal.Decimal)
	for _, tx := range sorted {
		for _, name := range referencedBuckets(tx) {
			balances[name] = decimal.Zero
		}
	}

	points := make([]Point, 0, len(sorted))
	for _, tx := range sorted {
		apply(balances, tx)

		total := decimal.Zero
		snapshot := make(map[string]decimal.Decimal, len(balances))
		for name, bal := range balances {
			snapshot[name] = bal
			total = total.Add(bal)
		}

		points = append(points, Point{
			Date:           tx.Date,
			TotalBalance:   currency.RoundToCents(total),
			BucketBalances: snapshot,
		})
	}
	return points
}

func referencedBuckets(tx models.Transaction) []string {
	switch d := tx.Detail.(type) {
	case models.Deposit:
		names := make([]string, 0, len(d.Allocations))
		for name := range d.Allocations {
			names = append(names, name)
		}
		return names
	case models.Withdrawal:
		names := make([]string, 0, len(d.Impact))
		for name := range d.Impact {
			names = append(names, name)
		}
		return names
	case models.BucketWithdrawal:
		return []string{d.Bucket}
	case models.Reallocation:
		return []string{d.FromBucket, d.ToBucket}
	}
	return nil
}

func apply(balances map[string]decimal.Decimal, tx models.Transaction) {
	switch d := tx.Detail.(type) {
	case models.Deposit:
		for name, amt := range d.Allocations {
			balances[name] = currency.Add(balances[name], amt)
		}
	case models.Withdrawal:
		for name, amt := range d.Impact {
			balances[name] = currency.Sub(balances[name], amt)
		}
	case models.BucketWithdrawal:
		balances[d.Bucket] = currency.Sub(balances[d.Bucket], tx.Amount)
	case models.Reallocation:
		balances[d.FromBucket] = currency.Sub(balances[d.FromBucket], tx.Amount)
		balances[d.ToBucket] = currency.Add(balances[d.ToBucket], tx.Amount)
	}
}

// BucketHistory projects one bucket's balance out of the series, zero for
// points where the bucket had no balance yet.
func BucketHistory(points []Point, name string) []BucketPoint {
	out := make([]BucketPoint, len(points))
	for i, p := range points {
		bal, ok := p.BucketBalances[name]
		if !ok {
			bal = decimal.Zero
		}
		out[i] = BucketPoint{Date: p.Date, Balance: bal}
	}
	return out
}
