// Package cleandata normalizes snapshot files to exact cents: every bucket
// balance, transaction amount and split value is rounded, and the stored
// total is recomputed from the rounded buckets. The pass is idempotent.
package cleandata

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rcashman/savings-buckets/internal/currency"
	"github.com/rcashman/savings-buckets/internal/models"
)

// Change records one field that the cleanup rewrote.
type Change struct {
	Field  string
	Before decimal.Decimal
	After  decimal.Decimal
}

// Report summarizes a cleanup pass over one snapshot.
type Report struct {
	Changes    []Change
	BucketSum  decimal.Decimal // sum of bucket balances after cleanup
	Total      decimal.Decimal // stored total after cleanup
	Reconciled bool            // BucketSum == Total
}

// Clean rounds every monetary field of the snapshot in place and recomputes
// the total balance from the rounded bucket balances. It returns a report
// of every field it changed plus the final reconciliation verdict.
func Clean(snap *models.Snapshot) Report {
	var report Report

	record := func(field string, v decimal.Decimal) decimal.Decimal {
		rounded := currency.RoundToCents(v)
		if !rounded.Equal(v) {
			report.Changes = append(report.Changes, Change{Field: field, Before: v, After: rounded})
		}
		return rounded
	}

	for _, name := range sortedKeys(snap.Buckets) {
		snap.Buckets[name] = record("buckets."+name, snap.Buckets[name])
	}

	for i := range snap.Transactions {
		tx := &snap.Transactions[i]
		prefix := fmt.Sprintf("transactions[%d]", i)

		tx.Amount = record(prefix+".amount", tx.Amount)
		for _, name := range sortedKeys(tx.Allocations) {
			tx.Allocations[name] = record(prefix+".allocations."+name, tx.Allocations[name])
		}
		for _, name := range sortedKeys(tx.Impact) {
			tx.Impact[name] = record(prefix+".impact."+name, tx.Impact[name])
		}
	}

	sum := decimal.Zero
	for _, bal := range snap.Buckets {
		sum = sum.Add(bal)
	}
	sum = currency.RoundToCents(sum)
	if !sum.Equal(snap.TotalBalance) {
		report.Changes = append(report.Changes, Change{
			Field:  "total_balance",
			Before: snap.TotalBalance,
			After:  sum,
		})
	}
	snap.TotalBalance = sum

	report.BucketSum = sum
	report.Total = snap.TotalBalance
	report.Reconciled = report.BucketSum.Equal(report.Total)
	return report
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
