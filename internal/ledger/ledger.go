// Package ledger is the transaction-application state machine. Apply is an
// unconditional reducer: it trusts its input and always performs the state
// transition. Validation is a separate, advisory pass (Validate) so callers
// can preview or test transitions independently of policy.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcashman/savings-buckets/internal/currency"
	"github.com/rcashman/savings-buckets/internal/models"
)

// AddBucket appends a new empty bucket and returns it. The total balance is
// untouched. Duplicate names are not rejected here; Validate flags them for
// callers that care.
func AddBucket(data *models.SavingsData, name string, allocation float64, goal decimal.Decimal) models.Bucket {
	b := models.NewBucket(name, allocation, goal)
	data.Buckets = append(data.Buckets, b)
	return b
}

// BucketUpdate is a partial bucket edit; nil fields are left unchanged.
type BucketUpdate struct {
	Name       *string          `json:"name,omitempty"`
	Allocation *float64         `json:"allocation,omitempty"`
	Color      *string          `json:"color,omitempty"`
	Goal       *decimal.Decimal `json:"goal,omitempty"`
}

// UpdateBucket merges the update into the bucket with the given id.
// It reports whether the bucket was found. Neither the total balance nor
// the allocation sum is recomputed.
func UpdateBucket(data *models.SavingsData, id string, upd BucketUpdate) bool {
	b := data.BucketByID(id)
	if b == nil {
		return false
	}
	if upd.Name != nil {
		b.Name = *upd.Name
	}
	if upd.Allocation != nil {
		b.Allocation = *upd.Allocation
	}
	if upd.Color != nil {
		b.Color = *upd.Color
	}
	if upd.Goal != nil {
		b.Goal = *upd.Goal
	}
	return true
}

// DeleteBucket removes the bucket with the given id and reports whether it
// existed. The total balance is not adjusted, and past transactions keep
// referencing the deleted name.
func DeleteBucket(data *models.SavingsData, id string) bool {
	for i := range data.Buckets {
		if data.Buckets[i].ID == id {
			data.Buckets = append(data.Buckets[:i], data.Buckets[i+1:]...)
			return true
		}
	}
	return false
}

// Apply performs the state transition for one transaction. It never fails
// and never checks funds; bucket names with no match in the current bucket
// set contribute nothing. All resulting balances are rounded to the cent.
func Apply(data *models.SavingsData, tx models.Transaction) {
	switch d := tx.Detail.(type) {
	case models.Deposit:
		data.TotalBalance = currency.Add(data.TotalBalance, tx.Amount)
		for i := range data.Buckets {
			if amt, ok := d.Allocations[data.Buckets[i].Name]; ok {
				data.Buckets[i].Balance = currency.Add(data.Buckets[i].Balance, amt)
			}
		}

	case models.Withdrawal:
		data.TotalBalance = currency.Sub(data.TotalBalance, tx.Amount)
		for i := range data.Buckets {
			if amt, ok := d.Impact[data.Buckets[i].Name]; ok {
				data.Buckets[i].Balance = currency.Sub(data.Buckets[i].Balance, amt)
			}
		}

	case models.BucketWithdrawal:
		data.TotalBalance = currency.Sub(data.TotalBalance, tx.Amount)
		if b := data.BucketByName(d.Bucket); b != nil {
			b.Balance = currency.Sub(b.Balance, tx.Amount)
		}

	case models.Reallocation:
		if from := data.BucketByName(d.FromBucket); from != nil {
			from.Balance = currency.Sub(from.Balance, tx.Amount)
		}
		if to := data.BucketByName(d.ToBucket); to != nil {
			to.Balance = currency.Add(to.Balance, tx.Amount)
		}
	}
}

// Record turns a draft into a transaction (assigning id and timestamp),
// applies it and prepends it to the history, newest first.
func Record(data *models.SavingsData, draft models.TransactionDraft) models.Transaction {
	tx := models.Transaction{
		ID:      uuid.NewString(),
		Date:    time.Now().UTC(),
		Amount:  draft.Amount,
		Details: draft.Details,
		Detail:  draft.Detail,
	}
	Apply(data, tx)
	data.Transactions = append([]models.Transaction{tx}, data.Transactions...)
	return tx
}
