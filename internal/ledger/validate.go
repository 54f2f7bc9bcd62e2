package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rcashman/savings-buckets/internal/models"
)

// Validation errors. These are advisory: Apply will happily perform any
// transition, so callers decide which of these to enforce before applying.
var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrUnknownBucket     = errors.New("unknown bucket")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameBucket        = errors.New("from and to buckets must differ")
	ErrMissingDetail     = errors.New("missing transaction detail")
	ErrUnbalancedSplit   = errors.New("split does not sum to the amount")
)

// splitTolerance allows rounding to shift a per-bucket split by up to one
// cent in total relative to the headline amount.
var splitTolerance = decimal.NewFromFloat(0.01)

// Validate checks whether the draft can be applied to the current state
// without breaking funds or reference invariants. A nil result means the
// draft is safe to Apply.
func Validate(data *models.SavingsData, draft models.TransactionDraft) error {
	if draft.Detail == nil {
		return ErrMissingDetail
	}
	if !draft.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	switch d := draft.Detail.(type) {
	case models.Deposit:
		return checkSplit(d.Allocations, draft.Amount)

	case models.Withdrawal:
		if draft.Amount.GreaterThan(data.TotalBalance) {
			return fmt.Errorf("%w: available %s", ErrInsufficientFunds, data.TotalBalance)
		}
		return checkSplit(d.Impact, draft.Amount)

	case models.BucketWithdrawal:
		b := data.BucketByName(d.Bucket)
		if b == nil {
			return fmt.Errorf("%w: %q", ErrUnknownBucket, d.Bucket)
		}
		if draft.Amount.GreaterThan(b.Balance) {
			return fmt.Errorf("%w: %s has %s", ErrInsufficientFunds, b.Name, b.Balance)
		}

	case models.Reallocation:
		if d.FromBucket == d.ToBucket {
			return ErrSameBucket
		}
		from := data.BucketByName(d.FromBucket)
		if from == nil {
			return fmt.Errorf("%w: %q", ErrUnknownBucket, d.FromBucket)
		}
		if data.BucketByName(d.ToBucket) == nil {
			return fmt.Errorf("%w: %q", ErrUnknownBucket, d.ToBucket)
		}
		if draft.Amount.GreaterThan(from.Balance) {
			return fmt.Errorf("%w: %s has %s", ErrInsufficientFunds, from.Name, from.Balance)
		}
	}

	return nil
}

func checkSplit(split map[string]decimal.Decimal, amount decimal.Decimal) error {
	sum := decimal.Zero
	for _, v := range split {
		sum = sum.Add(v)
	}
	if sum.Sub(amount).Abs().GreaterThan(splitTolerance) {
		return fmt.Errorf("%w: split %s, amount %s", ErrUnbalancedSplit, sum, amount)
	}
	return nil
}
