package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/rcashman/savings-buckets/internal/currency"
	"github.com/rcashman/savings-buckets/internal/models"
)

// DepositSplit distributes a deposit across buckets by allocation share.
// The shares are re-normalized against the current allocation sum, so
// partial or over-100 allocation sets still distribute the full amount.
// With no allocations at all, every bucket gets zero.
func DepositSplit(buckets []models.Bucket, amount decimal.Decimal) map[string]decimal.Decimal {
	totalAlloc := 0.0
	for _, b := range buckets {
		totalAlloc += b.Allocation
	}

	split := make(map[string]decimal.Decimal, len(buckets))
	if totalAlloc == 0 {
		for _, b := range buckets {
			split[b.Name] = decimal.Zero
		}
		return split
	}

	totalAllocDec := decimal.NewFromFloat(totalAlloc)
	for _, b := range buckets {
		share := decimal.NewFromFloat(b.Allocation).Div(totalAllocDec)
		split[b.Name] = currency.Mul(amount, share)
	}
	return split
}

// WithdrawalSplit spreads a general withdrawal across buckets in proportion
// to their share of the total balance. A zero total yields an all-zero
// impact; Validate rejects such withdrawals before they get here.
func WithdrawalSplit(data *models.SavingsData, amount decimal.Decimal) map[string]decimal.Decimal {
	split := make(map[string]decimal.Decimal, len(data.Buckets))
	if data.TotalBalance.IsZero() {
		for _, b := range data.Buckets {
			split[b.Name] = decimal.Zero
		}
		return split
	}

	for _, b := range data.Buckets {
		proportion := b.Balance.Div(data.TotalBalance)
		split[b.Name] = currency.Mul(amount, proportion)
	}
	return split
}

// AllocationSum returns the current allocation percentage total. The sum is
// expected to be 100 but only as a soft invariant; callers surface a
// warning when it drifts.
func AllocationSum(buckets []models.Bucket) float64 {
	sum := 0.0
	for _, b := range buckets {
		sum += b.Allocation
	}
	return sum
}
