package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rcashman/savings-buckets/internal/models"
)

func fundedState() *models.SavingsData {
	data := testState()
	Apply(data, tx(100, models.Deposit{Allocations: map[string]decimal.Decimal{
		"Emergency": dec(70),
		"Travel":    dec(30),
	}}))
	return data
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		draft models.TransactionDraft
		want  error
	}{
		{
			"valid deposit",
			models.TransactionDraft{Amount: dec(50), Detail: models.Deposit{Allocations: map[string]decimal.Decimal{"Emergency": dec(25), "Travel": dec(25)}}},
			nil,
		},
		{
			"zero amount",
			models.TransactionDraft{Amount: decimal.Zero, Detail: models.BucketWithdrawal{Bucket: "Emergency"}},
			ErrNonPositiveAmount,
		},
		{
			"negative amount",
			models.TransactionDraft{Amount: dec(-5), Detail: models.BucketWithdrawal{Bucket: "Emergency"}},
			ErrNonPositiveAmount,
		},
		{
			"missing detail",
			models.TransactionDraft{Amount: dec(5)},
			ErrMissingDetail,
		},
		{
			"deposit split off by more than a cent",
			models.TransactionDraft{Amount: dec(100), Detail: models.Deposit{Allocations: map[string]decimal.Decimal{"Emergency": dec(50)}}},
			ErrUnbalancedSplit,
		},
		{
			"deposit split within rounding tolerance",
			models.TransactionDraft{Amount: dec(100), Detail: models.Deposit{Allocations: map[string]decimal.Decimal{"Emergency": dec(33.33), "Travel": dec(66.66)}}},
			nil,
		},
		{
			"withdrawal over total",
			models.TransactionDraft{Amount: dec(500), Detail: models.Withdrawal{Impact: map[string]decimal.Decimal{"Emergency": dec(500)}}},
			ErrInsufficientFunds,
		},
		{
			"bucket withdrawal unknown bucket",
			models.TransactionDraft{Amount: dec(5), Detail: models.BucketWithdrawal{Bucket: "Nope"}},
			ErrUnknownBucket,
		},
		{
			"bucket withdrawal over bucket balance",
			models.TransactionDraft{Amount: dec(71), Detail: models.BucketWithdrawal{Bucket: "Emergency"}},
			ErrInsufficientFunds,
		},
		{
			"valid bucket withdrawal",
			models.TransactionDraft{Amount: dec(70), Detail: models.BucketWithdrawal{Bucket: "Emergency"}},
			nil,
		},
		{
			"reallocation same bucket",
			models.TransactionDraft{Amount: dec(5), Detail: models.Reallocation{FromBucket: "Travel", ToBucket: "Travel"}},
			ErrSameBucket,
		},
		{
			"reallocation unknown source",
			models.TransactionDraft{Amount: dec(5), Detail: models.Reallocation{FromBucket: "Nope", ToBucket: "Travel"}},
			ErrUnknownBucket,
		},
		{
			"reallocation over source balance",
			models.TransactionDraft{Amount: dec(31), Detail: models.Reallocation{FromBucket: "Travel", ToBucket: "Emergency"}},
			ErrInsufficientFunds,
		},
		{
			"valid reallocation",
			models.TransactionDraft{Amount: dec(30), Detail: models.Reallocation{FromBucket: "Travel", ToBucket: "Emergency"}},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(fundedState(), tt.draft)
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate_ZeroTotalWithdrawalRejected(t *testing.T) {
	data := testState() // empty balances
	err := Validate(data, models.TransactionDraft{
		Amount: dec(10),
		Detail: models.Withdrawal{Impact: map[string]decimal.Decimal{}},
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds for withdrawal from zero total, got %v", err)
	}
}

func TestValidate_DoesNotMutateState(t *testing.T) {
	data := fundedState()
	before := data.TotalBalance
	_ = Validate(data, models.TransactionDraft{Amount: dec(50), Detail: models.BucketWithdrawal{Bucket: "Emergency"}})
	if !data.TotalBalance.Equal(before) {
		t.Error("Validate mutated the aggregate")
	}
}
