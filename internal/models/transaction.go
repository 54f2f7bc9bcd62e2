package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind discriminates the four transaction variants.
type TransactionKind string

const (
	KindDeposit          TransactionKind = "deposit"
	KindWithdrawal       TransactionKind = "withdrawal"
	KindReallocation     TransactionKind = "reallocation"
	KindBucketWithdrawal TransactionKind = "bucket_withdrawal"
)

// TransactionDetail is the variant-specific payload of a transaction.
// Exactly one concrete type exists per TransactionKind.
type TransactionDetail interface {
	Kind() TransactionKind
}

// Deposit credits buckets according to Allocations (bucket name -> amount).
// The allocation values sum to the transaction amount.
type Deposit struct {
	Allocations map[string]decimal.Decimal
}

func (Deposit) Kind() TransactionKind { return KindDeposit }

// Withdrawal debits buckets according to Impact (bucket name -> amount),
// normally proportional to each bucket's share of the total.
type Withdrawal struct {
	Impact map[string]decimal.Decimal
}

func (Withdrawal) Kind() TransactionKind { return KindWithdrawal }

// BucketWithdrawal debits a single named bucket by the full amount.
type BucketWithdrawal struct {
	Bucket string
}

func (BucketWithdrawal) Kind() TransactionKind { return KindBucketWithdrawal }

// Reallocation moves the amount between two buckets; the total is unchanged.
type Reallocation struct {
	FromBucket string
	ToBucket   string
}

func (Reallocation) Kind() TransactionKind { return KindReallocation }

// Transaction is one immutable ledger event. Amount is always positive;
// the sign of its effect is determined by the detail variant.
type Transaction struct {
	ID      string
	Date    time.Time
	Amount  decimal.Decimal
	Details string // optional free-form memo
	Detail  TransactionDetail
}

// Kind returns the transaction's variant tag.
func (t Transaction) Kind() TransactionKind {
	if t.Detail == nil {
		return ""
	}
	return t.Detail.Kind()
}

// TransactionDraft is a transaction as submitted by a caller, before the
// ledger assigns an id and a timestamp.
type TransactionDraft struct {
	Amount  decimal.Decimal
	Details string
	Detail  TransactionDetail
}

// transactionWire is the flat external JSON shape shared by all variants,
// kept for compatibility with the persisted format.
type transactionWire struct {
	ID          string                     `json:"id,omitempty"`
	Date        string                     `json:"date,omitempty"`
	Type        TransactionKind            `json:"type"`
	Amount      decimal.Decimal            `json:"amount"`
	Details     string                     `json:"details,omitempty"`
	Allocations map[string]decimal.Decimal `json:"allocations,omitempty"`
	Impact      map[string]decimal.Decimal `json:"impact,omitempty"`
	Bucket      string                     `json:"bucket,omitempty"`
	FromBucket  string                     `json:"fromBucket,omitempty"`
	ToBucket    string                     `json:"toBucket,omitempty"`
}

func (w *transactionWire) setDetail(d TransactionDetail) {
	switch v := d.(type) {
	case Deposit:
		w.Allocations = v.Allocations
	case Withdrawal:
		w.Impact = v.Impact
	case BucketWithdrawal:
		w.Bucket = v.Bucket
	case Reallocation:
		w.FromBucket = v.FromBucket
		w.ToBucket = v.ToBucket
	}
}

func (w *transactionWire) detail() (TransactionDetail, error) {
	switch w.Type {
	case KindDeposit:
		return Deposit{Allocations: w.Allocations}, nil
	case KindWithdrawal:
		return Withdrawal{Impact: w.Impact}, nil
	case KindBucketWithdrawal:
		return BucketWithdrawal{Bucket: w.Bucket}, nil
	case KindReallocation:
		return Reallocation{FromBucket: w.FromBucket, ToBucket: w.ToBucket}, nil
	default:
		return nil, fmt.Errorf("unknown transaction type %q", w.Type)
	}
}

// MarshalJSON renders the flat external shape with only the fields of the
// transaction's variant populated.
func (t Transaction) MarshalJSON() ([]byte, error) {
	w := transactionWire{
		ID:      t.ID,
		Date:    t.Date.UTC().Format(time.RFC3339Nano),
		Type:    t.Kind(),
		Amount:  t.Amount,
		Details: t.Details,
	}
	w.setDetail(t.Detail)
	return json.Marshal(w)
}

// UnmarshalJSON decodes the flat external shape into the variant matching
// its type tag.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w transactionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	date, err := ParseDate(w.Date)
	if err != nil {
		return fmt.Errorf("transaction %s: %w", w.ID, err)
	}

	detail, err := w.detail()
	if err != nil {
		return err
	}

	*t = Transaction{
		ID:      w.ID,
		Date:    date,
		Amount:  w.Amount,
		Details: w.Details,
		Detail:  detail,
	}
	return nil
}

// MarshalJSON renders a draft like a transaction, minus id and date.
func (d TransactionDraft) MarshalJSON() ([]byte, error) {
	w := transactionWire{
		Type:    d.Detail.Kind(),
		Amount:  d.Amount,
		Details: d.Details,
	}
	w.setDetail(d.Detail)
	return json.Marshal(w)
}

// UnmarshalJSON decodes a draft, ignoring any id/date the caller included.
func (d *TransactionDraft) UnmarshalJSON(data []byte) error {
	var w transactionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	detail, err := w.detail()
	if err != nil {
		return err
	}

	*d = TransactionDraft{
		Amount:  w.Amount,
		Details: w.Details,
		Detail:  detail,
	}
	return nil
}

// ParseDate parses the timestamps found in ledger data: RFC 3339 with or
// without fractional seconds, or a bare YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
