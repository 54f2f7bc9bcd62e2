package models

import (
	"github.com/shopspring/decimal"
)

// Snapshot is the external snake_case file format: bucket balances keyed by
// name rather than id. It is the bootstrap format and the shape the cleanup
// utility operates on.
type Snapshot struct {
	TotalBalance decimal.Decimal            `json:"total_balance"`
	Buckets      map[string]decimal.Decimal `json:"buckets"`
	Transactions []SnapshotTransaction      `json:"transactions"`
}

// SnapshotTransaction is the flat snake_case transaction record used in
// snapshot files.
type SnapshotTransaction struct {
	Date        string                     `json:"date"`
	Type        TransactionKind            `json:"type"`
	Amount      decimal.Decimal            `json:"amount"`
	FromBucket  string                     `json:"from_bucket,omitempty"`
	ToBucket    string                     `json:"to_bucket,omitempty"`
	Bucket      string                     `json:"bucket,omitempty"`
	Allocations map[string]decimal.Decimal `json:"allocations,omitempty"`
	Impact      map[string]decimal.Decimal `json:"impact,omitempty"`
}

// BootstrapConfig optionally overrides the default allocation and goal of
// buckets translated from a snapshot.
type BootstrapConfig struct {
	Allocations map[string]float64         `json:"allocations"`
	Goals       map[string]decimal.Decimal `json:"goals,omitempty"`
}

// Detail converts the flat record into the variant payload for its type.
func (t SnapshotTransaction) Detail() (TransactionDetail, error) {
	w := transactionWire{
		Type:        t.Type,
		Allocations: t.Allocations,
		Impact:      t.Impact,
		Bucket:      t.Bucket,
		FromBucket:  t.FromBucket,
		ToBucket:    t.ToBucket,
	}
	return w.detail()
}
