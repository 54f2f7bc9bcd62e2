package models

import (
	"github.com/shopspring/decimal"
)

// SavingsData is the aggregate root: the total balance, the bucket set and
// the transaction history (stored newest first). TotalBalance must equal
// the sum of bucket balances after every mutation; both are updated
// together on every path that changes either.
type SavingsData struct {
	TotalBalance decimal.Decimal `json:"totalBalance"`
	Buckets      []Bucket        `json:"buckets"`
	Transactions []Transaction   `json:"transactions"`
}

// NewSavingsData returns an empty balanced aggregate.
func NewSavingsData() *SavingsData {
	return &SavingsData{
		TotalBalance: decimal.Zero,
		Buckets:      []Bucket{},
		Transactions: []Transaction{},
	}
}

// BucketByID returns the bucket with the given id, or nil.
func (d *SavingsData) BucketByID(id string) *Bucket {
	for i := range d.Buckets {
		if d.Buckets[i].ID == id {
			return &d.Buckets[i]
		}
	}
	return nil
}

// BucketByName returns the bucket with the given name, or nil.
func (d *SavingsData) BucketByName(name string) *Bucket {
	for i := range d.Buckets {
		if d.Buckets[i].Name == name {
			return &d.Buckets[i]
		}
	}
	return nil
}

// BucketSum returns the sum of all bucket balances, rounded to the cent.
func (d *SavingsData) BucketSum() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range d.Buckets {
		sum = sum.Add(b.Balance)
	}
	return sum.Round(2)
}
