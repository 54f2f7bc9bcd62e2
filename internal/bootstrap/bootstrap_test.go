package bootstrap

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rcashman/savings-buckets/internal/models"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func sampleSnapshot() *models.Snapshot {
	return &models.Snapshot{
		TotalBalance: dec(150),
		Buckets: map[string]decimal.Decimal{
			"Emergency": dec(100),
			"Travel":    dec(50),
		},
		Transactions: []models.SnapshotTransaction{
			{
				Date:        "2024-01-15",
				Type:        models.KindDeposit,
				Amount:      dec(150),
				Allocations: map[string]decimal.Decimal{"Emergency": dec(100), "Travel": dec(50)},
			},
			{
				Date:       "2024-02-01T09:00:00Z",
				Type:       models.KindReallocation,
				Amount:     dec(10),
				FromBucket: "Emergency",
				ToBucket:   "Travel",
			},
		},
	}
}

func TestTranslate_Defaults(t *testing.T) {
	data := Translate(sampleSnapshot(), nil)

	if !data.TotalBalance.Equal(dec(150)) {
		t.Errorf("total = %s, want 150", data.TotalBalance)
	}
	if len(data.Buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(data.Buckets))
	}

	for _, b := range data.Buckets {
		if b.ID == "" {
			t.Error("expected generated bucket id")
		}
		if b.Allocation != DefaultAllocation {
			t.Errorf("%s allocation = %v, want default %v", b.Name, b.Allocation, DefaultAllocation)
		}
		if !b.Goal.Equal(dec(10000)) {
			t.Errorf("%s goal = %s, want 10000", b.Name, b.Goal)
		}
		if b.Color == "" {
			t.Error("expected a generated color")
		}
	}

	emergency := data.BucketByName("Emergency")
	if emergency == nil || !emergency.Balance.Equal(dec(100)) {
		t.Errorf("Emergency balance wrong: %+v", emergency)
	}
}

func TestTranslate_ConfigOverrides(t *testing.T) {
	cfg := &models.BootstrapConfig{
		Allocations: map[string]float64{"Emergency": 60},
		Goals:       map[string]decimal.Decimal{"Travel": dec(5000)},
	}
	data := Translate(sampleSnapshot(), cfg)

	emergency := data.BucketByName("Emergency")
	if emergency.Allocation != 60 {
		t.Errorf("Emergency allocation = %v, want 60", emergency.Allocation)
	}
	if !emergency.Goal.Equal(dec(60000)) {
		t.Errorf("Emergency goal = %s, want 60000 (derived from overridden allocation)", emergency.Goal)
	}

	travel := data.BucketByName("Travel")
	if travel.Allocation != DefaultAllocation {
		t.Errorf("Travel allocation = %v, want default", travel.Allocation)
	}
	if !travel.Goal.Equal(dec(5000)) {
		t.Errorf("Travel goal = %s, want configured 5000", travel.Goal)
	}
}

func TestTranslate_Transactions(t *testing.T) {
	data := Translate(sampleSnapshot(), nil)

	if len(data.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(data.Transactions))
	}
	if data.Transactions[0].ID == data.Transactions[1].ID || data.Transactions[0].ID == "" {
		t.Error("expected fresh distinct transaction ids")
	}
	if data.Transactions[0].Kind() != models.KindDeposit {
		t.Errorf("first transaction kind = %s", data.Transactions[0].Kind())
	}
	realloc, ok := data.Transactions[1].Detail.(models.Reallocation)
	if !ok {
		t.Fatalf("expected Reallocation, got %T", data.Transactions[1].Detail)
	}
	if realloc.FromBucket != "Emergency" || realloc.ToBucket != "Travel" {
		t.Errorf("reallocation endpoints wrong: %+v", realloc)
	}
}

func TestTranslate_SkipsBadRows(t *testing.T) {
	snap := sampleSnapshot()
	snap.Transactions = append(snap.Transactions,
		models.SnapshotTransaction{Date: "garbage", Type: models.KindDeposit, Amount: dec(1)},
		models.SnapshotTransaction{Date: "2024-03-01", Type: "mystery", Amount: dec(1)},
	)

	data := Translate(snap, nil)
	if len(data.Transactions) != 2 {
		t.Errorf("expected bad rows to be skipped, got %d transactions", len(data.Transactions))
	}
}

func TestExport_RoundTripsThroughTranslate(t *testing.T) {
	data := Translate(sampleSnapshot(), nil)

	snap := Export(data)
	if !snap.TotalBalance.Equal(dec(150)) {
		t.Errorf("total = %s, want 150", snap.TotalBalance)
	}
	if !snap.Buckets["Emergency"].Equal(dec(100)) || !snap.Buckets["Travel"].Equal(dec(50)) {
		t.Errorf("bucket balances wrong: %v", snap.Buckets)
	}
	if len(snap.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(snap.Transactions))
	}
	if snap.Transactions[0].Type != models.KindDeposit {
		t.Errorf("first type = %s", snap.Transactions[0].Type)
	}
	if snap.Transactions[1].FromBucket != "Emergency" || snap.Transactions[1].ToBucket != "Travel" {
		t.Errorf("reallocation fields wrong: %+v", snap.Transactions[1])
	}

	// Translating the export again yields the same balances.
	again := Translate(snap, nil)
	if !again.TotalBalance.Equal(data.TotalBalance) {
		t.Errorf("round-trip total = %s, want %s", again.TotalBalance, data.TotalBalance)
	}
	if len(again.Buckets) != len(data.Buckets) || len(again.Transactions) != len(data.Transactions) {
		t.Errorf("round-trip shape changed: %d buckets, %d transactions",
			len(again.Buckets), len(again.Transactions))
	}
}
