package models

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultGoalBase is the reference amount a bucket's default goal is derived
// from: goal = DefaultGoalBase * allocation / 100.
var DefaultGoalBase = decimal.NewFromInt(100000)

// Bucket is a named sub-account of the total balance. Name doubles as the
// key transactions reference, so names should stay unique while referencing
// transactions exist.
type Bucket struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
	Allocation float64         `json:"allocation"` // percent of future deposits, 0-100
	Color      string          `json:"color"`      // presentation only
	Goal       decimal.Decimal `json:"goal"`
}

// DefaultGoal returns the goal used when none is configured.
func DefaultGoal(allocation float64) decimal.Decimal {
	return DefaultGoalBase.Mul(decimal.NewFromFloat(allocation)).Div(decimal.NewFromInt(100)).Round(2)
}

// NewBucket creates an empty bucket with a fresh id and a random color.
// A zero goal means "use the default for this allocation".
func NewBucket(name string, allocation float64, goal decimal.Decimal) Bucket {
	if goal.IsZero() {
		goal = DefaultGoal(allocation)
	}
	return Bucket{
		ID:         uuid.NewString(),
		Name:       name,
		Balance:    decimal.Zero,
		Allocation: allocation,
		Color:      fmt.Sprintf("#%06x", rand.Intn(0x1000000)),
		Goal:       goal,
	}
}
