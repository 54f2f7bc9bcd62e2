// Command cleandata rewrites savings snapshot files in place, rounding
// every monetary field to exact cents and recomputing the stored total
// from the bucket balances. It prints a per-field report for each file.
//
// Usage:
//
//	cleandata snapshot.json [more.json ...]
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"github.com/rcashman/savings-buckets/internal/cleandata"
	"github.com/rcashman/savings-buckets/internal/currency"
	"github.com/rcashman/savings-buckets/internal/models"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <snapshot.json> [more.json ...]\n", os.Args[0])
		os.Exit(2)
	}

	failed := 0
	for _, path := range os.Args[1:] {
		if err := cleanFile(path); err != nil {
			slog.Error("cleanup failed", "file", path, "error", err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func cleanFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	report := cleandata.Clean(&snap)

	fmt.Printf("%s:\n", path)
	if len(report.Changes) == 0 {
		fmt.Println("  no changes")
	}
	for _, c := range report.Changes {
		fmt.Printf("  %s: %s -> %s\n", c.Field, c.Before, c.After)
	}
	fmt.Printf("  bucket sum %s, total %s", currency.Format(report.BucketSum), currency.Format(report.Total))
	if report.Reconciled {
		fmt.Println(" (reconciled)")
	} else {
		fmt.Println(" (MISMATCH)")
	}

	if len(report.Changes) == 0 {
		return nil
	}

	out, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
