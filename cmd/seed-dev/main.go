// seed-dev loads one sample store (store id S001) with employees, zones, tag
// lines, aggregates, duplicate tags and corrections, so the load endpoint can
// be exercised against a local database without a real count feed.
//
// The dataset covers every pipeline path: a clean employee, a duplicate tag
// resolved to a line-level owner, a shared duplicate owned by the added-item
// sentinel, a chargeable miscount and a sub-threshold one.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-dev
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/tallyworks/counts_backend/config"
	"bitbucket.org/tallyworks/counts_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const storeId = "S001"

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	employees := []models.Employee{
		{StoreId: storeId, EmployeeId: "AB1234", Name: "Avery Brooks"},
		{StoreId: storeId, EmployeeId: "CD5678", Name: "Casey Drummond"},
	}

	zones := []models.Zone{
		{StoreId: storeId, ZoneId: 1, Name: "Grocery", TagFrom: 1000, TagTo: 1999},
		{StoreId: storeId, ZoneId: 2, Name: "Pharmacy", TagFrom: 2000, TagTo: 2999},
	}

	lines := []models.TagLine{
		// AB1234: two clean tags in zone 1.
		{StoreId: storeId, EmployeeId: "AB1234", TagId: 1001, ProductId: "P-100", Quantity: dec("12"), UnitPrice: dec("3.50")},
		{StoreId: storeId, EmployeeId: "AB1234", TagId: 1002, ProductId: "P-101", Quantity: dec("4"), UnitPrice: dec("20.00")},
		// Tag 1003 appears for both employees: duplicate, owner decided line by line.
		{StoreId: storeId, EmployeeId: "AB1234", TagId: 1003, ProductId: "P-102", Quantity: dec("6"), UnitPrice: dec("15.00")},
		{StoreId: storeId, EmployeeId: "CD5678", TagId: 1003, ProductId: "P-103", Quantity: dec("2"), UnitPrice: dec("8.25")},
		// Tag 2001 is a duplicate whose lines belong to the added-item sentinel.
		{StoreId: storeId, EmployeeId: models.AddedItemOwnerCode, TagId: 2001, ProductId: "P-200", Quantity: dec("10"), UnitPrice: dec("9.99")},
		{StoreId: storeId, EmployeeId: "CD5678", TagId: 2001, ProductId: "P-200", Quantity: dec("1"), UnitPrice: dec("9.99")},
		// CD5678: one clean pharmacy tag.
		{StoreId: storeId, EmployeeId: "CD5678", TagId: 2002, ProductId: "P-201", Quantity: dec("30"), UnitPrice: dec("4.75")},
	}

	aggregates := []models.TagAggregate{
		{StoreId: storeId, TagId: 1001, TotalQuantity: dec("12"), TotalPrice: dec("42.00")},
		{StoreId: storeId, TagId: 1002, TotalQuantity: dec("4"), TotalPrice: dec("80.00")},
		{StoreId: storeId, TagId: 1003, TotalQuantity: dec("8"), TotalPrice: dec("106.50")},
		{StoreId: storeId, TagId: 2001, TotalQuantity: dec("11"), TotalPrice: dec("109.89")},
		{StoreId: storeId, TagId: 2002, TotalQuantity: dec("30"), TotalPrice: dec("142.50")},
	}

	duplicates := []models.DuplicateTag{
		{StoreId: storeId, TagId: 1003},
		{StoreId: storeId, TagId: 2001},
	}

	entries := []models.CorrectionEntry{
		// Chargeable: miscounted and the dollar delta is well over the threshold.
		{Id: 1, StoreId: storeId, ZoneId: 1, TagId: 1002, ProductId: "P-101", CountedQuantity: dec("4"), UnitPrice: dec("20.00")},
		// Not chargeable: same reason but the delta is under the threshold.
		{Id: 2, StoreId: storeId, ZoneId: 1, TagId: 1001, ProductId: "P-100", CountedQuantity: dec("12"), UnitPrice: dec("3.50")},
		// Not chargeable: damaged goods are not a counting error.
		{Id: 3, StoreId: storeId, ZoneId: 2, TagId: 2002, ProductId: "P-201", CountedQuantity: dec("30"), UnitPrice: dec("4.75")},
		// Contested tag: charged to the line-level owner only.
		{Id: 4, StoreId: storeId, ZoneId: 1, TagId: 1003, ProductId: "P-102", CountedQuantity: dec("6"), UnitPrice: dec("15.00")},
	}
	results := []models.CorrectionResult{
		{EntryId: 1, CorrectedQuantity: dec("1"), Reason: models.CorrectionReasonMiscounted},
		{EntryId: 2, CorrectedQuantity: dec("11"), Reason: models.CorrectionReasonMiscounted},
		{EntryId: 3, CorrectedQuantity: dec("10"), Reason: models.CorrectionReasonDamaged},
		{EntryId: 4, CorrectedQuantity: dec("1"), Reason: models.CorrectionReasonMiscounted},
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, batch := range []interface{}{
			&employees, &zones, &lines, &aggregates, &duplicates, &entries, &results,
		} {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(batch).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeded store %s: %d employees, %d zones, %d tag lines, %d corrections\n",
		storeId, len(employees), len(zones), len(lines), len(entries))
}
