package accuracy

import (
	"context"
	"testing"
	"time"

	"bitbucket.org/tallyworks/counts_backend/models"
	"github.com/shopspring/decimal"
)

func findEmployee(t *testing.T, result *LoadResult, employeeId string) *EmployeeAccuracy {
	t.Helper()
	for _, rec := range result.Employees {
		if rec.EmployeeId == employeeId {
			return rec
		}
	}
	t.Fatalf("employee %s not in result", employeeId)
	return nil
}

func TestComputeStore_CleanCount(t *testing.T) {
	raw := &fakeRawSource{
		employees: []models.Employee{{StoreId: "S001", EmployeeId: "AB1234", Name: "Avery Brooks"}},
		lines: []models.TagLine{
			{StoreId: "S001", EmployeeId: "AB1234", TagId: 1, Quantity: dec(t, "5"), UnitPrice: dec(t, "10.00")},
			{StoreId: "S001", EmployeeId: "AB1234", TagId: 2, Quantity: dec(t, "3"), UnitPrice: dec(t, "10.00")},
		},
	}
	e := newTestEngine(raw, newFakeAggregateStore())

	result, err := e.ComputeStore(context.Background(), "S001", LoadOptions{CountDate: time.Now()})
	if err != nil {
		t.Fatalf("ComputeStore: %v", err)
	}

	rec := findEmployee(t, result, "AB1234")
	if rec.Name != "Avery Brooks" {
		t.Fatalf("name: got %q", rec.Name)
	}
	if rec.TotalTags != 2 {
		t.Fatalf("total tags: expected 2, got %d", rec.TotalTags)
	}
	if !rec.TotalQuantity.Equal(dec(t, "8")) || !rec.TotalPrice.Equal(dec(t, "80.00")) {
		t.Fatalf("totals: expected (8, 80.00), got (%s, %s)", rec.TotalQuantity, rec.TotalPrice)
	}
	if !rec.DiscrepancyDollars.IsZero() || !rec.DiscrepancyPercent.IsZero() {
		t.Fatalf("clean count must have zero discrepancy, got $%s / %s%%", rec.DiscrepancyDollars, rec.DiscrepancyPercent)
	}
}

func TestComputeStore_DuplicateOwnedByCounter(t *testing.T) {
	raw := &fakeRawSource{
		employees: []models.Employee{
			{StoreId: "S001", EmployeeId: "AB1234", Name: "Avery Brooks"},
			{StoreId: "S001", EmployeeId: "CD5678", Name: "Casey Drummond"},
		},
		lines: []models.TagLine{
			{StoreId: "S001", EmployeeId: "AB1234", TagId: 1, ProductId: "P-1", Quantity: dec(t, "10"), UnitPrice: dec(t, "10.00")},
			{StoreId: "S001", EmployeeId: "CD5678", TagId: 1, ProductId: "P-2", Quantity: dec(t, "2"), UnitPrice: dec(t, "5.00")},
		},
		duplicates: tagSetOf(1),
		owners:     map[string]string{"1|P-1": "AB1234"},
		corrections: []models.Correction{{
			TagId: 1, ProductId: "P-1",
			CountedQuantity: dec(t, "10"), CorrectedQuantity: dec(t, "2"),
			UnitPrice: dec(t, "10.00"), Reason: models.CorrectionReasonMiscounted,
		}},
	}
	e := newTestEngine(raw, newFakeAggregateStore())

	result, err := e.ComputeStore(context.Background(), "S001", LoadOptions{CountDate: time.Now()})
	if err != nil {
		t.Fatalf("ComputeStore: %v", err)
	}

	ab := findEmployee(t, result, "AB1234")
	if !ab.DiscrepancyDollars.Equal(dec(t, "80.00")) || ab.DiscrepancyTags != 1 {
		t.Fatalf("line-level owner must be charged: got $%s over %d tags", ab.DiscrepancyDollars, ab.DiscrepancyTags)
	}
	// Credited line-level even though the tag is contested.
	if !ab.TotalQuantity.Equal(dec(t, "10")) || !ab.TotalPrice.Equal(dec(t, "100.00")) {
		t.Fatalf("AB1234 totals: got (%s, %s)", ab.TotalQuantity, ab.TotalPrice)
	}

	cd := findEmployee(t, result, "CD5678")
	if !cd.DiscrepancyDollars.IsZero() {
		t.Fatalf("CD5678 must not be charged for AB1234's event, got $%s", cd.DiscrepancyDollars)
	}
	if !cd.TotalQuantity.Equal(dec(t, "2")) {
		t.Fatalf("CD5678 contested totals must be line-level: got %s", cd.TotalQuantity)
	}
}

func TestComputeStore_DuplicateOwnedByOtherEmployee(t *testing.T) {
	raw := &fakeRawSource{
		employees: []models.Employee{
			{StoreId: "S001", EmployeeId: "AB1234", Name: "Avery Brooks"},
			{StoreId: "S001", EmployeeId: "EF9012", Name: "Frankie Eads"},
		},
		lines: []models.TagLine{
			{StoreId: "S001", EmployeeId: "AB1234", TagId: 1, ProductId: "P-1", Quantity: dec(t, "10"), UnitPrice: dec(t, "10.00")},
			{StoreId: "S001", EmployeeId: "EF9012", TagId: 1, ProductId: "P-1", Quantity: dec(t, "1"), UnitPrice: dec(t, "10.00")},
		},
		duplicates: tagSetOf(1),
		owners:     map[string]string{"1|P-1": "EF9012"},
		corrections: []models.Correction{{
			TagId: 1, ProductId: "P-1",
			CountedQuantity: dec(t, "10"), CorrectedQuantity: dec(t, "2"),
			UnitPrice: dec(t, "10.00"), Reason: models.CorrectionReasonMiscounted,
		}},
	}
	e := newTestEngine(raw, newFakeAggregateStore())

	result, err := e.ComputeStore(context.Background(), "S001", LoadOptions{CountDate: time.Now()})
	if err != nil {
		t.Fatalf("ComputeStore: %v", err)
	}

	ab := findEmployee(t, result, "AB1234")
	if !ab.DiscrepancyDollars.IsZero() {
		t.Fatalf("event owned by EF9012 must be excluded from AB1234, got $%s", ab.DiscrepancyDollars)
	}
	ef := findEmployee(t, result, "EF9012")
	if !ef.DiscrepancyDollars.Equal(dec(t, "80.00")) {
		t.Fatalf("EF9012 must carry the event, got $%s", ef.DiscrepancyDollars)
	}
}

func TestLoadStore_AddedItemSentinelGetsNoRecord(t *testing.T) {
	// An added-item line carries the unassigned owner code. The shared-blame
	// event must land on the real counters only; the code itself is not an
	// employee and must never surface as a record or a season row.
	raw := &fakeRawSource{
		employees: []models.Employee{
			{StoreId: "S001", EmployeeId: "AB1234", Name: "Avery Brooks"},
			{StoreId: "S001", EmployeeId: "CD5678", Name: "Casey Drummond"},
		},
		lines: []models.TagLine{
			{StoreId: "S001", EmployeeId: "AB1234", TagId: 1, ProductId: "P-1", Quantity: dec(t, "10"), UnitPrice: dec(t, "10.00")},
			{StoreId: "S001", EmployeeId: "CD5678", TagId: 1, ProductId: "P-1", Quantity: dec(t, "2"), UnitPrice: dec(t, "10.00")},
			{StoreId: "S001", EmployeeId: models.AddedItemOwnerCode, TagId: 1, ProductId: "P-1", Quantity: dec(t, "10"), UnitPrice: dec(t, "9.99")},
		},
		duplicates: tagSetOf(1),
		owners:     map[string]string{"1|P-1": models.AddedItemOwnerCode},
		corrections: []models.Correction{{
			TagId: 1, ProductId: "P-1",
			CountedQuantity: dec(t, "10"), CorrectedQuantity: dec(t, "2"),
			UnitPrice: dec(t, "10.00"), Reason: models.CorrectionReasonMiscounted,
		}},
	}
	store := newFakeAggregateStore()
	e := newTestEngine(raw, store)

	result, err := e.LoadStore(context.Background(), "S001", LoadOptions{CountDate: time.Now()})
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}
	for _, rec := range result.Employees {
		if rec.EmployeeId == models.AddedItemOwnerCode {
			t.Fatalf("unassigned owner code emitted as an employee record: %+v", rec)
		}
	}
	// Both real counters share the blame.
	if got := findEmployee(t, result, "AB1234").DiscrepancyDollars; !got.Equal(dec(t, "80.00")) {
		t.Fatalf("AB1234 shared blame: expected $80, got $%s", got)
	}
	if got := findEmployee(t, result, "CD5678").DiscrepancyDollars; !got.Equal(dec(t, "80.00")) {
		t.Fatalf("CD5678 shared blame: expected $80, got $%s", got)
	}
	if _, ok := store.empSeasons[models.AddedItemOwnerCode]; ok {
		t.Fatalf("unassigned owner code persisted as a season row")
	}
	if _, ok := store.empSnaps[empSnapKey{"S001", models.AddedItemOwnerCode}]; ok {
		t.Fatalf("unassigned owner code persisted as a snapshot")
	}
}

func TestComputeStore_MissingDirectoryEntryKeepsId(t *testing.T) {
	raw := &fakeRawSource{
		// Directory is empty; lines reference an unknown counter.
		lines: []models.TagLine{
			{StoreId: "S001", EmployeeId: "GH3456", TagId: 1, Quantity: dec(t, "1"), UnitPrice: dec(t, "1.00")},
		},
	}
	e := newTestEngine(raw, newFakeAggregateStore())

	result, err := e.ComputeStore(context.Background(), "S001", LoadOptions{CountDate: time.Now()})
	if err != nil {
		t.Fatalf("ComputeStore: %v", err)
	}
	rec := findEmployee(t, result, "GH3456")
	if rec.Name != "GH3456" {
		t.Fatalf("unknown counter keeps the id as name, got %q", rec.Name)
	}
}

func TestComputeStore_ZoneRecords(t *testing.T) {
	raw := &fakeRawSource{
		employees: []models.Employee{{StoreId: "S001", EmployeeId: "AB1234", Name: "Avery Brooks"}},
		lines: []models.TagLine{
			{StoreId: "S001", EmployeeId: "AB1234", TagId: 1001, Quantity: dec(t, "5"), UnitPrice: dec(t, "10.00")},
			{StoreId: "S001", EmployeeId: "AB1234", TagId: 2001, Quantity: dec(t, "2"), UnitPrice: dec(t, "20.00")},
		},
		zones: []models.Zone{
			{StoreId: "S001", ZoneId: 1, Name: "Grocery", TagFrom: 1000, TagTo: 1999},
			{StoreId: "S001", ZoneId: 2, Name: "Pharmacy", TagFrom: 2000, TagTo: 2999},
		},
		corrections: []models.Correction{{
			ZoneId: 1, TagId: 1001, ProductId: "P-1",
			CountedQuantity: dec(t, "5"), CorrectedQuantity: dec(t, "12"),
			UnitPrice: dec(t, "10.00"), Reason: models.CorrectionReasonMiscounted, // delta $70
		}},
	}
	e := newTestEngine(raw, newFakeAggregateStore())

	result, err := e.ComputeStore(context.Background(), "S001", LoadOptions{CountDate: time.Now()})
	if err != nil {
		t.Fatalf("ComputeStore: %v", err)
	}
	if len(result.Zones) != 2 {
		t.Fatalf("expected 2 zone records, got %d", len(result.Zones))
	}

	grocery := result.Zones[0]
	if grocery.TotalTags != 1 || !grocery.TotalPrice.Equal(dec(t, "50.00")) {
		t.Fatalf("grocery rollup: got tags %d price %s", grocery.TotalTags, grocery.TotalPrice)
	}
	if !grocery.DiscrepancyDollars.Equal(dec(t, "70.00")) {
		t.Fatalf("grocery discrepancy: expected $70, got $%s", grocery.DiscrepancyDollars)
	}

	pharmacy := result.Zones[1]
	if !pharmacy.DiscrepancyDollars.IsZero() {
		t.Fatalf("pharmacy must not carry grocery's event, got $%s", pharmacy.DiscrepancyDollars)
	}
}

func TestLoadStore_HoursFlowIntoSeason(t *testing.T) {
	raw := &fakeRawSource{
		employees: []models.Employee{{StoreId: "S001", EmployeeId: "AB1234", Name: "Avery Brooks"}},
		lines: []models.TagLine{
			{StoreId: "S001", EmployeeId: "AB1234", TagId: 1, Quantity: dec(t, "5"), UnitPrice: dec(t, "10.00")},
		},
	}
	store := newFakeAggregateStore()
	e := newTestEngine(raw, store)
	ctx := context.Background()
	countDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	opts := LoadOptions{CountDate: countDate, Hours: map[string]decimal.Decimal{"AB1234": dec(t, "8")}}
	if _, err := e.LoadStore(ctx, "S001", opts); err != nil {
		t.Fatalf("LoadStore: %v", err)
	}
	if got := store.empSeasons["AB1234"].Hours; !got.Equal(dec(t, "8")) {
		t.Fatalf("season hours: expected 8, got %s", got)
	}

	// Reload with corrected hours only: totals and store_count unchanged.
	before := store.empSeasons["AB1234"]
	opts.Hours["AB1234"] = dec(t, "9.5")
	if _, err := e.LoadStore(ctx, "S001", opts); err != nil {
		t.Fatalf("LoadStore reload: %v", err)
	}
	after := store.empSeasons["AB1234"]
	if !after.Hours.Equal(dec(t, "9.5")) {
		t.Fatalf("season hours after reload: expected 9.5, got %s", after.Hours)
	}
	if after.StoreCount != before.StoreCount || after.TotalTags != before.TotalTags ||
		!after.TotalPrice.Equal(before.TotalPrice) {
		t.Fatalf("hours-only reload moved other fields:\nbefore %+v\nafter  %+v", before, after)
	}
}
