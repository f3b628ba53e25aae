package accuracy

import (
	"context"
	"testing"

	"bitbucket.org/tallyworks/counts_backend/models"
)

func TestAggregateTotals_EmptyTagSetIsZero(t *testing.T) {
	raw := &fakeRawSource{}
	totals, err := AggregateTotals(context.Background(), raw, "AB1234", tagSetOf(), tagSetOf())
	if err != nil {
		t.Fatalf("AggregateTotals: %v", err)
	}
	if !totals.Quantity.IsZero() || !totals.Price.IsZero() {
		t.Fatalf("empty tag set: expected (0, 0), got (%s, %s)", totals.Quantity, totals.Price)
	}
}

func TestAggregateTotals_DuplicateTagsUseLineLevelPath(t *testing.T) {
	// Tag 10 is clean; tag 20 is contested between two employees. The bulk
	// rollup for tag 20 covers both counters' lines, so crediting it to
	// either employee would double-count: the contested part must be summed
	// from AB1234's own lines only.
	raw := &fakeRawSource{
		lines: []models.TagLine{
			{EmployeeId: "AB1234", TagId: 10, Quantity: dec(t, "5"), UnitPrice: dec(t, "2.00")},
			{EmployeeId: "AB1234", TagId: 20, Quantity: dec(t, "3"), UnitPrice: dec(t, "10.00")},
			{EmployeeId: "CD5678", TagId: 20, Quantity: dec(t, "7"), UnitPrice: dec(t, "10.00")},
		},
	}

	totals, err := AggregateTotals(context.Background(), raw, "AB1234", tagSetOf(10, 20), tagSetOf(20))
	if err != nil {
		t.Fatalf("AggregateTotals: %v", err)
	}
	// 5 from tag 10 plus AB1234's 3 on tag 20; never CD5678's 7.
	if !totals.Quantity.Equal(dec(t, "8")) {
		t.Fatalf("quantity: expected 8, got %s", totals.Quantity)
	}
	if !totals.Price.Equal(dec(t, "40.00")) {
		t.Fatalf("price: expected 40.00, got %s", totals.Price)
	}
}

func TestAggregateTotals_AllCleanUsesBulkPathOnly(t *testing.T) {
	raw := &fakeRawSource{
		lines: []models.TagLine{
			{EmployeeId: "AB1234", TagId: 10, Quantity: dec(t, "5"), UnitPrice: dec(t, "10.00")},
			{EmployeeId: "AB1234", TagId: 11, Quantity: dec(t, "3"), UnitPrice: dec(t, "10.00")},
		},
	}

	totals, err := AggregateTotals(context.Background(), raw, "AB1234", tagSetOf(10, 11), tagSetOf())
	if err != nil {
		t.Fatalf("AggregateTotals: %v", err)
	}
	if !totals.Quantity.Equal(dec(t, "8")) || !totals.Price.Equal(dec(t, "80.00")) {
		t.Fatalf("expected (8, 80.00), got (%s, %s)", totals.Quantity, totals.Price)
	}
}

func TestSplitTagSet_PartitionsAndSorts(t *testing.T) {
	nonDup, dup := splitTagSet(tagSetOf(5, 3, 9, 7), tagSetOf(7, 3))
	if len(nonDup) != 2 || nonDup[0] != 5 || nonDup[1] != 9 {
		t.Fatalf("nonDup: expected [5 9], got %v", nonDup)
	}
	if len(dup) != 2 || dup[0] != 3 || dup[1] != 7 {
		t.Fatalf("dup: expected [3 7], got %v", dup)
	}
}
