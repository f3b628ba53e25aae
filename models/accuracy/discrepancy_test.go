package accuracy

import (
	"context"
	"testing"

	"bitbucket.org/tallyworks/counts_backend/models"
)

func correction(t *testing.T, tagId int, counted, corrected, price string, reason models.CorrectionReason) models.Correction {
	t.Helper()
	return models.Correction{
		TagId:             tagId,
		ProductId:         "P-1",
		CountedQuantity:   dec(t, counted),
		CorrectedQuantity: dec(t, corrected),
		UnitPrice:         dec(t, price),
		Reason:            reason,
	}
}

func TestChargeable_ThresholdAndReason(t *testing.T) {
	cases := []struct {
		name string
		c    models.Correction
		want bool
	}{
		{"over threshold miscounted", correction(t, 1, "10", "2", "10.00", models.CorrectionReasonMiscounted), true},
		{"exactly 50 excluded", correction(t, 1, "10", "5", "10.00", models.CorrectionReasonMiscounted), false},
		{"under threshold excluded", correction(t, 1, "10", "9", "10.00", models.CorrectionReasonMiscounted), false},
		{"damaged excluded at any delta", correction(t, 1, "100", "0", "10.00", models.CorrectionReasonDamaged), false},
		{"not_counted excluded", correction(t, 1, "100", "0", "10.00", models.CorrectionReasonNotCounted), false},
		{"recount excluded", correction(t, 1, "100", "0", "10.00", models.CorrectionReasonRecount), false},
		{"negative delta taken absolute", correction(t, 1, "2", "10", "10.00", models.CorrectionReasonMiscounted), true},
	}
	for _, tc := range cases {
		if got := Chargeable(tc.c); got != tc.want {
			t.Fatalf("%s: Chargeable = %v, want %v (delta %s)", tc.name, got, tc.want, tc.c.DollarDelta())
		}
	}
}

func TestAttributeDiscrepancies_SkipsTagsNotCounted(t *testing.T) {
	corrections := []models.Correction{
		correction(t, 99, "10", "2", "10.00", models.CorrectionReasonMiscounted),
	}

	attr, err := AttributeDiscrepancies(context.Background(), "AB1234", tagSetOf(1, 2), tagSetOf(), corrections, NewOwnerResolver(&fakeRawSource{}))
	if err != nil {
		t.Fatalf("AttributeDiscrepancies: %v", err)
	}
	if !attr.Dollars.IsZero() || len(attr.TagIds) != 0 {
		t.Fatalf("event on uncounted tag must not charge: got $%s over %d tags", attr.Dollars, len(attr.TagIds))
	}
}

func TestAttributeDiscrepancies_ContestedTagOwnedByEmployee(t *testing.T) {
	raw := &fakeRawSource{owners: map[string]string{"1|P-1": "AB1234"}}
	corrections := []models.Correction{
		correction(t, 1, "10", "2", "10.00", models.CorrectionReasonMiscounted), // $80
	}

	attr, err := AttributeDiscrepancies(context.Background(), "AB1234", tagSetOf(1), tagSetOf(1), corrections, NewOwnerResolver(raw))
	if err != nil {
		t.Fatalf("AttributeDiscrepancies: %v", err)
	}
	if !attr.Dollars.Equal(dec(t, "80")) {
		t.Fatalf("expected $80 charged to the line-level owner, got $%s", attr.Dollars)
	}
	if len(attr.TagIds) != 1 {
		t.Fatalf("expected 1 discrepancy tag, got %d", len(attr.TagIds))
	}
}

func TestAttributeDiscrepancies_ContestedTagOwnedByOther(t *testing.T) {
	raw := &fakeRawSource{owners: map[string]string{"1|P-1": "CD5678"}}
	corrections := []models.Correction{
		correction(t, 1, "10", "2", "10.00", models.CorrectionReasonMiscounted),
	}

	attr, err := AttributeDiscrepancies(context.Background(), "AB1234", tagSetOf(1), tagSetOf(1), corrections, NewOwnerResolver(raw))
	if err != nil {
		t.Fatalf("AttributeDiscrepancies: %v", err)
	}
	if !attr.Dollars.IsZero() {
		t.Fatalf("event owned by another counter must be excluded, got $%s", attr.Dollars)
	}
}

func TestAttributeDiscrepancies_SharedOwnerChargesBothCounters(t *testing.T) {
	raw := &fakeRawSource{owners: map[string]string{"1|P-1": models.AddedItemOwnerCode}}
	corrections := []models.Correction{
		correction(t, 1, "10", "2", "10.00", models.CorrectionReasonMiscounted),
	}
	resolver := NewOwnerResolver(raw)

	for _, employeeId := range []string{"AB1234", "CD5678"} {
		attr, err := AttributeDiscrepancies(context.Background(), employeeId, tagSetOf(1), tagSetOf(1), corrections, resolver)
		if err != nil {
			t.Fatalf("AttributeDiscrepancies(%s): %v", employeeId, err)
		}
		if !attr.Dollars.Equal(dec(t, "80")) {
			t.Fatalf("shared blame: expected $80 for %s, got $%s", employeeId, attr.Dollars)
		}
	}
}

func TestAttributeDiscrepancies_ResolverErrorAborts(t *testing.T) {
	raw := &fakeRawSource{owners: map[string]string{}} // no line of record
	corrections := []models.Correction{
		correction(t, 1, "10", "2", "10.00", models.CorrectionReasonMiscounted),
	}

	_, err := AttributeDiscrepancies(context.Background(), "AB1234", tagSetOf(1), tagSetOf(1), corrections, NewOwnerResolver(raw))
	if err == nil {
		t.Fatalf("expected integrity error to propagate")
	}
	if kind := models.ErrorKindOf(err); kind != models.ErrKindIntegrity {
		t.Fatalf("expected integrity kind, got %q", kind)
	}
}

func TestAttributeZoneDiscrepancies_ByZoneId(t *testing.T) {
	corrections := []models.Correction{
		func() models.Correction {
			c := correction(t, 1, "10", "2", "10.00", models.CorrectionReasonMiscounted)
			c.ZoneId = 1
			return c
		}(),
		func() models.Correction {
			c := correction(t, 2, "20", "1", "10.00", models.CorrectionReasonMiscounted)
			c.ZoneId = 2
			return c
		}(),
		func() models.Correction {
			c := correction(t, 3, "100", "0", "10.00", models.CorrectionReasonDamaged)
			c.ZoneId = 1
			return c
		}(),
	}

	attr := AttributeZoneDiscrepancies(1, corrections)
	if !attr.Dollars.Equal(dec(t, "80")) {
		t.Fatalf("zone 1: expected $80 (damaged excluded, zone 2 excluded), got $%s", attr.Dollars)
	}
	if len(attr.TagIds) != 1 {
		t.Fatalf("zone 1: expected 1 discrepancy tag, got %d", len(attr.TagIds))
	}
}
