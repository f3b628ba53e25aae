package utils

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSafePercent(t *testing.T) {
	cases := []struct {
		part, whole, want string
	}{
		{"25", "200", "12.5"},
		{"80", "0", "0"},
		{"80", "-10", "0"},
		{"0", "100", "0"},
	}
	for _, tc := range cases {
		part, _ := decimal.NewFromString(tc.part)
		whole, _ := decimal.NewFromString(tc.whole)
		want, _ := decimal.NewFromString(tc.want)
		if got := SafePercent(part, whole); !got.Equal(want) {
			t.Fatalf("SafePercent(%s, %s) = %s, want %s", tc.part, tc.whole, got, want)
		}
	}
}

func TestSafeDiv_ZeroDenominator(t *testing.T) {
	a, _ := decimal.NewFromString("42")
	if got := SafeDiv(a, decimal.Zero); !got.IsZero() {
		t.Fatalf("SafeDiv(42, 0) = %s, want 0", got)
	}
}

func TestExecTemplate(t *testing.T) {
	sql, err := ExecTemplate(`SELECT * FROM t{{if .Ranged}} WHERE count_date >= @fromDate{{end}}`,
		map[string]interface{}{"Ranged": true})
	if err != nil {
		t.Fatalf("ExecTemplate: %v", err)
	}
	if !strings.Contains(sql, "WHERE count_date >= @fromDate") {
		t.Fatalf("conditional clause missing: %q", sql)
	}

	sql, err = ExecTemplate(`SELECT * FROM t{{if .Ranged}} WHERE count_date >= @fromDate{{end}}`,
		map[string]interface{}{"Ranged": false})
	if err != nil {
		t.Fatalf("ExecTemplate: %v", err)
	}
	if strings.Contains(sql, "WHERE") {
		t.Fatalf("clause must be omitted when unranged: %q", sql)
	}
}

func TestExecTemplate_ParseError(t *testing.T) {
	if _, err := ExecTemplate(`{{if}`, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}
