package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		amount   decimal.Decimal
		currency string
		want     string
	}{
		{decimal.NewFromInt(1250000), "KSH", "KSH 1,250,000"},
		{decimal.NewFromInt(999), "", "KSH 999"},
		{decimal.RequireFromString("2500000.6"), "usd", "USD 2,500,001"},
		{decimal.NewFromInt(100000000), "KSH", "KSH 100,000,000"},
		{decimal.NewFromInt(-4500), "KSH", "KSH -4,500"},
	}
	for _, tc := range cases {
		if got := FormatPrice(tc.amount, tc.currency); got != tc.want {
			t.Fatalf("FormatPrice(%s, %q) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestFormatMileage(t *testing.T) {
	if got := FormatMileage(78000); got != "78,000 km" {
		t.Fatalf("unexpected mileage %q", got)
	}
	if got := FormatMileage(0); got != "N/A" {
		t.Fatalf("expected N/A for zero mileage, got %q", got)
	}
}

func TestParseAmount(t *testing.T) {
	amount, ok := ParseAmount("KSH 1,200,000")
	if !ok || !amount.Equal(decimal.NewFromInt(1200000)) {
		t.Fatalf("unexpected amount %s ok=%v", amount, ok)
	}
	if _, ok := ParseAmount(""); ok {
		t.Fatal("expected empty input to be absent")
	}
	if _, ok := ParseAmount("cheap"); ok {
		t.Fatal("expected non-numeric input to be rejected")
	}
	if _, ok := ParseAmount("-5"); ok {
		t.Fatal("expected negative input to be rejected")
	}
}
