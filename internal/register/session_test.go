package register

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

func TestComputeClose(t *testing.T) {
	cases := []struct {
		name         string
		openingCash  float64
		cashSales    float64
		countedCash  float64
		expectedCash string
		difference   string
	}{
		{
			name:         "drawer short",
			openingCash:  1000,
			cashSales:    4500,
			countedCash:  5400,
			expectedCash: "5500.00",
			difference:   "-100.00",
		},
		{
			name:         "drawer balanced",
			openingCash:  1000,
			cashSales:    4500,
			countedCash:  5500,
			expectedCash: "5500.00",
			difference:   "0.00",
		},
		{
			name:         "drawer over",
			openingCash:  500,
			cashSales:    0,
			countedCash:  520,
			expectedCash: "500.00",
			difference:   "20.00",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ComputeClose(dec(tc.openingCash), dec(tc.cashSales), dec(tc.countedCash))
			if got := result.ExpectedCash.StringFixed(2); got != tc.expectedCash {
				t.Fatalf("expected cash %s, got %s", tc.expectedCash, got)
			}
			if got := result.CashDifference.StringFixed(2); got != tc.difference {
				t.Fatalf("expected difference %s, got %s", tc.difference, got)
			}
		})
	}
}

func TestComputeCloseIgnoresNonCashSales(t *testing.T) {
	// Card and JazzCash never enter the drawer: expected cash is opening
	// float plus cash sales only, regardless of other tender totals.
	result := ComputeClose(dec(1000), dec(2000), dec(3000))
	if got := result.ExpectedCash.StringFixed(2); got != "3000.00" {
		t.Fatalf("expected 3000.00, got %s", got)
	}
	if got := result.CashDifference.StringFixed(2); got != "0.00" {
		t.Fatalf("expected 0.00 difference, got %s", got)
	}
}
