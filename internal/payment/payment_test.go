package payment

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

func TestValidateSplitLegs(t *testing.T) {
	total := dec(1000)

	cases := []struct {
		name       string
		legs       []SplitLeg
		expectCode ErrorCode
	}{
		{
			name: "cash and card covering total",
			legs: []SplitLeg{
				{Method: MethodCash, Amount: dec(700)},
				{Method: MethodCard, Amount: dec(300)},
			},
		},
		{
			name: "sum within epsilon accepted",
			legs: []SplitLeg{
				{Method: MethodCash, Amount: dec(700)},
				{Method: MethodCard, Amount: dec(299.99)},
			},
		},
		{
			name: "sum off by two cents rejected",
			legs: []SplitLeg{
				{Method: MethodCash, Amount: dec(700)},
				{Method: MethodCard, Amount: dec(299.98)},
			},
			expectCode: ErrSplitAmountMismatch,
		},
		{
			name: "over total rejected",
			legs: []SplitLeg{
				{Method: MethodCash, Amount: dec(700)},
				{Method: MethodCard, Amount: dec(400)},
			},
			expectCode: ErrSplitAmountMismatch,
		},
		{
			name:       "single leg is not a split",
			legs:       []SplitLeg{{Method: MethodCash, Amount: dec(1000)}},
			expectCode: ErrValidation,
		},
		{
			name: "unknown method rejected",
			legs: []SplitLeg{
				{Method: Method("CHEQUE"), Amount: dec(700)},
				{Method: MethodCard, Amount: dec(300)},
			},
			expectCode: ErrValidation,
		},
		{
			name: "non-positive leg rejected",
			legs: []SplitLeg{
				{Method: MethodCash, Amount: dec(1000)},
				{Method: MethodCard, Amount: dec(0)},
			},
			expectCode: ErrValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSplitLegs(tc.legs, total)
			if tc.expectCode == "" {
				if err != nil {
					t.Fatalf("expected split to validate, got %v", err)
				}
				return
			}
			if err == nil || err.Code != tc.expectCode {
				t.Fatalf("expected %s, got %v", tc.expectCode, err)
			}
		})
	}
}

func TestCheckSingleAmount(t *testing.T) {
	outstanding := dec(550)

	cases := []struct {
		name       string
		method     Method
		amount     decimal.Decimal
		expectCode ErrorCode
	}{
		{name: "card exact", method: MethodCard, amount: dec(550)},
		{name: "card within epsilon", method: MethodCard, amount: dec(549.99)},
		{name: "card short", method: MethodCard, amount: dec(500), expectCode: ErrAmountMismatch},
		{name: "card over", method: MethodCard, amount: dec(600), expectCode: ErrAmountMismatch},
		{name: "jazzcash exact", method: MethodJazzCash, amount: dec(550)},
		{name: "cash exact", method: MethodCash, amount: dec(550)},
		{name: "cash over is fine", method: MethodCash, amount: dec(1000)},
		{name: "cash short", method: MethodCash, amount: dec(500), expectCode: ErrAmountMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkSingleAmount(tc.method, tc.amount, outstanding)
			if tc.expectCode == "" {
				if err != nil {
					t.Fatalf("expected amount to pass, got %v", err)
				}
				return
			}
			if err == nil || err.Code != tc.expectCode {
				t.Fatalf("expected %s, got %v", tc.expectCode, err)
			}
		})
	}
}

func TestChangeDue(t *testing.T) {
	if got := ChangeDue(dec(550), dec(1000)).StringFixed(2); got != "450.00" {
		t.Fatalf("expected 450.00 change, got %s", got)
	}
	if got := ChangeDue(dec(550), dec(550)).StringFixed(2); got != "0.00" {
		t.Fatalf("expected no change, got %s", got)
	}
	if got := ChangeDue(dec(550), dec(500)).StringFixed(2); got != "0.00" {
		t.Fatalf("change never goes negative, got %s", got)
	}
}
