package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		name     string
		in       float64
		expected string
	}{
		{name: "half rounds up", in: 10.005, expected: "10.01"},
		{name: "below half rounds down", in: 10.004, expected: "10.00"},
		{name: "already exact", in: 150, expected: "150.00"},
		{name: "negative half away from zero", in: -10.005, expected: "-10.01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Round(decimal.NewFromFloat(tc.in)).StringFixed(2)
			if got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestEqualWithinEpsilon(t *testing.T) {
	a := decimal.NewFromFloat(1000)
	b := decimal.NewFromFloat(999.99)
	if !Equal(a, b) {
		t.Fatalf("expected 1000 and 999.99 to be equal within epsilon")
	}
	c := decimal.NewFromFloat(999.98)
	if Equal(a, c) {
		t.Fatalf("expected 1000 and 999.98 to differ")
	}
}

func TestClampZero(t *testing.T) {
	if !ClampZero(decimal.NewFromFloat(-5)).IsZero() {
		t.Fatalf("negative value should clamp to zero")
	}
	v := decimal.NewFromFloat(7.5)
	if !ClampZero(v).Equal(v) {
		t.Fatalf("positive value should pass through")
	}
}
