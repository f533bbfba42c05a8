package promo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

func i32(v int32) *int32 { return &v }

func i64(v int64) *int64 { return &v }

func testCode() Code {
	until := time.Now().Add(24 * time.Hour)
	return Code{
		ID:             1,
		Code:           "WELCOME10",
		DiscountType:   DiscountPercentage,
		DiscountValue:  dec(10),
		MinOrderAmount: dec(500),
		ValidFrom:      time.Now().Add(-24 * time.Hour),
		ValidUntil:     &until,
		IsActive:       true,
	}
}

func TestEvaluateEligibilityOrder(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name       string
		mutate     func(c *Code)
		subtotal   decimal.Decimal
		branchID   int64
		userCount  int32
		expectCode ErrorCode
	}{
		{
			name:       "inactive reads as not found",
			mutate:     func(c *Code) { c.IsActive = false },
			subtotal:   dec(1000),
			expectCode: ErrPromoNotFound,
		},
		{
			name:       "not yet valid",
			mutate:     func(c *Code) { c.ValidFrom = now.Add(time.Hour) },
			subtotal:   dec(1000),
			expectCode: ErrPromoNotYetValid,
		},
		{
			name: "expired",
			mutate: func(c *Code) {
				past := now.Add(-time.Hour)
				c.ValidUntil = &past
			},
			subtotal:   dec(1000),
			expectCode: ErrPromoExpired,
		},
		{
			name:       "branch mismatch",
			mutate:     func(c *Code) { c.BranchID = i64(2) },
			subtotal:   dec(1000),
			branchID:   3,
			expectCode: ErrPromoBranchMismatch,
		},
		{
			name:       "below minimum order",
			mutate:     func(c *Code) {},
			subtotal:   dec(499.99),
			expectCode: ErrPromoMinOrderNotMet,
		},
		{
			name: "usage limit reached",
			mutate: func(c *Code) {
				c.UsageLimit = i32(5)
				c.UsageCount = 5
			},
			subtotal:   dec(1000),
			expectCode: ErrPromoUsageLimitReached,
		},
		{
			name:       "per-user limit reached",
			mutate:     func(c *Code) { c.PerUserLimit = i32(1) },
			subtotal:   dec(1000),
			userCount:  1,
			expectCode: ErrPromoPerUserLimitReached,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code := testCode()
			tc.mutate(&code)
			_, err := evaluate(code, now, tc.subtotal, tc.branchID, tc.userCount)
			if err == nil {
				t.Fatalf("expected %s, got success", tc.expectCode)
			}
			if err.Code != tc.expectCode {
				t.Fatalf("expected %s, got %s", tc.expectCode, err.Code)
			}
		})
	}
}

func TestEvaluateExpiryBeatsBranchMismatch(t *testing.T) {
	// First failing check wins: an expired, branch-scoped code reports
	// expiry, not the branch mismatch.
	code := testCode()
	past := time.Now().Add(-time.Hour)
	code.ValidUntil = &past
	code.BranchID = i64(9)

	_, err := evaluate(code, time.Now(), dec(1000), 1, 0)
	if err == nil || err.Code != ErrPromoExpired {
		t.Fatalf("expected PROMO_EXPIRED, got %v", err)
	}
}

func TestDiscountComputation(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(c *Code)
		subtotal decimal.Decimal
		expected string
	}{
		{
			name:     "percentage of subtotal",
			mutate:   func(c *Code) {},
			subtotal: dec(1000),
			expected: "100.00",
		},
		{
			name: "percentage capped by max discount",
			mutate: func(c *Code) {
				cap := dec(50)
				c.MaxDiscountAmount = &cap
			},
			subtotal: dec(1000),
			expected: "50.00",
		},
		{
			name: "fixed amount capped by subtotal",
			mutate: func(c *Code) {
				c.DiscountType = DiscountFixed
				c.DiscountValue = dec(800)
				c.MinOrderAmount = dec(0)
			},
			subtotal: dec(600),
			expected: "600.00",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code := testCode()
			tc.mutate(&code)
			amount, err := evaluate(code, time.Now(), tc.subtotal, 1, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := amount.StringFixed(2); got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestApplyManualDiscount(t *testing.T) {
	cases := []struct {
		name       string
		dType      DiscountType
		value      decimal.Decimal
		subtotal   decimal.Decimal
		expected   string
		expectCode ErrorCode
	}{
		{name: "percentage", dType: DiscountPercentage, value: dec(25), subtotal: dec(400), expected: "100.00"},
		{name: "fixed", dType: DiscountFixed, value: dec(150), subtotal: dec(400), expected: "150.00"},
		{name: "fixed capped at subtotal", dType: DiscountFixed, value: dec(500), subtotal: dec(400), expected: "400.00"},
		{name: "zero value rejected", dType: DiscountFixed, value: dec(0), subtotal: dec(400), expectCode: ErrInvalidDiscount},
		{name: "negative value rejected", dType: DiscountPercentage, value: dec(-5), subtotal: dec(400), expectCode: ErrInvalidDiscount},
		{name: "percentage above 100 rejected", dType: DiscountPercentage, value: dec(101), subtotal: dec(400), expectCode: ErrInvalidDiscount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ApplyManualDiscount(tc.subtotal, tc.dType, tc.value, "loyal customer")
			if tc.expectCode != "" {
				if err == nil || err.Code != tc.expectCode {
					t.Fatalf("expected %s, got %v", tc.expectCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := result.DiscountAmount.StringFixed(2); got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
			if result.Reason != "loyal customer" {
				t.Fatalf("expected reason to pass through, got %q", result.Reason)
			}
		})
	}
}
