package promo

import (
	"time"

	"github.com/shopspring/decimal"

	"zaiqa-pos/internal/money"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED_AMOUNT"
)

type Code struct {
	ID                int64
	Code              string
	DiscountType      DiscountType
	DiscountValue     decimal.Decimal
	MinOrderAmount    decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	UsageLimit        *int32
	PerUserLimit      *int32
	UsageCount        int32
	ValidFrom         time.Time
	ValidUntil        *time.Time
	BranchID          *int64
	IsActive          bool
}

type Result struct {
	PromoCodeID    int64
	Code           string
	DiscountAmount decimal.Decimal
	Reason         string
}

// evaluate runs the eligibility checks in the documented order; the
// first failing check wins. userRedemptions is the caller's prior
// redemption count for this code (zero when no customer is attached).
func evaluate(code Code, now time.Time, subtotal decimal.Decimal, branchID int64, userRedemptions int32) (decimal.Decimal, *Error) {
	if !code.IsActive {
		return decimal.Zero, ValidationError(ErrPromoNotFound, "Promo code not found", nil)
	}
	if now.Before(code.ValidFrom) {
		return decimal.Zero, ValidationError(ErrPromoNotYetValid, "Promo code is not valid yet", map[string]any{
			"validFrom": code.ValidFrom,
		})
	}
	if code.ValidUntil != nil && now.After(*code.ValidUntil) {
		return decimal.Zero, ValidationError(ErrPromoExpired, "Promo code has expired", map[string]any{
			"validUntil": *code.ValidUntil,
		})
	}
	if code.BranchID != nil && *code.BranchID != branchID {
		return decimal.Zero, ValidationError(ErrPromoBranchMismatch, "Promo code is not valid at this branch", map[string]any{
			"branchId": branchID,
		})
	}
	if subtotal.LessThan(code.MinOrderAmount) {
		return decimal.Zero, ValidationError(ErrPromoMinOrderNotMet, "Order does not meet the minimum amount for this promo", map[string]any{
			"minOrderAmount": code.MinOrderAmount.StringFixed(2),
			"subtotal":       subtotal.StringFixed(2),
		})
	}
	if code.UsageLimit != nil && code.UsageCount >= *code.UsageLimit {
		return decimal.Zero, ValidationError(ErrPromoUsageLimitReached, "Promo code usage limit reached", map[string]any{
			"usageLimit": *code.UsageLimit,
		})
	}
	if code.PerUserLimit != nil && userRedemptions >= *code.PerUserLimit {
		return decimal.Zero, ValidationError(ErrPromoPerUserLimitReached, "You have already used this promo code", map[string]any{
			"perUserLimit": *code.PerUserLimit,
		})
	}

	return discountFor(code, subtotal), nil
}

func discountFor(code Code, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	if code.DiscountType == DiscountPercentage {
		amount = subtotal.Mul(code.DiscountValue).Div(decimal.NewFromInt(100))
	} else {
		amount = code.DiscountValue
	}
	if code.MaxDiscountAmount != nil {
		amount = money.Min(amount, *code.MaxDiscountAmount)
	}
	amount = money.Min(amount, subtotal)
	return money.Round(money.ClampZero(amount))
}
