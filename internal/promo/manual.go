package promo

import (
	"github.com/shopspring/decimal"

	"zaiqa-pos/internal/money"
)

type ManualDiscount struct {
	DiscountAmount decimal.Decimal
	Reason         string
}

var oneHundred = decimal.NewFromInt(100)

// ApplyManualDiscount computes a staff-entered discount. Percentage
// values must lie in (0,100]; any discount is capped at the subtotal so
// a total can never go negative.
func ApplyManualDiscount(subtotal decimal.Decimal, discountType DiscountType, value decimal.Decimal, reason string) (ManualDiscount, *Error) {
	if !value.IsPositive() {
		return ManualDiscount{}, ValidationError(ErrInvalidDiscount, "Discount value must be greater than zero", map[string]any{
			"value": value.String(),
		})
	}

	var amount decimal.Decimal
	switch discountType {
	case DiscountPercentage:
		if value.GreaterThan(oneHundred) {
			return ManualDiscount{}, ValidationError(ErrInvalidDiscount, "Percentage discount cannot exceed 100", map[string]any{
				"value": value.String(),
			})
		}
		amount = subtotal.Mul(value).Div(oneHundred)
	case DiscountFixed:
		amount = value
	default:
		return ManualDiscount{}, ValidationError(ErrInvalidDiscount, "Unknown discount type", map[string]any{
			"type": string(discountType),
		})
	}

	amount = money.Round(money.Min(amount, subtotal))
	if reason == "" {
		reason = "Manual discount"
	}
	return ManualDiscount{DiscountAmount: amount, Reason: reason}, nil
}
