package money

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance used when comparing recorded payments against
// an order total. Amounts closer than one minor unit cent are equal.
var Epsilon = decimal.NewFromFloat(0.01)

var Zero = decimal.Zero

// Round rounds to the currency's minor-unit precision (2 decimals),
// half away from zero. Every amount is rounded at the point of charge.
func Round(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

func FromFloat(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// Equal reports whether two amounts agree within Epsilon.
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// ClampZero floors a value at zero. Discounts can never push a subtotal
// negative.
func ClampZero(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}

func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// FromNumeric converts a scanned pgtype.Numeric into a decimal. Invalid
// (NULL) values become zero.
func FromNumeric(value pgtype.Numeric) decimal.Decimal {
	if !value.Valid || value.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value.Int, value.Exp)
}

// FromNumericPtr converts a nullable numeric, preserving NULL as nil.
func FromNumericPtr(value pgtype.Numeric) *decimal.Decimal {
	if !value.Valid || value.Int == nil {
		return nil
	}
	d := decimal.NewFromBigInt(value.Int, value.Exp)
	return &d
}

// Arg renders an amount for use as a pgx query argument against a
// numeric column.
func Arg(value decimal.Decimal) string {
	return value.StringFixed(2)
}
