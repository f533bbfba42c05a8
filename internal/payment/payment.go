package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"zaiqa-pos/internal/money"
)

type Method string

const (
	MethodCash     Method = "CASH"
	MethodCard     Method = "CARD"
	MethodJazzCash Method = "JAZZCASH"
)

func ValidMethod(value Method) bool {
	switch value {
	case MethodCash, MethodCard, MethodJazzCash:
		return true
	}
	return false
}

type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusRefunded  Status = "REFUNDED"
)

type Record struct {
	ID         int64           `json:"id"`
	PublicID   uuid.UUID       `json:"publicId"`
	OrderID    int64           `json:"orderId"`
	SessionID  *int64          `json:"sessionId,omitempty"`
	Method     Method          `json:"method"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  *string         `json:"reference,omitempty"`
	RecordedBy int64           `json:"recordedBy"`
	Status     Status          `json:"status"`
	RefundOf   *int64          `json:"refundOf,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type SplitLeg struct {
	Method    Method
	Amount    decimal.Decimal
	Reference *string
}

// ValidateSplitLegs checks a split against the order total: every leg
// must use a known method and a positive amount, and the legs must sum
// to the total within the rounding epsilon. All-or-nothing — a failing
// split records no legs.
func ValidateSplitLegs(legs []SplitLeg, total decimal.Decimal) *Error {
	if len(legs) < 2 {
		return businessError(ErrValidation, "Split payment needs at least two legs", nil)
	}
	sum := decimal.Zero
	for i, leg := range legs {
		if !ValidMethod(leg.Method) {
			return businessError(ErrValidation, "Unknown payment method", map[string]any{"leg": i, "method": string(leg.Method)})
		}
		if !leg.Amount.IsPositive() {
			return businessError(ErrValidation, "Split leg amount must be positive", map[string]any{"leg": i})
		}
		sum = sum.Add(leg.Amount)
	}
	if !money.Equal(sum, total) {
		return businessError(ErrSplitAmountMismatch, "Split legs must sum to the order total", map[string]any{
			"legTotal":   sum.StringFixed(2),
			"orderTotal": total.StringFixed(2),
		})
	}
	return nil
}

// ChangeDue is the cash handed back when a tendered amount exceeds the
// outstanding balance. The excess is never persisted as a debt.
func ChangeDue(outstanding, tendered decimal.Decimal) decimal.Decimal {
	return money.Round(money.ClampZero(tendered.Sub(outstanding)))
}

// checkSingleAmount enforces §4.4: non-cash must match the outstanding
// balance exactly (within epsilon); cash may exceed it but not fall
// short.
func checkSingleAmount(method Method, amount, outstanding decimal.Decimal) *Error {
	if method == MethodCash {
		if amount.Add(money.Epsilon).LessThan(outstanding) {
			return businessError(ErrAmountMismatch, "Cash tendered is less than the outstanding balance", map[string]any{
				"amount":      amount.StringFixed(2),
				"outstanding": outstanding.StringFixed(2),
			})
		}
		return nil
	}
	if !money.Equal(amount, outstanding) {
		return businessError(ErrAmountMismatch, "Payment amount must equal the outstanding balance", map[string]any{
			"amount":      amount.StringFixed(2),
			"outstanding": outstanding.StringFixed(2),
		})
	}
	return nil
}
