package delivery

import (
	"net/http"

	"github.com/shopspring/decimal"

	"zaiqa-pos/internal/money"
)

type PricingModel string

const (
	PricingStatic  PricingModel = "STATIC"
	PricingDynamic PricingModel = "DYNAMIC"
)

type ErrorCode string

const (
	ErrDistanceRequired   ErrorCode = "DISTANCE_REQUIRED"
	ErrOutOfDeliveryRange ErrorCode = "OUT_OF_DELIVERY_RANGE"
)

type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

type Config struct {
	BranchID              int64
	PricingModel          PricingModel
	StaticCharge          decimal.Decimal
	BaseCharge            decimal.Decimal
	PerKmCharge           decimal.Decimal
	MaxDistanceKm         *decimal.Decimal
	FreeDeliveryThreshold *decimal.Decimal
}

// DefaultConfig is used when a branch has no delivery configuration.
// Checkout is never blocked on missing configuration; the caller logs
// the fallback and proceeds with this static baseline.
var DefaultConfig = Config{
	PricingModel: PricingStatic,
	StaticCharge: decimal.NewFromInt(50),
}

type Quote struct {
	Fee          decimal.Decimal
	FreeDelivery bool
	DistanceKm   *decimal.Decimal
}

// Calculate prices a delivery. The free-delivery threshold is evaluated
// before the pricing model, so a qualifying subtotal is free under
// either model. Dynamic pricing requires a distance and rejects orders
// beyond the configured range instead of capping the fee.
func Calculate(cfg Config, subtotal decimal.Decimal, distanceKm *decimal.Decimal) (Quote, *Error) {
	if cfg.FreeDeliveryThreshold != nil && subtotal.GreaterThanOrEqual(*cfg.FreeDeliveryThreshold) {
		return Quote{Fee: decimal.Zero, FreeDelivery: true, DistanceKm: distanceKm}, nil
	}

	if cfg.PricingModel == PricingStatic {
		return Quote{Fee: money.Round(cfg.StaticCharge), DistanceKm: distanceKm}, nil
	}

	if distanceKm == nil {
		return Quote{}, &Error{
			Code:       ErrDistanceRequired,
			Message:    "Delivery distance is required for this branch",
			StatusCode: http.StatusBadRequest,
		}
	}
	if cfg.MaxDistanceKm != nil && distanceKm.GreaterThan(*cfg.MaxDistanceKm) {
		return Quote{}, &Error{
			Code:       ErrOutOfDeliveryRange,
			Message:    "Delivery address is outside the branch's delivery range",
			StatusCode: http.StatusBadRequest,
			Details: map[string]any{
				"distanceKm":    distanceKm.String(),
				"maxDistanceKm": cfg.MaxDistanceKm.String(),
			},
		}
	}

	fee := money.Round(cfg.BaseCharge.Add(cfg.PerKmCharge.Mul(*distanceKm)))
	return Quote{Fee: fee, DistanceKm: distanceKm}, nil
}
