package handlers

import (
	"net/http"

	"zaiqa-pos/internal/delivery"
	"zaiqa-pos/internal/order"
	"zaiqa-pos/pkg/response"

	"github.com/shopspring/decimal"
)

// deliveryChargeFor derives the stored delivery fee for an order.
// Non-delivery orders never carry a fee; delivery orders are priced
// entirely from branch configuration — amounts arriving from clients
// are advisory and never persisted.
func deliveryChargeFor(cfg delivery.Config, orderType order.Type, subtotal decimal.Decimal, distanceKm *decimal.Decimal) (decimal.Decimal, *delivery.Error) {
	if orderType != order.TypeDelivery {
		return decimal.Zero, nil
	}
	quote, derr := delivery.Calculate(cfg, subtotal, distanceKm)
	if derr != nil {
		return decimal.Zero, derr
	}
	return quote.Fee, nil
}

type deliveryQuotePayload struct {
	BranchID   int64            `json:"branchId"`
	Subtotal   decimal.Decimal  `json:"subtotal"`
	DistanceKm *decimal.Decimal `json:"distanceKm"`
}

func (h *Handler) PublicDeliveryQuote(w http.ResponseWriter, r *http.Request) {
	var payload deliveryQuotePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if payload.BranchID <= 0 {
		badRequest(w, "branchId is required")
		return
	}
	if payload.Subtotal.IsNegative() {
		badRequest(w, "subtotal cannot be negative")
		return
	}

	cfg, err := delivery.LoadConfig(r.Context(), h.DB, h.Logger, payload.BranchID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "ORDER_INTERNAL", "Failed to price delivery")
		return
	}
	quote, derr := delivery.Calculate(cfg, payload.Subtotal, payload.DistanceKm)
	if derr != nil {
		response.ErrorDetails(w, derr.StatusCode, string(derr.Code), derr.Message, derr.Details)
		return
	}

	response.Success(w, map[string]any{
		"fee":          quote.Fee,
		"freeDelivery": quote.FreeDelivery,
		"distanceKm":   quote.DistanceKm,
	})
}
