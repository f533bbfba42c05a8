package handlers

import (
	"net/http"
	"strings"

	"zaiqa-pos/internal/promo"
	"zaiqa-pos/pkg/response"

	"github.com/shopspring/decimal"
)

type promoValidatePayload struct {
	Code       string          `json:"code"`
	BranchID   int64           `json:"branchId"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	CustomerID *int64          `json:"customerId"`
}

// PublicPromoValidate dry-runs a promo code against a cart. Nothing is
// consumed; the code can still hit its usage limit between this check
// and checkout.
func (h *Handler) PublicPromoValidate(w http.ResponseWriter, r *http.Request) {
	var payload promoValidatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(payload.Code) == "" {
		badRequest(w, "code is required")
		return
	}
	if payload.BranchID <= 0 {
		badRequest(w, "branchId is required")
		return
	}

	result, perr := promo.Validate(r.Context(), h.DB, promo.RedeemParams{
		Code:       payload.Code,
		Subtotal:   payload.Subtotal,
		BranchID:   payload.BranchID,
		CustomerID: payload.CustomerID,
	})
	if perr != nil {
		response.ErrorDetails(w, perr.StatusCode, string(perr.Code), perr.Message, perr.Details)
		return
	}

	response.Success(w, map[string]any{
		"code":           result.Code,
		"discountAmount": result.DiscountAmount,
		"reason":         result.Reason,
	})
}
