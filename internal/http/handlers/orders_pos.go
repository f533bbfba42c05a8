package handlers

import (
	"net/http"
	"strings"

	"zaiqa-pos/internal/delivery"
	"zaiqa-pos/internal/order"
	"zaiqa-pos/internal/promo"
	"zaiqa-pos/pkg/response"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type posOrderCreatePayload struct {
	BranchID        int64                  `json:"branchId"`
	OrderType       string                 `json:"orderType"`
	OrderSource     string                 `json:"orderSource"`
	Items           []orderItemPayload     `json:"items"`
	TableNumber     *string                `json:"tableNumber"`
	CustomerID      *int64                 `json:"customerId"`
	CustomerName    *string                `json:"customerName"`
	CustomerPhone   *string                `json:"customerPhone"`
	DeliveryAddress *string                `json:"deliveryAddress"`
	DistanceKm      *decimal.Decimal       `json:"deliveryDistanceKm"`
	PromoCode       *string                `json:"promoCode"`
	Discount        *manualDiscountPayload `json:"discount"`
	TillID          string                 `json:"tillId"`
	Notes           *string                `json:"notes"`
}

type manualDiscountPayload struct {
	Type   string          `json:"type"`
	Value  decimal.Decimal `json:"value"`
	Reason string          `json:"reason"`
}

// POSOrderCreate rings up a counter order. A manual discount and a
// promo code are mutually exclusive; the open till session, when one
// exists, is attached so payments roll into its totals.
func (h *Handler) POSOrderCreate(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := mustAuth(w, r)
	if !ok {
		return
	}

	var payload posOrderCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	branchID, err := resolveBranch(authCtx, payload.BranchID)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if len(payload.Items) == 0 {
		badRequest(w, "At least one item is required")
		return
	}

	orderType := order.TypeDineIn
	if payload.OrderType != "" {
		orderType = order.Type(strings.ToUpper(strings.TrimSpace(payload.OrderType)))
	}
	source := order.SourcePOS
	if strings.EqualFold(payload.OrderSource, string(order.SourcePhone)) {
		source = order.SourcePhone
	}
	if payload.Discount != nil && payload.PromoCode != nil {
		badRequest(w, "Provide either a discount or a promo code, not both")
		return
	}

	ctx := r.Context()
	subtotal := payloadSubtotal(payload.Items)

	deliveryCharge := decimal.Zero
	if orderType == order.TypeDelivery {
		if payload.DeliveryAddress == nil || strings.TrimSpace(*payload.DeliveryAddress) == "" {
			badRequest(w, "deliveryAddress is required for delivery orders")
			return
		}
		cfg, cfgErr := delivery.LoadConfig(ctx, h.DB, h.Logger, branchID)
		if cfgErr != nil {
			response.Error(w, http.StatusInternalServerError, "ORDER_INTERNAL", "Failed to price delivery")
			return
		}
		fee, derr := deliveryChargeFor(cfg, orderType, subtotal, payload.DistanceKm)
		if derr != nil {
			response.ErrorDetails(w, derr.StatusCode, string(derr.Code), derr.Message, derr.Details)
			return
		}
		deliveryCharge = fee
	}

	discount := decimal.Zero
	var discountReason *string
	var promoCodeID *int64
	switch {
	case payload.PromoCode != nil && strings.TrimSpace(*payload.PromoCode) != "":
		result, perr := promo.Redeem(ctx, h.DB, promo.RedeemParams{
			Code:       *payload.PromoCode,
			Subtotal:   subtotal,
			BranchID:   branchID,
			CustomerID: payload.CustomerID,
		})
		if perr != nil {
			response.ErrorDetails(w, perr.StatusCode, string(perr.Code), perr.Message, perr.Details)
			return
		}
		discount = result.DiscountAmount
		discountReason = &result.Reason
		promoCodeID = &result.PromoCodeID
	case payload.Discount != nil:
		manual, perr := promo.ApplyManualDiscount(
			subtotal,
			promo.DiscountType(strings.ToUpper(strings.TrimSpace(payload.Discount.Type))),
			payload.Discount.Value,
			payload.Discount.Reason,
		)
		if perr != nil {
			response.ErrorDetails(w, perr.StatusCode, string(perr.Code), perr.Message, perr.Details)
			return
		}
		discount = manual.DiscountAmount
		discountReason = &manual.Reason
	}

	var sessionID *int64
	tillID := payload.TillID
	if tillID == "" {
		tillID = "MAIN"
	}
	if open, serr := h.Sessions.CurrentOpen(ctx, branchID, tillID); serr == nil {
		sessionID = &open.ID
	}

	created, oerr := h.Ledger.Create(ctx, order.CreateParams{
		BranchID:        branchID,
		Items:           itemInputs(payload.Items),
		Type:            orderType,
		Source:          source,
		CustomerID:      payload.CustomerID,
		CustomerName:    payload.CustomerName,
		CustomerPhone:   payload.CustomerPhone,
		DeliveryAddress: payload.DeliveryAddress,
		TableNumber:     payload.TableNumber,
		Notes:           payload.Notes,
		DiscountAmount:  discount,
		DiscountReason:  discountReason,
		PromoCodeID:     promoCodeID,
		DeliveryCharge:  deliveryCharge,
		DeliveryKm:      payload.DistanceKm,
		SessionID:       sessionID,
	})
	if oerr != nil {
		response.ErrorDetails(w, oerr.StatusCode, string(oerr.Code), oerr.Message, oerr.Details)
		return
	}

	h.Logger.Info("pos order created",
		zap.String("orderNumber", created.OrderNumber),
		zap.Int64("branchId", created.BranchID),
		zap.Int64("cashierId", authCtx.UserID))
	response.Created(w, created)
}

func (h *Handler) POSOrderGet(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := mustAuth(w, r)
	if !ok {
		return
	}
	orderID, err := readPathInt64(r, "orderId")
	if err != nil {
		badRequest(w, "Invalid order id")
		return
	}

	found, oerr := h.Ledger.GetByID(r.Context(), orderID)
	if oerr != nil {
		response.ErrorDetails(w, oerr.StatusCode, string(oerr.Code), oerr.Message, oerr.Details)
		return
	}
	if authCtx.BranchID != nil && found.BranchID != *authCtx.BranchID {
		response.Error(w, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
		return
	}
	response.Success(w, found)
}
