package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"zaiqa-pos/internal/delivery"
	"zaiqa-pos/internal/money"
	"zaiqa-pos/internal/order"
	"zaiqa-pos/internal/promo"
	"zaiqa-pos/pkg/response"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type orderItemPayload struct {
	ItemID    int64           `json:"itemId"`
	ItemName  string          `json:"itemName"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int32           `json:"quantity"`
	Variant   *string         `json:"variant"`
	Notes     *string         `json:"notes"`
}

type publicOrderCreatePayload struct {
	BranchID        int64              `json:"branchId"`
	OrderType       string             `json:"orderType"`
	Items           []orderItemPayload `json:"items"`
	CustomerID      *int64             `json:"customerId"`
	CustomerName    *string            `json:"customerName"`
	CustomerPhone   *string            `json:"customerPhone"`
	DeliveryAddress *string            `json:"deliveryAddress"`
	DistanceKm      *decimal.Decimal   `json:"deliveryDistanceKm"`
	PromoCode       *string            `json:"promoCode"`
	Notes           *string            `json:"notes"`
}

func itemInputs(payload []orderItemPayload) []order.ItemInput {
	items := make([]order.ItemInput, 0, len(payload))
	for _, item := range payload {
		items = append(items, order.ItemInput{
			ItemID:    item.ItemID,
			ItemName:  item.ItemName,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Variant:   item.Variant,
			Notes:     item.Notes,
		})
	}
	return items
}

func payloadSubtotal(payload []orderItemPayload) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range payload {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return money.Round(subtotal)
}

// PublicOrderCreate takes an online order: price the delivery, burn the
// promo code, then persist. Promo redemption happens before the order
// insert, so a crash in between can leave a redeemed code without an
// order; the redemption log makes those findable.
func (h *Handler) PublicOrderCreate(w http.ResponseWriter, r *http.Request) {
	var payload publicOrderCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if payload.BranchID <= 0 {
		badRequest(w, "branchId is required")
		return
	}
	if len(payload.Items) == 0 {
		badRequest(w, "At least one item is required")
		return
	}

	orderType := order.Type(strings.ToUpper(strings.TrimSpace(payload.OrderType)))
	if orderType != order.TypeDelivery && orderType != order.TypePickup {
		badRequest(w, "orderType must be DELIVERY or PICKUP")
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
		cfg, err := delivery.LoadConfig(ctx, h.DB, h.Logger, payload.BranchID)
		if err != nil {
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
	if payload.PromoCode != nil && strings.TrimSpace(*payload.PromoCode) != "" {
		result, perr := promo.Redeem(ctx, h.DB, promo.RedeemParams{
			Code:       *payload.PromoCode,
			Subtotal:   subtotal,
			BranchID:   payload.BranchID,
			CustomerID: payload.CustomerID,
		})
		if perr != nil {
			response.ErrorDetails(w, perr.StatusCode, string(perr.Code), perr.Message, perr.Details)
			return
		}
		discount = result.DiscountAmount
		discountReason = &result.Reason
		promoCodeID = &result.PromoCodeID
	}

	created, oerr := h.Ledger.Create(ctx, order.CreateParams{
		BranchID:        payload.BranchID,
		Items:           itemInputs(payload.Items),
		Type:            orderType,
		Source:          order.SourceOnline,
		CustomerID:      payload.CustomerID,
		CustomerName:    payload.CustomerName,
		CustomerPhone:   payload.CustomerPhone,
		DeliveryAddress: payload.DeliveryAddress,
		Notes:           payload.Notes,
		DiscountAmount:  discount,
		DiscountReason:  discountReason,
		PromoCodeID:     promoCodeID,
		DeliveryCharge:  deliveryCharge,
		DeliveryKm:      payload.DistanceKm,
	})
	if oerr != nil {
		response.ErrorDetails(w, oerr.StatusCode, string(oerr.Code), oerr.Message, oerr.Details)
		return
	}

	h.Logger.Info("online order placed",
		zap.String("orderNumber", created.OrderNumber),
		zap.Int64("branchId", created.BranchID),
		zap.String("total", created.Total.StringFixed(2)))
	response.Created(w, created)
}

func (h *Handler) PublicOrderDetail(w http.ResponseWriter, r *http.Request) {
	orderNumber := strings.TrimSpace(readPathString(r, "orderNumber"))
	if orderNumber == "" {
		badRequest(w, "Order number is required")
		return
	}
	branchID, err := strconv.ParseInt(r.URL.Query().Get("branchId"), 10, 64)
	if err != nil || branchID <= 0 {
		badRequest(w, "branchId query parameter is required")
		return
	}

	found, oerr := h.Ledger.GetByNumber(r.Context(), branchID, orderNumber)
	if oerr != nil {
		response.ErrorDetails(w, oerr.StatusCode, string(oerr.Code), oerr.Message, oerr.Details)
		return
	}
	response.Success(w, found)
}
