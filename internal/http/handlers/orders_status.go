package handlers

import (
	"net/http"
	"strings"

	"zaiqa-pos/internal/order"
	"zaiqa-pos/pkg/response"

	"go.uber.org/zap"
)

type orderStatusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) OrderStatusPatch(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := mustAuth(w, r)
	if !ok {
		return
	}
	orderID, err := readPathInt64(r, "orderId")
	if err != nil {
		badRequest(w, "Invalid order id")
		return
	}

	var payload orderStatusPayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	requested := order.Status(strings.ToUpper(strings.TrimSpace(payload.Status)))
	if requested == "" {
		badRequest(w, "status is required")
		return
	}

	if authCtx.BranchID != nil {
		existing, oerr := h.Ledger.GetByID(r.Context(), orderID)
		if oerr != nil {
			response.ErrorDetails(w, oerr.StatusCode, string(oerr.Code), oerr.Message, oerr.Details)
			return
		}
		if existing.BranchID != *authCtx.BranchID {
			response.Error(w, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
			return
		}
	}

	updated, oerr := h.Ledger.UpdateStatus(r.Context(), orderID, requested, authCtx.Role)
	if oerr != nil {
		response.ErrorDetails(w, oerr.StatusCode, string(oerr.Code), oerr.Message, oerr.Details)
		return
	}

	h.Logger.Info("order status changed",
		zap.Int64("orderId", updated.ID),
		zap.String("status", string(updated.Status)),
		zap.Int64("actorId", authCtx.UserID))
	response.Success(w, updated)
}
