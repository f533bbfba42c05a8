package handlers

import (
	"errors"
	"net/http"
	"strings"

	"zaiqa-pos/internal/payment"
	"zaiqa-pos/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type paymentSinglePayload struct {
	Method               string          `json:"method"`
	Amount               decimal.Decimal `json:"amount"`
	Reference            *string         `json:"reference"`
	AwaitingVerification bool            `json:"awaitingVerification"`
}

func (h *Handler) PaymentSingle(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := mustAuth(w, r)
	if !ok {
		return
	}
	orderID, err := readPathInt64(r, "orderId")
	if err != nil {
		badRequest(w, "Invalid order id")
		return
	}

	var payload paymentSinglePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	result, perr := h.Payments.RecordSingle(r.Context(), payment.SingleParams{
		OrderID:              orderID,
		Method:               payment.Method(strings.ToUpper(strings.TrimSpace(payload.Method))),
		Amount:               payload.Amount,
		Reference:            payload.Reference,
		RecordedBy:           authCtx.UserID,
		AwaitingVerification: payload.AwaitingVerification,
	})
	if perr != nil {
		response.ErrorDetails(w, perr.StatusCode, string(perr.Code), perr.Message, perr.Details)
		return
	}

	h.Logger.Info("payment recorded",
		zap.Int64("orderId", orderID),
		zap.String("method", string(result.Record.Method)),
		zap.String("amount", result.Record.Amount.StringFixed(2)))
	response.Success(w, result)
}

type paymentSplitLegPayload struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference *string         `json:"reference"`
}

type paymentSplitPayload struct {
	Legs []paymentSplitLegPayload `json:"legs"`
}

func (h *Handler) PaymentSplit(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := mustAuth(w, r)
	if !ok {
		return
	}
	orderID, err := readPathInt64(r, "orderId")
	if err != nil {
		badRequest(w, "Invalid order id")
		return
	}

	var payload paymentSplitPayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	legs := make([]payment.SplitLeg, 0, len(payload.Legs))
	for _, leg := range payload.Legs {
		legs = append(legs, payment.SplitLeg{
			Method:    payment.Method(strings.ToUpper(strings.TrimSpace(leg.Method))),
			Amount:    leg.Amount,
			Reference: leg.Reference,
		})
	}

	records, perr := h.Payments.RecordSplit(r.Context(), orderID, legs, authCtx.UserID)
	if perr != nil {
		response.ErrorDetails(w, perr.StatusCode, string(perr.Code), perr.Message, perr.Details)
		return
	}

	h.Logger.Info("split payment recorded",
		zap.Int64("orderId", orderID),
		zap.Int("legs", len(records)))
	response.Success(w, map[string]any{"payments": records})
}

type paymentRefundPayload struct {
	Amount     *decimal.Decimal `json:"amount"`
	ManagerID  int64            `json:"managerId"`
	ManagerPIN string           `json:"managerPin"`
}

// PaymentRefund reverses a payment. Refunds need a manager's PIN even
// when the requesting token is staff; the PIN is checked against the
// stored bcrypt hash of an active admin user.
func (h *Handler) PaymentRefund(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := mustAuth(w, r)
	if !ok {
		return
	}
	paymentID, err := readPathInt64(r, "paymentId")
	if err != nil {
		badRequest(w, "Invalid payment id")
		return
	}

	var payload paymentRefundPayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	if err := h.verifyManagerPIN(r, payload.ManagerID, payload.ManagerPIN); err != nil {
		response.Error(w, http.StatusForbidden, "FORBIDDEN", "Manager approval required for refunds")
		return
	}

	record, perr := h.Payments.Refund(r.Context(), payment.RefundParams{
		PaymentID:  paymentID,
		Amount:     payload.Amount,
		RecordedBy: authCtx.UserID,
	})
	if perr != nil {
		response.ErrorDetails(w, perr.StatusCode, string(perr.Code), perr.Message, perr.Details)
		return
	}

	h.Logger.Info("payment refunded",
		zap.Int64("paymentId", paymentID),
		zap.String("amount", record.Amount.StringFixed(2)),
		zap.Int64("approvedBy", payload.ManagerID))
	response.Success(w, record)
}

func (h *Handler) verifyManagerPIN(r *http.Request, managerID int64, pin string) error {
	if managerID <= 0 || strings.TrimSpace(pin) == "" {
		return errors.New("manager credentials required")
	}
	var pinHash *string
	err := h.DB.QueryRow(r.Context(), `
		select pin_hash from staff_users
		where id = $1 and role = 'ADMIN' and is_active
	`, managerID).Scan(&pinHash)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && pinHash == nil) {
		return errors.New("manager not found")
	}
	if err != nil {
		h.Logger.Error("manager pin lookup failed", zap.Error(err))
		return err
	}
	return bcrypt.CompareHashAndPassword([]byte(*pinHash), []byte(pin))
}
