package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"zaiqa-pos/internal/money"
	"zaiqa-pos/internal/order"
)

// SessionNotifier is the reconciler's apply-payment hook. Notification
// is fire-and-confirm: a failed notify never rolls back the payment —
// the payment log is the source of truth and session totals can be
// audited against it.
type SessionNotifier interface {
	ApplyPayment(ctx context.Context, sessionID int64, paymentID uuid.UUID, orderID int64, method string, amount decimal.Decimal) error
}

type Processor struct {
	DB       *pgxpool.Pool
	Logger   *zap.Logger
	Sessions SessionNotifier
}

type SingleParams struct {
	OrderID    int64
	Method     Method
	Amount     decimal.Decimal
	Reference  *string
	RecordedBy int64
	// AwaitingVerification marks the order AWAITING_VERIFICATION instead
	// of PAID. Verification is an external, asynchronous fact (e.g. a
	// JazzCash submission pending manual review) that this component
	// cannot observe, so the caller supplies it explicitly.
	AwaitingVerification bool
}

type SingleResult struct {
	Record Record          `json:"payment"`
	Change decimal.Decimal `json:"change"`
}

func (p *Processor) RecordSingle(ctx context.Context, params SingleParams) (*SingleResult, *Error) {
	if !ValidMethod(params.Method) {
		return nil, businessError(ErrValidation, "Unknown payment method", map[string]any{"method": string(params.Method)})
	}
	if !params.Amount.IsPositive() {
		return nil, businessError(ErrValidation, "Payment amount must be positive", nil)
	}

	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return nil, internalError("Failed to record payment")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ord, perr := p.lockOrder(ctx, tx, params.OrderID)
	if perr != nil {
		return nil, perr
	}

	outstanding := money.Round(ord.total.Sub(ord.recorded))
	if !outstanding.IsPositive() {
		return nil, businessError(ErrOrderNotPayable, "Order is already fully paid", map[string]any{
			"orderTotal": ord.total.StringFixed(2),
		})
	}

	if perr := checkSingleAmount(params.Method, params.Amount, outstanding); perr != nil {
		return nil, perr
	}

	// Cash overpay is handed back as change; only the outstanding
	// balance is recorded.
	recordedAmount := money.Round(params.Amount)
	change := decimal.Zero
	if params.Method == MethodCash {
		change = ChangeDue(outstanding, params.Amount)
		recordedAmount = outstanding
	}

	record, perr := insertRecord(ctx, tx, Record{
		PublicID:   uuid.New(),
		OrderID:    ord.id,
		SessionID:  ord.sessionID,
		Method:     params.Method,
		Amount:     recordedAmount,
		Reference:  params.Reference,
		RecordedBy: params.RecordedBy,
		Status:     StatusCompleted,
	})
	if perr != nil {
		return nil, perr
	}

	nextStatus := order.PaymentPending
	if money.Equal(ord.recorded.Add(recordedAmount), ord.total) || ord.recorded.Add(recordedAmount).GreaterThan(ord.total) {
		nextStatus = order.PaymentPaid
	}
	if params.AwaitingVerification {
		nextStatus = order.PaymentAwaitingVerification
	}
	if _, err := tx.Exec(ctx, `
		update orders set payment_status = $1, payment_method = $2, updated_at = now() where id = $3
	`, nextStatus, params.Method, ord.id); err != nil {
		return nil, internalError("Failed to record payment")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, internalError("Failed to record payment")
	}

	p.notifySession(ctx, record)
	return &SingleResult{Record: *record, Change: change}, nil
}

func (p *Processor) RecordSplit(ctx context.Context, orderID int64, legs []SplitLeg, recordedBy int64) ([]Record, *Error) {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return nil, internalError("Failed to record payment")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ord, perr := p.lockOrder(ctx, tx, orderID)
	if perr != nil {
		return nil, perr
	}
	if !ord.recorded.IsZero() {
		return nil, businessError(ErrOrderNotPayable, "Split payment requires an unpaid order", map[string]any{
			"recorded": ord.recorded.StringFixed(2),
		})
	}

	// Legs must sum to the order total, not the outstanding balance:
	// split capture settles the whole order in one go.
	if perr := ValidateSplitLegs(legs, ord.total); perr != nil {
		return nil, perr
	}

	records := make([]Record, 0, len(legs))
	for _, leg := range legs {
		record, perr := insertRecord(ctx, tx, Record{
			PublicID:   uuid.New(),
			OrderID:    ord.id,
			SessionID:  ord.sessionID,
			Method:     leg.Method,
			Amount:     money.Round(leg.Amount),
			Reference:  leg.Reference,
			RecordedBy: recordedBy,
			Status:     StatusCompleted,
		})
		if perr != nil {
			return nil, perr
		}
		records = append(records, *record)
	}

	if _, err := tx.Exec(ctx, `
		update orders set payment_status = $1, payment_method = 'SPLIT', updated_at = now() where id = $2
	`, order.PaymentPaid, ord.id); err != nil {
		return nil, internalError("Failed to record payment")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, internalError("Failed to record payment")
	}

	for i := range records {
		p.notifySession(ctx, &records[i])
	}
	return records, nil
}

type RefundParams struct {
	PaymentID  int64
	Amount     *decimal.Decimal
	RecordedBy int64
}

// Refund issues a new negative-signed record against an original
// payment; the original's amount is never mutated. The refundable
// remainder shrinks with each partial refund.
func (p *Processor) Refund(ctx context.Context, params RefundParams) (*Record, *Error) {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return nil, internalError("Failed to refund payment")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		original  Record
		sessionID pgtype.Int8
		reference pgtype.Text
		amount    pgtype.Numeric
		refunded  pgtype.Numeric
	)
	err = tx.QueryRow(ctx, `
		select p.id, p.public_id, p.order_id, p.session_id, p.method, p.amount, p.reference, p.status,
		       coalesce((select -sum(r.amount) from payments r where r.refund_of = p.id), 0)
		from payments p
		where p.id = $1 and p.refund_of is null
		for update of p
	`, params.PaymentID).Scan(
		&original.ID, &original.PublicID, &original.OrderID, &sessionID,
		&original.Method, &amount, &reference, &original.Status, &refunded,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, businessError(ErrPaymentNotFound, "Payment not found", nil)
	}
	if err != nil {
		p.Logger.Error("refund lookup failed", zap.Error(err))
		return nil, internalError("Failed to refund payment")
	}
	original.Amount = money.FromNumeric(amount)
	if sessionID.Valid {
		original.SessionID = &sessionID.Int64
	}

	remaining := money.Round(original.Amount.Sub(money.FromNumeric(refunded)))
	refundAmount := remaining
	if params.Amount != nil {
		refundAmount = money.Round(*params.Amount)
	}
	if !refundAmount.IsPositive() {
		return nil, businessError(ErrValidation, "Refund amount must be positive", nil)
	}
	if refundAmount.Sub(money.Epsilon).GreaterThan(remaining) {
		return nil, businessError(ErrRefundExceedsOriginal, "Refund exceeds the unrefunded amount of this payment", map[string]any{
			"requested": refundAmount.StringFixed(2),
			"remaining": remaining.StringFixed(2),
		})
	}

	record, perr := insertRecord(ctx, tx, Record{
		PublicID:   uuid.New(),
		OrderID:    original.OrderID,
		SessionID:  original.SessionID,
		Method:     original.Method,
		Amount:     refundAmount.Neg(),
		RecordedBy: params.RecordedBy,
		Status:     StatusCompleted,
		RefundOf:   &original.ID,
	})
	if perr != nil {
		return nil, perr
	}

	if money.Equal(refundAmount, remaining) {
		if _, err := tx.Exec(ctx, `update payments set status = 'REFUNDED', updated_at = now() where id = $1`, original.ID); err != nil {
			return nil, internalError("Failed to refund payment")
		}
	}

	// The order drops back to REFUNDED only when nothing recorded
	// remains; partial refunds leave it PAID.
	var net pgtype.Numeric
	if err := tx.QueryRow(ctx, `
		select coalesce(sum(amount), 0) from payments where order_id = $1
	`, original.OrderID).Scan(&net); err != nil {
		return nil, internalError("Failed to refund payment")
	}
	if money.FromNumeric(net).LessThanOrEqual(money.Epsilon) {
		if _, err := tx.Exec(ctx, `update orders set payment_status = $1, updated_at = now() where id = $2`, order.PaymentRefunded, original.OrderID); err != nil {
			return nil, internalError("Failed to refund payment")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, internalError("Failed to refund payment")
	}

	p.notifySession(ctx, record)
	return record, nil
}

type lockedOrder struct {
	id        int64
	total     decimal.Decimal
	recorded  decimal.Decimal
	status    order.Status
	sessionID *int64
}

func (p *Processor) lockOrder(ctx context.Context, tx pgx.Tx, orderID int64) (*lockedOrder, *Error) {
	var (
		lo        lockedOrder
		total     pgtype.Numeric
		sessionID pgtype.Int8
	)
	err := tx.QueryRow(ctx, `
		select id, total_amount, status, session_id from orders where id = $1 for update
	`, orderID).Scan(&lo.id, &total, &lo.status, &sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &Error{Code: ErrOrderNotFound, Message: "Order not found", StatusCode: 404}
	}
	if err != nil {
		p.Logger.Error("payment order lookup failed", zap.Error(err))
		return nil, internalError("Failed to record payment")
	}
	lo.total = money.FromNumeric(total)
	if sessionID.Valid {
		lo.sessionID = &sessionID.Int64
	}

	if lo.status == order.StatusCancelled {
		return nil, businessError(ErrOrderNotPayable, "Cancelled orders cannot take payments", nil)
	}

	// Sum of non-refunded recording: refund rows are negative, so a
	// plain sum over non-refunded originals plus refund rows nets out.
	var recorded pgtype.Numeric
	if err := tx.QueryRow(ctx, `
		select coalesce(sum(amount), 0) from payments where order_id = $1
	`, orderID).Scan(&recorded); err != nil {
		return nil, internalError("Failed to record payment")
	}
	lo.recorded = money.FromNumeric(recorded)
	return &lo, nil
}

func insertRecord(ctx context.Context, tx pgx.Tx, record Record) (*Record, *Error) {
	err := tx.QueryRow(ctx, `
		insert into payments (public_id, order_id, session_id, method, amount, reference, recorded_by, status, refund_of, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9, now())
		returning id, created_at
	`,
		record.PublicID, record.OrderID, record.SessionID, record.Method,
		money.Arg(record.Amount), record.Reference, record.RecordedBy, record.Status, record.RefundOf,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, internalError("Failed to record payment")
	}
	return &record, nil
}

// notifySession posts the payment to its POS session after commit. A
// lost notification is an accepted inconsistency: it is logged here and
// reconciled against the payment log out-of-band, never by rolling the
// payment back.
func (p *Processor) notifySession(ctx context.Context, record *Record) {
	if p.Sessions == nil || record.SessionID == nil {
		return
	}
	err := p.Sessions.ApplyPayment(ctx, *record.SessionID, record.PublicID, record.OrderID, string(record.Method), record.Amount)
	if err != nil {
		p.Logger.Warn("session totals not updated for payment",
			zap.String("paymentId", record.PublicID.String()),
			zap.Int64("sessionId", *record.SessionID),
			zap.Error(err))
	}
}
