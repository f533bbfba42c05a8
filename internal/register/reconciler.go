package register

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"zaiqa-pos/internal/money"
)

type Reconciler struct {
	DB     *pgxpool.Pool
	Logger *zap.Logger
}

// Open starts a register shift with the counted opening float. The
// partial unique index on (branch, till, status=OPEN) is the real
// guard: two concurrent opens race to the same index entry and the
// loser gets SESSION_ALREADY_OPEN.
func (r *Reconciler) Open(ctx context.Context, branchID int64, tillID string, cashierID int64, openingCash decimal.Decimal) (*Session, *Error) {
	if openingCash.IsNegative() {
		return nil, businessError(ErrValidation, "Opening cash cannot be negative", nil)
	}
	if tillID == "" {
		tillID = "MAIN"
	}

	session := &Session{
		SessionNumber: time.Now().Format("20060102-150405"),
		BranchID:      branchID,
		TillID:        tillID,
		OpenedBy:      cashierID,
		OpeningCash:   money.Round(openingCash),
		Status:        StatusOpen,
	}

	err := r.DB.QueryRow(ctx, `
		insert into pos_sessions (session_number, branch_id, till_id, opened_by, opening_cash, updated_at)
		values ($1,$2,$3,$4,$5, now())
		returning id, opened_at
	`, session.SessionNumber, branchID, tillID, cashierID, money.Arg(session.OpeningCash)).Scan(&session.ID, &session.OpenedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, businessError(ErrSessionAlreadyOpen, "An open session already exists for this till", map[string]any{
				"branchId": branchID,
				"tillId":   tillID,
			})
		}
		r.Logger.Error("session open failed", zap.Error(err))
		return nil, internalError("Failed to open session")
	}

	return session, nil
}

// ApplyPayment posts one payment into the session's running totals.
// The unique payment_id entry row makes replays no-ops, so the update
// is applied exactly once per payment; a payment arriving after close
// is rejected rather than silently mutating a closed session.
func (r *Reconciler) ApplyPayment(ctx context.Context, sessionID int64, paymentID uuid.UUID, orderID int64, method string, amount decimal.Decimal) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return internalError("Failed to update session totals")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status Status
	err = tx.QueryRow(ctx, `select status from pos_sessions where id = $1 for update`, sessionID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundError()
	}
	if err != nil {
		return internalError("Failed to update session totals")
	}
	if status == StatusClosed {
		return businessError(ErrSessionClosed, "Session is closed; payment recorded but not attributed", map[string]any{
			"sessionId": sessionID,
			"paymentId": paymentID.String(),
		})
	}

	tag, err := tx.Exec(ctx, `
		insert into pos_session_entries (session_id, payment_id, order_id, method, amount)
		values ($1,$2,$3,$4,$5)
		on conflict (payment_id) do nothing
	`, sessionID, paymentID, orderID, method, money.Arg(amount))
	if err != nil {
		return internalError("Failed to update session totals")
	}
	if tag.RowsAffected() == 0 {
		// Already applied; replay is a no-op.
		return tx.Commit(ctx)
	}

	column := ""
	switch method {
	case "CASH":
		column = "cash_sales"
	case "CARD":
		column = "card_sales"
	case "JAZZCASH":
		column = "jazzcash_sales"
	default:
		return businessError(ErrValidation, "Unknown payment method", map[string]any{"method": method})
	}

	// One order can settle through several legs; the order counter moves
	// only on the first entry seen for it.
	var entriesForOrder int32
	if err := tx.QueryRow(ctx, `
		select count(*) from pos_session_entries where session_id = $1 and order_id = $2
	`, sessionID, orderID).Scan(&entriesForOrder); err != nil {
		return internalError("Failed to update session totals")
	}
	orderIncrement := 0
	if entriesForOrder == 1 {
		orderIncrement = 1
	}

	if _, err := tx.Exec(ctx, `
		update pos_sessions
		set `+column+` = `+column+` + $1,
		    total_sales = total_sales + $1,
		    total_orders = total_orders + $2,
		    updated_at = now()
		where id = $3
	`, money.Arg(amount), orderIncrement, sessionID); err != nil {
		return internalError("Failed to update session totals")
	}

	return tx.Commit(ctx)
}

// Close reconciles and seals the session. Totals are whatever was
// attributed in real time; closing never re-aggregates from the orders
// table, and a closed session is immutable from here on.
func (r *Reconciler) Close(ctx context.Context, sessionID int64, countedCash decimal.Decimal) (*Session, *Error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, internalError("Failed to close session")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		status      Status
		openingCash pgtype.Numeric
		cashSales   pgtype.Numeric
	)
	err = tx.QueryRow(ctx, `
		select status, opening_cash, cash_sales from pos_sessions where id = $1 for update
	`, sessionID).Scan(&status, &openingCash, &cashSales)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFoundError()
	}
	if err != nil {
		return nil, internalError("Failed to close session")
	}
	if status == StatusClosed {
		return nil, businessError(ErrSessionClosed, "Session is already closed", map[string]any{"sessionId": sessionID})
	}

	result := ComputeClose(money.FromNumeric(openingCash), money.FromNumeric(cashSales), money.Round(countedCash))

	if _, err := tx.Exec(ctx, `
		update pos_sessions
		set status = 'CLOSED',
		    closing_cash = $1,
		    expected_cash = $2,
		    cash_difference = $3,
		    closed_at = now(),
		    updated_at = now()
		where id = $4
	`, money.Arg(money.Round(countedCash)), money.Arg(result.ExpectedCash), money.Arg(result.CashDifference), sessionID); err != nil {
		return nil, internalError("Failed to close session")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, internalError("Failed to close session")
	}

	return r.GetByID(ctx, sessionID)
}

func (r *Reconciler) GetByID(ctx context.Context, sessionID int64) (*Session, *Error) {
	return r.get(ctx, `where id = $1`, sessionID)
}

// CurrentOpen returns the open session for a branch+till, if any.
func (r *Reconciler) CurrentOpen(ctx context.Context, branchID int64, tillID string) (*Session, *Error) {
	if tillID == "" {
		tillID = "MAIN"
	}
	return r.get(ctx, `where branch_id = $1 and till_id = $2 and status = 'OPEN'`, branchID, tillID)
}

func (r *Reconciler) get(ctx context.Context, where string, args ...any) (*Session, *Error) {
	var (
		s           Session
		openingCash pgtype.Numeric
		totalSales  pgtype.Numeric
		cashSales   pgtype.Numeric
		cardSales   pgtype.Numeric
		jazzSales   pgtype.Numeric
		closingCash pgtype.Numeric
		expected    pgtype.Numeric
		difference  pgtype.Numeric
		closedAt    pgtype.Timestamptz
	)

	err := r.DB.QueryRow(ctx, `
		select id, session_number, branch_id, till_id, opened_by, opening_cash,
		       total_sales, total_orders, cash_sales, card_sales, jazzcash_sales,
		       closing_cash, expected_cash, cash_difference, status, opened_at, closed_at
		from pos_sessions
	`+where, args...).Scan(
		&s.ID, &s.SessionNumber, &s.BranchID, &s.TillID, &s.OpenedBy, &openingCash,
		&totalSales, &s.TotalOrders, &cashSales, &cardSales, &jazzSales,
		&closingCash, &expected, &difference, &s.Status, &s.OpenedAt, &closedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFoundError()
	}
	if err != nil {
		r.Logger.Error("session load failed", zap.Error(err))
		return nil, internalError("Failed to load session")
	}

	s.OpeningCash = money.FromNumeric(openingCash)
	s.TotalSales = money.FromNumeric(totalSales)
	s.CashSales = money.FromNumeric(cashSales)
	s.CardSales = money.FromNumeric(cardSales)
	s.JazzCashSales = money.FromNumeric(jazzSales)
	s.ClosingCash = money.FromNumericPtr(closingCash)
	s.ExpectedCash = money.FromNumericPtr(expected)
	s.CashDifference = money.FromNumericPtr(difference)
	if closedAt.Valid {
		s.ClosedAt = &closedAt.Time
	}
	return &s, nil
}
