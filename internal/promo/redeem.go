package promo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"zaiqa-pos/internal/money"
)

type RedeemParams struct {
	Code       string
	Subtotal   decimal.Decimal
	BranchID   int64
	CustomerID *int64
	OrderID    *int64
}

// Redeem validates the code and, on success, increments its usage
// counters and records the redemption inside one transaction. The row
// lock plus the guarded update keep two concurrent redemptions from
// both passing the usage check.
func Redeem(ctx context.Context, db *pgxpool.Pool, params RedeemParams) (*Result, *Error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, internalError()
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, perr := redeemTx(ctx, tx, params)
	if perr != nil {
		return nil, perr
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, internalError()
	}
	return result, nil
}

// Validate runs the same eligibility checks without consuming a use.
// Serves the public promo dry-run endpoint.
func Validate(ctx context.Context, db *pgxpool.Pool, params RedeemParams) (*Result, *Error) {
	code, perr := loadCode(ctx, db, params.Code, false)
	if perr != nil {
		return nil, perr
	}

	userRedemptions, err := countUserRedemptions(ctx, db, code.ID, params.CustomerID)
	if err != nil {
		return nil, internalError()
	}

	amount, perr := evaluate(*code, time.Now(), params.Subtotal, params.BranchID, userRedemptions)
	if perr != nil {
		return nil, perr
	}
	return &Result{PromoCodeID: code.ID, Code: code.Code, DiscountAmount: amount, Reason: "Promo: " + code.Code}, nil
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func redeemTx(ctx context.Context, tx pgx.Tx, params RedeemParams) (*Result, *Error) {
	code, perr := loadCode(ctx, tx, params.Code, true)
	if perr != nil {
		return nil, perr
	}

	userRedemptions, err := countUserRedemptions(ctx, tx, code.ID, params.CustomerID)
	if err != nil {
		return nil, internalError()
	}

	amount, perr := evaluate(*code, time.Now(), params.Subtotal, params.BranchID, userRedemptions)
	if perr != nil {
		return nil, perr
	}

	tag, err := tx.Exec(ctx, `
		update promo_codes
		set usage_count = usage_count + 1, updated_at = now()
		where id = $1 and (usage_limit is null or usage_count < usage_limit)
	`, code.ID)
	if err != nil {
		return nil, internalError()
	}
	if tag.RowsAffected() == 0 {
		return nil, ValidationError(ErrPromoUsageLimitReached, "Promo code usage limit reached", map[string]any{
			"usageLimit": code.UsageLimit,
		})
	}

	if _, err := tx.Exec(ctx, `
		insert into promo_redemptions (promo_code_id, order_id, customer_id, amount)
		values ($1, $2, $3, $4)
	`, code.ID, params.OrderID, params.CustomerID, money.Arg(amount)); err != nil {
		return nil, internalError()
	}

	return &Result{PromoCodeID: code.ID, Code: code.Code, DiscountAmount: amount, Reason: "Promo: " + code.Code}, nil
}

func loadCode(ctx context.Context, q queryer, rawCode string, forUpdate bool) (*Code, *Error) {
	value := strings.ToUpper(strings.TrimSpace(rawCode))
	if value == "" {
		return nil, ValidationError(ErrPromoNotFound, "Promo code not found", nil)
	}

	query := `
		select id, code, discount_type, discount_value, min_order_amount, max_discount_amount,
		       usage_limit, per_user_limit, usage_count, valid_from, valid_until, branch_id, is_active
		from promo_codes
		where code = $1
	`
	if forUpdate {
		query += " for update"
	}

	var (
		code        Code
		value2      pgtype.Numeric
		minOrder    pgtype.Numeric
		maxDiscount pgtype.Numeric
		usageLimit  pgtype.Int4
		perUser     pgtype.Int4
		validUntil  pgtype.Timestamptz
		branchID    pgtype.Int8
	)
	err := q.QueryRow(ctx, query, value).Scan(
		&code.ID,
		&code.Code,
		&code.DiscountType,
		&value2,
		&minOrder,
		&maxDiscount,
		&usageLimit,
		&perUser,
		&code.UsageCount,
		&code.ValidFrom,
		&validUntil,
		&branchID,
		&code.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ValidationError(ErrPromoNotFound, "Promo code not found", map[string]any{"code": value})
	}
	if err != nil {
		return nil, internalError()
	}

	code.DiscountValue = money.FromNumeric(value2)
	code.MinOrderAmount = money.FromNumeric(minOrder)
	code.MaxDiscountAmount = money.FromNumericPtr(maxDiscount)
	if usageLimit.Valid {
		code.UsageLimit = &usageLimit.Int32
	}
	if perUser.Valid {
		code.PerUserLimit = &perUser.Int32
	}
	if validUntil.Valid {
		code.ValidUntil = &validUntil.Time
	}
	if branchID.Valid {
		code.BranchID = &branchID.Int64
	}
	return &code, nil
}

func countUserRedemptions(ctx context.Context, q queryer, promoCodeID int64, customerID *int64) (int32, error) {
	if customerID == nil {
		return 0, nil
	}
	var count int32
	err := q.QueryRow(ctx, `
		select count(*) from promo_redemptions
		where promo_code_id = $1 and customer_id = $2
	`, promoCodeID, *customerID).Scan(&count)
	return count, err
}

func internalError() *Error {
	return &Error{Code: ErrPromoInternal, Message: "Failed to process promo code", StatusCode: 500}
}
