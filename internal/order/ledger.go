package order

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"zaiqa-pos/internal/auth"
	"zaiqa-pos/internal/money"
)

// TicketSink receives kitchen ticket payloads. Emission is
// fire-and-forget: the ledger never waits on or fails with the kitchen
// collaborator.
type TicketSink interface {
	PublishTicket(ctx context.Context, ticket KitchenTicket) error
}

type Ledger struct {
	DB      *pgxpool.Pool
	Logger  *zap.Logger
	Tickets TicketSink
}

type ItemInput struct {
	ItemID    int64
	ItemName  string
	UnitPrice decimal.Decimal
	Quantity  int32
	Variant   *string
	Notes     *string
}

type CreateParams struct {
	BranchID        int64
	Items           []ItemInput
	Type            Type
	Source          Source
	CustomerID      *int64
	CustomerName    *string
	CustomerPhone   *string
	DeliveryAddress *string
	TableNumber     *string
	Notes           *string
	DiscountAmount  decimal.Decimal
	DiscountReason  *string
	PromoCodeID     *int64
	DeliveryCharge  decimal.Decimal
	DeliveryKm      *decimal.Decimal
	SessionID       *int64
}

// Create prices and persists a new order in PENDING/PENDING. The item
// list is snapshotted verbatim; later catalog changes never alter a
// recorded price. Totals are always recomputed here — amounts arriving
// from callers are advisory only.
func (l *Ledger) Create(ctx context.Context, params CreateParams) (*Order, *Error) {
	if len(params.Items) == 0 {
		return nil, validationError("Order must contain at least one item", nil)
	}
	switch params.Type {
	case TypeDelivery, TypePickup, TypeDineIn:
	default:
		return nil, validationError("Unknown order type", map[string]any{"orderType": string(params.Type)})
	}
	switch params.Source {
	case SourceOnline, SourcePOS, SourcePhone:
	default:
		return nil, validationError("Unknown order source", map[string]any{"orderSource": string(params.Source)})
	}

	items := make([]Item, 0, len(params.Items))
	for _, in := range params.Items {
		if in.Quantity <= 0 {
			return nil, validationError("Item quantity must be positive", map[string]any{"itemId": in.ItemID})
		}
		if in.UnitPrice.IsNegative() {
			return nil, validationError("Item price cannot be negative", map[string]any{"itemId": in.ItemID})
		}
		items = append(items, Item{
			ItemID:    in.ItemID,
			ItemName:  in.ItemName,
			UnitPrice: money.Round(in.UnitPrice),
			Quantity:  in.Quantity,
			Variant:   in.Variant,
			Notes:     in.Notes,
			LineTotal: money.Round(in.UnitPrice.Mul(decimal.NewFromInt32(in.Quantity))),
		})
	}

	subtotal := ComputeSubtotal(items)
	discount := money.Round(money.ClampZero(params.DiscountAmount))
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	deliveryCharge := money.Round(money.ClampZero(params.DeliveryCharge))
	total := ComputeTotal(subtotal, discount, deliveryCharge)

	orderNumber, err := l.generateOrderNumber(ctx, params.BranchID)
	if err != nil {
		return nil, internalError("Failed to generate order number")
	}

	o := &Order{
		OrderNumber:     orderNumber,
		BranchID:        params.BranchID,
		CustomerID:      params.CustomerID,
		Type:            params.Type,
		Source:          params.Source,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		Items:           items,
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		DiscountReason:  params.DiscountReason,
		PromoCodeID:     params.PromoCodeID,
		DeliveryCharge:  deliveryCharge,
		DeliveryKm:      params.DeliveryKm,
		Total:           total,
		SessionID:       params.SessionID,
		TableNumber:     params.TableNumber,
		CustomerName:    params.CustomerName,
		CustomerPhone:   params.CustomerPhone,
		DeliveryAddress: params.DeliveryAddress,
		Notes:           params.Notes,
	}

	tx, err := l.DB.Begin(ctx)
	if err != nil {
		return nil, internalError("Failed to create order")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var distanceArg any
	if o.DeliveryKm != nil {
		distanceArg = o.DeliveryKm.String()
	}
	err = tx.QueryRow(ctx, `
		insert into orders (
			order_number, branch_id, customer_id, order_type, order_source, status, payment_status,
			subtotal, discount_amount, discount_reason, promo_code_id,
			delivery_charge, delivery_distance_km, total_amount,
			session_id, table_number, customer_name, customer_phone, delivery_address, notes,
			updated_at
		)
		values (
			$1,$2,$3,$4,$5,'PENDING','PENDING',
			$6,$7,$8,$9,
			$10,$11,$12,
			$13,$14,$15,$16,$17,$18,
			now()
		)
		returning id, placed_at, updated_at
	`,
		o.OrderNumber, o.BranchID, o.CustomerID, o.Type, o.Source,
		money.Arg(subtotal), money.Arg(discount), o.DiscountReason, o.PromoCodeID,
		money.Arg(deliveryCharge), distanceArg, money.Arg(total),
		o.SessionID, o.TableNumber, o.CustomerName, o.CustomerPhone, o.DeliveryAddress, o.Notes,
	).Scan(&o.ID, &o.PlacedAt, &o.UpdatedAt)
	if err != nil {
		l.Logger.Error("order insert failed", zap.Error(err))
		return nil, internalError("Failed to create order")
	}

	for _, item := range items {
		if _, err := tx.Exec(ctx, `
			insert into order_items (order_id, item_id, item_name, unit_price, quantity, variant, notes, line_total, updated_at)
			values ($1,$2,$3,$4,$5,$6,$7,$8, now())
		`, o.ID, item.ItemID, item.ItemName, money.Arg(item.UnitPrice), item.Quantity, item.Variant, item.Notes, money.Arg(item.LineTotal)); err != nil {
			l.Logger.Error("order item insert failed", zap.Error(err))
			return nil, internalError("Failed to create order")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, internalError("Failed to create order")
	}

	l.emitTicket(ctx, o, StatusPending)
	return o, nil
}

// UpdateStatus applies a role-gated state machine transition. An
// invalid request leaves the stored status unchanged.
func (l *Ledger) UpdateStatus(ctx context.Context, orderID int64, requested Status, actorRole auth.UserRole) (*Order, *Error) {
	tx, err := l.DB.Begin(ctx)
	if err != nil {
		return nil, internalError("Failed to update order status")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current Status
	err = tx.QueryRow(ctx, `select status from orders where id = $1 for update`, orderID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFoundError()
	}
	if err != nil {
		return nil, internalError("Failed to update order status")
	}

	if terr := Transition(current, requested, actorRole); terr != nil {
		return nil, terr
	}

	if _, err := tx.Exec(ctx, `update orders set status = $1, updated_at = now() where id = $2`, requested, orderID); err != nil {
		return nil, internalError("Failed to update order status")
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, internalError("Failed to update order status")
	}

	o, oerr := l.GetByID(ctx, orderID)
	if oerr != nil {
		return nil, oerr
	}
	if requested == StatusPreparing {
		l.emitTicket(ctx, o, StatusPreparing)
	}
	return o, nil
}

func (l *Ledger) GetByID(ctx context.Context, orderID int64) (*Order, *Error) {
	return l.load(ctx, `where o.id = $1`, orderID)
}

func (l *Ledger) GetByNumber(ctx context.Context, branchID int64, orderNumber string) (*Order, *Error) {
	return l.load(ctx, `where o.branch_id = $1 and o.order_number = $2 order by o.placed_at desc limit 1`, branchID, orderNumber)
}

func (l *Ledger) load(ctx context.Context, where string, args ...any) (*Order, *Error) {
	var (
		o              Order
		customerID     pgtype.Int8
		paymentMethod  pgtype.Text
		subtotal       pgtype.Numeric
		discount       pgtype.Numeric
		discountReason pgtype.Text
		promoCodeID    pgtype.Int8
		deliveryCharge pgtype.Numeric
		deliveryKm     pgtype.Numeric
		total          pgtype.Numeric
		sessionID      pgtype.Int8
		tableNumber    pgtype.Text
		customerName   pgtype.Text
		customerPhone  pgtype.Text
		address        pgtype.Text
		notes          pgtype.Text
	)

	err := l.DB.QueryRow(ctx, `
		select o.id, o.order_number, o.branch_id, o.customer_id, o.order_type, o.order_source,
		       o.status, o.payment_status, o.payment_method,
		       o.subtotal, o.discount_amount, o.discount_reason, o.promo_code_id,
		       o.delivery_charge, o.delivery_distance_km, o.total_amount,
		       o.session_id, o.table_number, o.customer_name, o.customer_phone, o.delivery_address, o.notes,
		       o.placed_at, o.updated_at
		from orders o
	`+where, args...).Scan(
		&o.ID, &o.OrderNumber, &o.BranchID, &customerID, &o.Type, &o.Source,
		&o.Status, &o.PaymentStatus, &paymentMethod,
		&subtotal, &discount, &discountReason, &promoCodeID,
		&deliveryCharge, &deliveryKm, &total,
		&sessionID, &tableNumber, &customerName, &customerPhone, &address, &notes,
		&o.PlacedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFoundError()
	}
	if err != nil {
		l.Logger.Error("order load failed", zap.Error(err))
		return nil, internalError("Failed to load order")
	}

	o.CustomerID = int8Ptr(customerID)
	o.PaymentMethod = textPtr(paymentMethod)
	o.Subtotal = money.FromNumeric(subtotal)
	o.DiscountAmount = money.FromNumeric(discount)
	o.DiscountReason = textPtr(discountReason)
	o.PromoCodeID = int8Ptr(promoCodeID)
	o.DeliveryCharge = money.FromNumeric(deliveryCharge)
	o.DeliveryKm = money.FromNumericPtr(deliveryKm)
	o.Total = money.FromNumeric(total)
	o.SessionID = int8Ptr(sessionID)
	o.TableNumber = textPtr(tableNumber)
	o.CustomerName = textPtr(customerName)
	o.CustomerPhone = textPtr(customerPhone)
	o.DeliveryAddress = textPtr(address)
	o.Notes = textPtr(notes)

	rows, err := l.DB.Query(ctx, `
		select item_id, item_name, unit_price, quantity, variant, notes, line_total
		from order_items
		where order_id = $1
		order by id
	`, o.ID)
	if err != nil {
		return nil, internalError("Failed to load order items")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item      Item
			unitPrice pgtype.Numeric
			variant   pgtype.Text
			itemNotes pgtype.Text
			lineTotal pgtype.Numeric
		)
		if err := rows.Scan(&item.ItemID, &item.ItemName, &unitPrice, &item.Quantity, &variant, &itemNotes, &lineTotal); err != nil {
			return nil, internalError("Failed to load order items")
		}
		item.UnitPrice = money.FromNumeric(unitPrice)
		item.Variant = textPtr(variant)
		item.Notes = textPtr(itemNotes)
		item.LineTotal = money.FromNumeric(lineTotal)
		o.Items = append(o.Items, item)
	}

	return &o, nil
}

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Order numbers are human-readable and time-derived: date prefix plus a
// short suffix, unique per branch per day.
func (l *Ledger) generateOrderNumber(ctx context.Context, branchID int64) (string, error) {
	datePart := time.Now().Format("060102")
	for attempt := 0; attempt < 10; attempt++ {
		var suffix strings.Builder
		for i := 0; i < 4; i++ {
			suffix.WriteByte(orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))])
		}
		value := datePart + "-" + suffix.String()

		start := time.Now().Truncate(24 * time.Hour)
		var exists bool
		err := l.DB.QueryRow(ctx, `
			select exists(
				select 1 from orders
				where branch_id = $1 and order_number = $2 and placed_at >= $3
			)
		`, branchID, value, start).Scan(&exists)
		if err != nil {
			return "", err
		}
		if !exists {
			return value, nil
		}
	}
	return datePart + "-" + strings.ToUpper(time.Now().Format("150405")), nil
}

func (l *Ledger) emitTicket(ctx context.Context, o *Order, status Status) {
	if l.Tickets == nil {
		return
	}
	if err := l.Tickets.PublishTicket(ctx, ticketFor(o, status)); err != nil {
		l.Logger.Warn("kitchen ticket publish failed",
			zap.Int64("orderId", o.ID),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}

func int8Ptr(value pgtype.Int8) *int64 {
	if !value.Valid {
		return nil
	}
	return &value.Int64
}

func textPtr(value pgtype.Text) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}
