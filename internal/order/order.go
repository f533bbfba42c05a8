package order

import (
	"time"

	"github.com/shopspring/decimal"

	"zaiqa-pos/internal/money"
)

type Item struct {
	ItemID    int64           `json:"itemId"`
	ItemName  string          `json:"itemName"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int32           `json:"quantity"`
	Variant   *string         `json:"variant,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Order struct {
	ID              int64            `json:"id"`
	OrderNumber     string           `json:"orderNumber"`
	BranchID        int64            `json:"branchId"`
	CustomerID      *int64           `json:"customerId,omitempty"`
	Type            Type             `json:"orderType"`
	Source          Source           `json:"orderSource"`
	Status          Status           `json:"status"`
	PaymentStatus   PaymentStatus    `json:"paymentStatus"`
	PaymentMethod   *string          `json:"paymentMethod,omitempty"`
	Items           []Item           `json:"items"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	DiscountAmount  decimal.Decimal  `json:"discountAmount"`
	DiscountReason  *string          `json:"discountReason,omitempty"`
	PromoCodeID     *int64           `json:"promoCodeId,omitempty"`
	DeliveryCharge  decimal.Decimal  `json:"deliveryCharge"`
	DeliveryKm      *decimal.Decimal `json:"deliveryDistanceKm,omitempty"`
	Total           decimal.Decimal  `json:"total"`
	SessionID       *int64           `json:"sessionId,omitempty"`
	TableNumber     *string          `json:"tableNumber,omitempty"`
	CustomerName    *string          `json:"customerName,omitempty"`
	CustomerPhone   *string          `json:"customerPhone,omitempty"`
	DeliveryAddress *string          `json:"deliveryAddress,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	PlacedAt        time.Time        `json:"placedAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Subtotal is the sum of unitPrice*quantity over the item snapshot.
// Variant price deltas are already folded into each unit price by the
// cart before it reaches the ledger.
func ComputeSubtotal(items []Item) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return money.Round(subtotal)
}

// ComputeTotal enforces the pricing invariant:
// total = max(0, subtotal - discount) + deliveryCharge.
func ComputeTotal(subtotal, discount, deliveryCharge decimal.Decimal) decimal.Decimal {
	return money.Round(money.ClampZero(subtotal.Sub(discount)).Add(deliveryCharge))
}

// KitchenTicket is the payload the kitchen display collaborator reads.
// Emitted once on creation and once per transition into PREPARING.
type KitchenTicket struct {
	OrderID     int64        `json:"orderId"`
	OrderNumber string       `json:"orderNumber"`
	BranchID    int64        `json:"branchId"`
	OrderType   Type         `json:"orderType"`
	Status      Status       `json:"status"`
	TableNumber *string      `json:"tableNumber,omitempty"`
	Items       []TicketItem `json:"items"`
	IssuedAt    time.Time    `json:"issuedAt"`
}

type TicketItem struct {
	ItemName string  `json:"itemName"`
	Quantity int32   `json:"quantity"`
	Variant  *string `json:"variant,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func ticketFor(o *Order, status Status) KitchenTicket {
	items := make([]TicketItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, TicketItem{
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			Variant:  item.Variant,
			Notes:    item.Notes,
		})
	}
	return KitchenTicket{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		BranchID:    o.BranchID,
		OrderType:   o.Type,
		Status:      status,
		TableNumber: o.TableNumber,
		Items:       items,
		IssuedAt:    time.Now().UTC(),
	}
}
