package order

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

func TestComputeSubtotal(t *testing.T) {
	items := []Item{
		{ItemID: 1, UnitPrice: dec(350), Quantity: 2},
		{ItemID: 2, UnitPrice: dec(120.5), Quantity: 1},
	}
	if got := ComputeSubtotal(items).StringFixed(2); got != "820.50" {
		t.Fatalf("expected 820.50, got %s", got)
	}
}

func TestComputeTotalInvariant(t *testing.T) {
	cases := []struct {
		name           string
		subtotal       float64
		discount       float64
		deliveryCharge float64
		expected       string
	}{
		{name: "no discount no delivery", subtotal: 1000, expected: "1000.00"},
		{name: "discount and delivery", subtotal: 1000, discount: 100, deliveryCharge: 150, expected: "1050.00"},
		{name: "discount equal to subtotal", subtotal: 500, discount: 500, deliveryCharge: 50, expected: "50.00"},
		{name: "discount clamp keeps delivery charge", subtotal: 500, discount: 900, deliveryCharge: 50, expected: "50.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeTotal(dec(tc.subtotal), dec(tc.discount), dec(tc.deliveryCharge)).StringFixed(2)
			if got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestKitchenTicketPayload(t *testing.T) {
	variant := "Large"
	note := "extra spicy"
	o := &Order{
		ID:          7,
		OrderNumber: "250830-AB12",
		BranchID:    3,
		Type:        TypeDineIn,
		Items: []Item{
			{ItemName: "Chicken Karahi", Quantity: 1, Variant: &variant, Notes: &note},
			{ItemName: "Naan", Quantity: 4},
		},
	}

	ticket := ticketFor(o, StatusPreparing)
	if ticket.OrderID != 7 || ticket.Status != StatusPreparing {
		t.Fatalf("unexpected ticket header: %+v", ticket)
	}
	if len(ticket.Items) != 2 {
		t.Fatalf("expected 2 ticket items, got %d", len(ticket.Items))
	}
	if ticket.Items[0].Notes == nil || *ticket.Items[0].Notes != "extra spicy" {
		t.Fatalf("preparation notes must reach the kitchen payload")
	}
	if ticket.IssuedAt.IsZero() {
		t.Fatalf("ticket must carry an issue timestamp")
	}
}
