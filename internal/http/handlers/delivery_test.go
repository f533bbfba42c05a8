package handlers

import (
	"testing"

	"zaiqa-pos/internal/delivery"
	"zaiqa-pos/internal/order"

	"github.com/shopspring/decimal"
)

func TestDeliveryChargeFor(t *testing.T) {
	maxKm := decimal.NewFromInt(10)
	cfg := delivery.Config{
		PricingModel:  delivery.PricingDynamic,
		BaseCharge:    decimal.NewFromInt(50),
		PerKmCharge:   decimal.NewFromInt(20),
		MaxDistanceKm: &maxKm,
	}
	fiveKm := decimal.NewFromInt(5)
	farKm := decimal.NewFromInt(12)

	cases := []struct {
		name       string
		orderType  order.Type
		distanceKm *decimal.Decimal
		want       string
		wantCode   delivery.ErrorCode
	}{
		{name: "dine-in carries no fee", orderType: order.TypeDineIn, distanceKm: &fiveKm, want: "0"},
		{name: "pickup carries no fee", orderType: order.TypePickup, want: "0"},
		{name: "delivery priced from config", orderType: order.TypeDelivery, distanceKm: &fiveKm, want: "150.00"},
		{name: "delivery beyond range rejected", orderType: order.TypeDelivery, distanceKm: &farKm, wantCode: delivery.ErrOutOfDeliveryRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fee, derr := deliveryChargeFor(cfg, tc.orderType, decimal.NewFromInt(800), tc.distanceKm)
			if tc.wantCode != "" {
				if derr == nil || derr.Code != tc.wantCode {
					t.Fatalf("expected error %s, got %v", tc.wantCode, derr)
				}
				return
			}
			if derr != nil {
				t.Fatalf("unexpected error: %v", derr)
			}
			if fee.String() != tc.want && fee.StringFixed(2) != tc.want {
				t.Fatalf("expected fee %s, got %s", tc.want, fee.StringFixed(2))
			}
		})
	}
}
