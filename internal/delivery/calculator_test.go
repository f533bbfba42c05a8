package delivery

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

func decPtr(value float64) *decimal.Decimal {
	d := decimal.NewFromFloat(value)
	return &d
}

func staticConfig() Config {
	return Config{
		PricingModel:          PricingStatic,
		StaticCharge:          dec(50),
		FreeDeliveryThreshold: decPtr(1500),
	}
}

func dynamicConfig() Config {
	return Config{
		PricingModel:  PricingDynamic,
		BaseCharge:    dec(50),
		PerKmCharge:   dec(20),
		MaxDistanceKm: decPtr(10),
	}
}

func TestFreeDeliveryThreshold(t *testing.T) {
	quote, err := Calculate(staticConfig(), dec(1500), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.FreeDelivery || !quote.Fee.IsZero() {
		t.Fatalf("subtotal at threshold should be free, got fee %s", quote.Fee)
	}

	quote, err = Calculate(staticConfig(), dec(1499), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.FreeDelivery || quote.Fee.StringFixed(2) != "50.00" {
		t.Fatalf("subtotal below threshold should charge 50.00, got %s", quote.Fee.StringFixed(2))
	}
}

func TestFreeDeliveryBeatsDynamicPricing(t *testing.T) {
	cfg := dynamicConfig()
	cfg.FreeDeliveryThreshold = decPtr(1500)

	// Threshold is evaluated before the pricing model, so no distance is
	// needed for a qualifying subtotal.
	quote, err := Calculate(cfg, dec(2000), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.FreeDelivery || !quote.Fee.IsZero() {
		t.Fatalf("expected free delivery, got fee %s", quote.Fee)
	}
}

func TestDynamicPricing(t *testing.T) {
	quote, err := Calculate(dynamicConfig(), dec(800), decPtr(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Fee.StringFixed(2) != "150.00" {
		t.Fatalf("expected 150.00, got %s", quote.Fee.StringFixed(2))
	}
}

func TestDynamicRequiresDistance(t *testing.T) {
	_, err := Calculate(dynamicConfig(), dec(800), nil)
	if err == nil || err.Code != ErrDistanceRequired {
		t.Fatalf("expected DISTANCE_REQUIRED, got %v", err)
	}
}

func TestOutOfDeliveryRange(t *testing.T) {
	_, err := Calculate(dynamicConfig(), dec(800), decPtr(10.5))
	if err == nil || err.Code != ErrOutOfDeliveryRange {
		t.Fatalf("expected OUT_OF_DELIVERY_RANGE, got %v", err)
	}
}

func TestDefaultConfigCharge(t *testing.T) {
	// The documented fallback for branches with no configuration.
	quote, err := Calculate(DefaultConfig, dec(800), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Fee.StringFixed(2) != "50.00" {
		t.Fatalf("default fallback should charge 50.00, got %s", quote.Fee.StringFixed(2))
	}
}

func TestDynamicFeeRounding(t *testing.T) {
	cfg := dynamicConfig()
	cfg.PerKmCharge = dec(21.555)
	quote, err := Calculate(cfg, dec(800), decPtr(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 50 + 21.555*3 = 114.665, rounded half-up to 114.67
	if quote.Fee.StringFixed(2) != "114.67" {
		t.Fatalf("expected 114.67, got %s", quote.Fee.StringFixed(2))
	}
}
