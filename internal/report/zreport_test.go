package report

import (
	"bytes"
	"testing"
	"time"

	"zaiqa-pos/internal/register"

	"github.com/shopspring/decimal"
)

func TestFromSessionCopiesClosingFigures(t *testing.T) {
	closedAt := time.Date(2025, 3, 1, 22, 15, 0, 0, time.UTC)
	counted := decimal.NewFromInt(5400)
	expected := decimal.NewFromInt(5500)
	diff := decimal.NewFromInt(-100)

	s := &register.Session{
		SessionNumber:  "20250301-101500",
		TillID:         "MAIN",
		OpenedAt:       time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC),
		ClosedAt:       &closedAt,
		OpeningCash:    decimal.NewFromInt(1000),
		CashSales:      decimal.NewFromInt(4500),
		CardSales:      decimal.NewFromInt(2000),
		TotalSales:     decimal.NewFromInt(6500),
		TotalOrders:    12,
		ClosingCash:    &counted,
		ExpectedCash:   &expected,
		CashDifference: &diff,
	}

	r := FromSession(s, "Gulberg", "Ayesha", "Bilal", "PKR")
	if r.BranchName != "Gulberg" || r.ClosedByName != "Bilal" {
		t.Fatalf("unexpected report header: %+v", r)
	}
	if !r.ExpectedCash.Equal(expected) || !r.CashDifference.Equal(diff) {
		t.Fatalf("closing figures not copied: %+v", r)
	}
	if r.ClosedAt != closedAt {
		t.Fatalf("expected closedAt %v, got %v", closedAt, r.ClosedAt)
	}
}

func TestRenderPDFProducesDocument(t *testing.T) {
	r := SessionReport{
		BranchName:    "Gulberg",
		SessionNumber: "20250301-101500",
		TillID:        "MAIN",
		OpenedAt:      time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC),
		Currency:      "PKR",
		OpeningCash:   decimal.NewFromInt(1000),
		CashSales:     decimal.NewFromInt(4500),
		TotalSales:    decimal.NewFromInt(4500),
		TotalOrders:   9,
		ExpectedCash:  decimal.NewFromInt(5500),
		CountedCash:   decimal.NewFromInt(5400),
	}

	body, err := RenderPDF(r)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatalf("expected a PDF document, got %q", body[:8])
	}
}
