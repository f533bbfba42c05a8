package report

import (
	"bytes"
	"fmt"
	"time"

	"zaiqa-pos/internal/register"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// SessionReport is the rendered closing summary for one till session.
type SessionReport struct {
	BranchName    string
	SessionNumber string
	TillID        string
	OpenedAt      time.Time
	ClosedAt      time.Time
	OpenedByName  string
	ClosedByName  string
	Currency      string

	OpeningCash    decimal.Decimal
	CashSales      decimal.Decimal
	CardSales      decimal.Decimal
	JazzCashSales  decimal.Decimal
	TotalSales     decimal.Decimal
	TotalOrders    int32
	CountedCash    decimal.Decimal
	ExpectedCash   decimal.Decimal
	CashDifference decimal.Decimal
}

func FromSession(s *register.Session, branchName, openedByName, closedByName, currency string) SessionReport {
	r := SessionReport{
		BranchName:    branchName,
		SessionNumber: s.SessionNumber,
		TillID:        s.TillID,
		OpenedAt:      s.OpenedAt,
		OpenedByName:  openedByName,
		ClosedByName:  closedByName,
		Currency:      currency,
		OpeningCash:   s.OpeningCash,
		CashSales:     s.CashSales,
		CardSales:     s.CardSales,
		JazzCashSales: s.JazzCashSales,
		TotalSales:    s.TotalSales,
		TotalOrders:   s.TotalOrders,
	}
	if s.ClosedAt != nil {
		r.ClosedAt = *s.ClosedAt
	}
	if s.ClosingCash != nil {
		r.CountedCash = *s.ClosingCash
	}
	if s.ExpectedCash != nil {
		r.ExpectedCash = *s.ExpectedCash
	}
	if s.CashDifference != nil {
		r.CashDifference = *s.CashDifference
	}
	return r
}

func (r SessionReport) amount(d decimal.Decimal) string {
	return fmt.Sprintf("%s %s", r.Currency, d.StringFixed(2))
}

// RenderPDF builds the closing report as a printable A4 PDF.
func RenderPDF(data SessionReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, data.BranchName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Session %s", data.SessionNumber), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Till %s", data.TillID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Opened: %s", data.OpenedAt.Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	if !data.ClosedAt.IsZero() {
		pdf.CellFormat(0, 5, fmt.Sprintf("Closed: %s", data.ClosedAt.Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Sales", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Orders: %d", data.TotalOrders), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Cash: %s", data.amount(data.CashSales)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Card: %s", data.amount(data.CardSales)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("JazzCash: %s", data.amount(data.JazzCashSales)), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total sales: %s", data.amount(data.TotalSales)), "", 1, "L", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Drawer", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Opening float: %s", data.amount(data.OpeningCash)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Expected cash: %s", data.amount(data.ExpectedCash)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Counted cash: %s", data.amount(data.CountedCash)), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Difference: %s", data.amount(data.CashDifference)), "", 1, "L", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Arial", "", 9)
	if data.OpenedByName != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Opened by: %s", data.OpenedByName), "", 1, "L", false, 0, "")
	}
	if data.ClosedByName != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Closed by: %s", data.ClosedByName), "", 1, "L", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
