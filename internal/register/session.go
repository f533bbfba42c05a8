package register

import (
	"time"

	"github.com/shopspring/decimal"

	"zaiqa-pos/internal/money"
)

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

type Session struct {
	ID             int64            `json:"id"`
	SessionNumber  string           `json:"sessionNumber"`
	BranchID       int64            `json:"branchId"`
	TillID         string           `json:"tillId"`
	OpenedBy       int64            `json:"openedBy"`
	OpeningCash    decimal.Decimal  `json:"openingCash"`
	TotalSales     decimal.Decimal  `json:"totalSales"`
	TotalOrders    int32            `json:"totalOrders"`
	CashSales      decimal.Decimal  `json:"cashSales"`
	CardSales      decimal.Decimal  `json:"cardSales"`
	JazzCashSales  decimal.Decimal  `json:"jazzCashSales"`
	ClosingCash    *decimal.Decimal `json:"closingCash,omitempty"`
	ExpectedCash   *decimal.Decimal `json:"expectedCash,omitempty"`
	CashDifference *decimal.Decimal `json:"cashDifference,omitempty"`
	Status         Status           `json:"status"`
	OpenedAt       time.Time        `json:"openedAt"`
	ClosedAt       *time.Time       `json:"closedAt,omitempty"`
}

type CloseResult struct {
	ExpectedCash   decimal.Decimal `json:"expectedCash"`
	CashDifference decimal.Decimal `json:"cashDifference"`
}

// ComputeClose derives the closing reconciliation figures. Card and
// JazzCash sales never enter the drawer, so only cash sales count
// toward the expected amount.
func ComputeClose(openingCash, cashSales, countedCash decimal.Decimal) CloseResult {
	expected := money.Round(openingCash.Add(cashSales))
	return CloseResult{
		ExpectedCash:   expected,
		CashDifference: money.Round(countedCash.Sub(expected)),
	}
}
