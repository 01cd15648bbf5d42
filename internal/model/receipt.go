package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReceiptLine struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"qty"`
	UnitType  *string         `json:"unit_type,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type ReceiptPayment struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference *string         `json:"reference,omitempty"`
}

// Receipt is the normalized record handed to the printing/export subsystem
// once a submission resolves. Exactly one of OrderID (online path) and
// LocalID (offline path) is set.
type Receipt struct {
	OrderID   *int64           `json:"order_id,omitempty"`
	LocalID   *int64           `json:"local_id,omitempty"`
	Offline   bool             `json:"offline"`
	Lines     []ReceiptLine    `json:"lines"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Tax       decimal.Decimal  `json:"tax"`
	Total     decimal.Decimal  `json:"total"`
	Payments  []ReceiptPayment `json:"payments"`
	TotalPaid decimal.Decimal  `json:"total_paid"`
	Change    decimal.Decimal  `json:"change"`
	Notes     *string          `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
