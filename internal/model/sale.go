package model

import "github.com/shopspring/decimal"

// CartLine is the cart-side snapshot of a product at the moment it was
// added. Pricing works off this snapshot, never off live catalog data.
type CartLine struct {
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	SellingMethod SellingMethod   `json:"selling_method"`
	UnitType      *string         `json:"unit_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	BasePrice     decimal.Decimal `json:"base_price"` // Tax-exclusive unit price
	DisplayPrice  decimal.Decimal `json:"display_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"` // Percent
}

// CartItem is the persisted/wire form of a cart line. Its JSON shape is a
// durable contract: a half-upgraded terminal must still be able to read
// previously queued sales.
type CartItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"` // Display price at time of sale
	BasePrice decimal.Decimal `json:"base_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

const PaymentMethodCash = "Cash"

// PaymentEntry is a single split-payment. Tendered is set for cash and must
// be >= Amount; the amount applied to the sale never exceeds the
// outstanding balance.
type PaymentEntry struct {
	Amount         decimal.Decimal  `json:"amount"`
	Method         string           `json:"method"`
	TransactionRef *string          `json:"transaction_ref,omitempty"`
	Tendered       *decimal.Decimal `json:"tendered,omitempty"`
}

// IsCash reports whether the entry settles in cash (and can produce change).
func (p PaymentEntry) IsCash() bool {
	return p.Method == PaymentMethodCash || p.Tendered != nil
}

type PendingSaleStatus string

const (
	PendingSaleStatusPending     PendingSaleStatus = "pending"
	PendingSaleStatusNeedsReview PendingSaleStatus = "needs_review"
)

// PendingSale is the unit of durability: an immutable snapshot of a sale
// completed at the register while the remote transaction service was not
// reachable. It is created once, never mutated (aside from reject
// bookkeeping), and deleted only after the remote service confirms it.
type PendingSale struct {
	ID            int64             `json:"id"` // Device-local, monotonically increasing, never reused
	ClientRef     string            `json:"client_ref"`
	AccountID     int64             `json:"account_id"`
	Cart          []CartItem        `json:"cart"`
	Payments      []PaymentEntry    `json:"payments"`
	Notes         *string           `json:"notes"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Tax           decimal.Decimal   `json:"tax"`
	Total         decimal.Decimal   `json:"total"`
	TotalTendered decimal.Decimal   `json:"total_tendered"`
	Status        PendingSaleStatus `json:"status"`
	RejectCount   int               `json:"reject_count"`
	CreatedAt     string            `json:"created_at"` // ISO 8601
}
