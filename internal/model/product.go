package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SellingMethod string

const (
	SellingMethodUnit     SellingMethod = "unit"
	SellingMethodMeasured SellingMethod = "measured"
)

// Product is a read-only projection of the remote catalog. The terminal
// caches it for offline cart building; it is never the system of record
// for stock.
type Product struct {
	ID            int64           `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Description   *string         `db:"description" json:"description"` // Nullable
	BasePrice     decimal.Decimal `db:"base_price" json:"base_price"`   // Tax-exclusive
	DisplayPrice  decimal.Decimal `db:"display_price" json:"display_price"`
	TaxRate       decimal.Decimal `db:"tax_rate" json:"tax_rate"` // Percent
	TotalStock    decimal.Decimal `db:"total_stock" json:"total_stock"`
	SellingMethod SellingMethod   `db:"selling_method" json:"selling_method"`
	UnitType      *string         `db:"unit_type" json:"unit_type"` // Nullable
	SKU           *string         `db:"sku" json:"sku"`             // Nullable
	Barcode       *string         `db:"barcode" json:"barcode"`     // Nullable
	IsActive      bool            `db:"is_active" json:"is_active"`
	CreatedAt     time.Time       `db:"-" json:"created_at"`
	UpdatedAt     time.Time       `db:"-" json:"updated_at"`
}
