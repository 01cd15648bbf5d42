// Package remote defines the boundary to the remote transaction service:
// the authoritative backend that persists orders and decrements stock.
package remote

import (
	"context"

	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/shopspring/decimal"
)

// SaleRequest is the wire shape of one sale submission. Both the direct
// online path and the offline replay path send exactly this shape, built
// from the snapshot computed at the register.
type SaleRequest struct {
	AccountID     int64                `json:"account_id"`
	CustomerID    *int64               `json:"customer_id"` // Reserved for customer-attached sales
	CartItems     []model.CartItem     `json:"cart_items"`
	Payments      []model.PaymentEntry `json:"payments"`
	Notes         *string              `json:"notes"`
	Total         decimal.Decimal      `json:"total"`
	Tax           decimal.Decimal      `json:"tax"`
	TotalTendered decimal.Decimal      `json:"total_tendered"`

	// ClientRef is a device-generated idempotency token, stable across
	// retries of the same sale, so a dedup-capable backend can drop a
	// resubmission after an indeterminate outcome.
	ClientRef string `json:"client_ref"`
}

type SaleResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

type Client interface {
	// SubmitSale returns a result only on confirmed acceptance. A
	// business rejection surfaces as *RejectedError, an indeterminate
	// outcome (timeout, transport failure, 5xx) as *TransportError.
	SubmitSale(ctx context.Context, req *SaleRequest) (*SaleResult, error)

	// FetchAllProducts returns the full catalog projection.
	FetchAllProducts(ctx context.Context) ([]model.Product, error)
}

// RequestFromPendingSale rebuilds the submission for a queued sale from its
// persisted snapshot. Totals are never recomputed from catalog data.
func RequestFromPendingSale(sale *model.PendingSale) *SaleRequest {
	return &SaleRequest{
		AccountID:     sale.AccountID,
		CartItems:     sale.Cart,
		Payments:      sale.Payments,
		Notes:         sale.Notes,
		Total:         sale.Total,
		Tax:           sale.Tax,
		TotalTendered: sale.TotalTendered,
		ClientRef:     sale.ClientRef,
	}
}
