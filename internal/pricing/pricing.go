// Package pricing derives every monetary figure the terminal stores or
// transmits. It is pure and deterministic: the same cart/payment snapshot
// always yields the same totals, whether it runs for a live preview or for
// the authoritative snapshot written into a queued sale.
package pricing

import (
	"fmt"

	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/shopspring/decimal"
)

// Epsilon is the rounding tolerance for the payment balance check:
// one cent of the currency unit.
var Epsilon = decimal.New(1, -2)

var oneHundred = decimal.NewFromInt(100)

// Totals is the full derivation for a cart and payment set.
type Totals struct {
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	TotalPaid decimal.Decimal
	Change    decimal.Decimal
}

// ValidationError blocks a submission before any I/O happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

func LineTotal(line model.CartLine) decimal.Decimal {
	return line.BasePrice.Mul(line.Quantity)
}

func Subtotal(lines []model.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineTotal(l))
	}
	return sum
}

func Tax(lines []model.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineTotal(l).Mul(l.TaxRate).Div(oneHundred))
	}
	return sum
}

func TotalPaid(payments []model.PaymentEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// ChangeDue is the sum of per-entry cash change, max(0, tendered - amount).
func ChangeDue(payments []model.PaymentEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.Tendered == nil {
			continue
		}
		if c := p.Tendered.Sub(p.Amount); c.IsPositive() {
			sum = sum.Add(c)
		}
	}
	return sum
}

// TotalTendered is what the customer actually handed over: the tendered
// amount for cash entries, the applied amount otherwise.
func TotalTendered(payments []model.PaymentEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.Tendered != nil {
			sum = sum.Add(*p.Tendered)
		} else {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

func Compute(lines []model.CartLine, payments []model.PaymentEntry) Totals {
	subtotal := Subtotal(lines)
	tax := Tax(lines)
	return Totals{
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal.Add(tax),
		TotalPaid: TotalPaid(payments),
		Change:    ChangeDue(payments),
	}
}

// CapCashPayments applies the cash rule: the amount applied by a tendered
// entry is min(tendered, outstanding balance), never more than what is
// still owed. Entries are processed in order; non-cash entries pass
// through untouched. The input slice is not modified.
func CapCashPayments(total decimal.Decimal, payments []model.PaymentEntry) []model.PaymentEntry {
	out := make([]model.PaymentEntry, len(payments))
	remaining := total
	for i, p := range payments {
		if p.Tendered != nil {
			applied := *p.Tendered
			if applied.GreaterThan(remaining) {
				applied = remaining
			}
			if applied.IsNegative() {
				applied = decimal.Zero
			}
			p.Amount = applied
		}
		out[i] = p
		remaining = remaining.Sub(p.Amount)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
	}
	return out
}

// ValidateLines rejects malformed cart lines: negative quantities, and
// fractional quantities for unit-sold products. Stock limits are advisory
// only and checked at cart-building time, not here.
func ValidateLines(lines []model.CartLine) error {
	if len(lines) == 0 {
		return &ValidationError{Reason: "cart is empty"}
	}
	for _, l := range lines {
		if l.Quantity.IsNegative() {
			return &ValidationError{Reason: fmt.Sprintf("negative quantity for product %d", l.ProductID)}
		}
		if l.SellingMethod == model.SellingMethodUnit && !l.Quantity.IsInteger() {
			return &ValidationError{Reason: fmt.Sprintf("fractional quantity for unit product %d", l.ProductID)}
		}
	}
	return nil
}

// ValidateSubmission decides whether a sale may be submitted: the total
// must be positive, at least one payment must exist, cash entries must
// tender at least their applied amount, and the payments must balance the
// total within Epsilon.
func ValidateSubmission(t Totals, payments []model.PaymentEntry) error {
	if !t.Total.IsPositive() {
		return &ValidationError{Reason: "total must be positive"}
	}
	if len(payments) == 0 {
		return &ValidationError{Reason: "at least one payment is required"}
	}
	for i, p := range payments {
		if p.Amount.IsNegative() {
			return &ValidationError{Reason: fmt.Sprintf("payment %d has a negative amount", i)}
		}
		if p.Tendered != nil && p.Tendered.LessThan(p.Amount) {
			return &ValidationError{Reason: fmt.Sprintf("payment %d tenders less than its amount", i)}
		}
	}
	if t.Total.Sub(t.TotalPaid).Abs().GreaterThanOrEqual(Epsilon) {
		return &ValidationError{
			Reason: fmt.Sprintf("payments (%s) do not balance total (%s)", t.TotalPaid, t.Total),
		}
	}
	return nil
}
