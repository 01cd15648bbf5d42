package pricing

import (
	"testing"

	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func unitLine(productID int64, price, taxRate, qty string) model.CartLine {
	return model.CartLine{
		ProductID:     productID,
		Name:          "test product",
		SellingMethod: model.SellingMethodUnit,
		Quantity:      dec(qty),
		BasePrice:     dec(price),
		DisplayPrice:  dec(price),
		TaxRate:       dec(taxRate),
	}
}

func cashPayment(amount, tendered string) model.PaymentEntry {
	return model.PaymentEntry{
		Amount:   dec(amount),
		Method:   model.PaymentMethodCash,
		Tendered: decPtr(tendered),
	}
}

func TestComputeCashScenario(t *testing.T) {
	// cart = [{price 10.00, qty 2, tax 10%}], one cash payment tendered 25.00
	lines := []model.CartLine{unitLine(1, "10.00", "10", "2")}

	totals := Compute(lines, nil)
	assert.True(t, totals.Subtotal.Equal(dec("20.00")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.Tax.Equal(dec("2.00")), "tax = %s", totals.Tax)
	assert.True(t, totals.Total.Equal(dec("22.00")), "total = %s", totals.Total)

	payments := CapCashPayments(totals.Total, []model.PaymentEntry{cashPayment("25.00", "25.00")})
	require.Len(t, payments, 1)
	assert.True(t, payments[0].Amount.Equal(dec("22.00")), "applied = %s", payments[0].Amount)

	totals = Compute(lines, payments)
	assert.True(t, totals.TotalPaid.Equal(dec("22.00")))
	assert.True(t, totals.Change.Equal(dec("3.00")), "change = %s", totals.Change)
	assert.True(t, TotalTendered(payments).Equal(dec("25.00")))

	require.NoError(t, ValidateSubmission(totals, payments))
}

func TestComputeTotalIsSubtotalPlusTax(t *testing.T) {
	lines := []model.CartLine{
		unitLine(1, "3.33", "12.5", "3"),
		unitLine(2, "0.99", "0", "7"),
		{
			ProductID:     3,
			SellingMethod: model.SellingMethodMeasured,
			Quantity:      dec("1.375"),
			BasePrice:     dec("4.80"),
			TaxRate:       dec("21"),
		},
	}
	totals := Compute(lines, nil)
	assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.Tax)))

	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.BasePrice.Mul(l.Quantity))
	}
	assert.True(t, totals.Subtotal.Equal(sum))
}

func TestComputeIsDeterministic(t *testing.T) {
	lines := []model.CartLine{unitLine(1, "10.00", "10", "2")}
	payments := []model.PaymentEntry{cashPayment("22.00", "25.00")}

	first := Compute(lines, payments)
	second := Compute(lines, payments)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.TotalPaid.Equal(second.TotalPaid))
	assert.True(t, first.Change.Equal(second.Change))
}

func TestValidateSubmissionEpsilonBoundary(t *testing.T) {
	lines := []model.CartLine{unitLine(1, "10.00", "10", "2")} // total 22.00

	cases := []struct {
		name    string
		paid    string
		accepts bool
	}{
		{"exact", "22.00", true},
		{"over by half epsilon", "22.005", true},
		{"under by half epsilon", "21.995", true},
		{"over by two epsilon", "22.02", false},
		{"under by two epsilon", "21.98", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payments := []model.PaymentEntry{{Amount: dec(tc.paid), Method: "Card"}}
			totals := Compute(lines, payments)
			err := ValidateSubmission(totals, payments)
			if tc.accepts {
				assert.NoError(t, err)
			} else {
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
			}
		})
	}
}

func TestValidateSubmissionRejectsEmptyCartAndNoPayments(t *testing.T) {
	var vErr *ValidationError

	totals := Compute(nil, nil)
	assert.ErrorAs(t, ValidateSubmission(totals, nil), &vErr)

	lines := []model.CartLine{unitLine(1, "5.00", "0", "1")}
	totals = Compute(lines, nil)
	assert.ErrorAs(t, ValidateSubmission(totals, nil), &vErr)
}

func TestValidateSubmissionRejectsUnderTendered(t *testing.T) {
	lines := []model.CartLine{unitLine(1, "10.00", "0", "1")}
	payments := []model.PaymentEntry{cashPayment("10.00", "5.00")}
	totals := Compute(lines, payments)

	var vErr *ValidationError
	assert.ErrorAs(t, ValidateSubmission(totals, payments), &vErr)
}

func TestValidateLines(t *testing.T) {
	require.Error(t, ValidateLines(nil))

	bad := unitLine(1, "2.00", "0", "1.5")
	require.Error(t, ValidateLines([]model.CartLine{bad}))

	neg := unitLine(1, "2.00", "0", "1")
	neg.Quantity = dec("-1")
	require.Error(t, ValidateLines([]model.CartLine{neg}))

	measured := model.CartLine{
		ProductID:     2,
		SellingMethod: model.SellingMethodMeasured,
		Quantity:      dec("0.450"),
		BasePrice:     dec("12.00"),
		TaxRate:       dec("5"),
	}
	require.NoError(t, ValidateLines([]model.CartLine{measured}))
}

func TestCapCashPaymentsSplit(t *testing.T) {
	// Card covers part, cash tenders more than the rest.
	total := dec("50.00")
	payments := []model.PaymentEntry{
		{Amount: dec("30.00"), Method: "Card"},
		cashPayment("0", "40.00"),
	}

	capped := CapCashPayments(total, payments)
	require.Len(t, capped, 2)
	assert.True(t, capped[0].Amount.Equal(dec("30.00")))
	assert.True(t, capped[1].Amount.Equal(dec("20.00")), "cash applied = %s", capped[1].Amount)
	assert.True(t, ChangeDue(capped).Equal(dec("20.00")))
}
