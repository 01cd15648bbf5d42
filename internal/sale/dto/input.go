package dto

import "github.com/fekuna/omnipos-terminal/internal/model"

type SubmitSaleInput struct {
	AccountID int64
	Lines     []model.CartLine
	Payments  []model.PaymentEntry
	Notes     *string
}
