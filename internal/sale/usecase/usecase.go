package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-terminal/internal/connectivity"
	"github.com/fekuna/omnipos-terminal/internal/metrics"
	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/pricing"
	"github.com/fekuna/omnipos-terminal/internal/queue"
	"github.com/fekuna/omnipos-terminal/internal/remote"
	"github.com/fekuna/omnipos-terminal/internal/sale"
	"github.com/fekuna/omnipos-terminal/internal/sale/dto"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type saleUseCase struct {
	queue   queue.Repository
	remote  remote.Client
	monitor *connectivity.Monitor
	logger  logger.ZapLogger
	now     func() time.Time
}

func NewSaleUseCase(q queue.Repository, client remote.Client, monitor *connectivity.Monitor, log logger.ZapLogger) sale.UseCase {
	return &saleUseCase{
		queue:   q,
		remote:  client,
		monitor: monitor,
		logger:  log,
		now:     time.Now,
	}
}

func (uc *saleUseCase) SubmitSale(ctx context.Context, input *dto.SubmitSaleInput) (*model.Receipt, error) {
	// Validation resolves synchronously and blocks submission entirely:
	// nothing is enqueued or transmitted for an unbalanced sale.
	if err := pricing.ValidateLines(input.Lines); err != nil {
		return nil, err
	}

	totals := pricing.Compute(input.Lines, nil)
	payments := pricing.CapCashPayments(totals.Total, input.Payments)
	totals = pricing.Compute(input.Lines, payments)

	if err := pricing.ValidateSubmission(totals, payments); err != nil {
		return nil, err
	}

	// The durable snapshot: every figure comes from the pricing engine at
	// submission time and is never recomputed from catalog data later.
	createdAt := uc.now().UTC()
	pending := &model.PendingSale{
		ClientRef:     uuid.New().String(),
		AccountID:     input.AccountID,
		Cart:          cartItems(input.Lines),
		Payments:      payments,
		Notes:         input.Notes,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		TotalTendered: pricing.TotalTendered(payments),
		CreatedAt:     createdAt.Format(time.RFC3339),
	}

	if !uc.monitor.IsOnline() {
		return uc.enqueue(ctx, pending, input, totals, createdAt)
	}

	result, err := uc.remote.SubmitSale(ctx, remote.RequestFromPendingSale(pending))
	if err != nil {
		var rejected *remote.RejectedError
		if errors.As(err, &rejected) {
			// Definitive refusal: surfaced to the operator, nothing recorded.
			uc.logger.Warn("sale rejected by remote service", zap.String("message", rejected.Message))
			return nil, err
		}

		// Indeterminate outcome. Losing the sale is worse than a deferred
		// sync, so it goes into the queue and the operator sees a normal
		// offline receipt instead of a failure.
		uc.logger.Warn("direct submission indeterminate, queueing sale", zap.Error(err))
		uc.monitor.SetOnline(false)
		return uc.enqueue(ctx, pending, input, totals, createdAt)
	}

	uc.logger.Info("sale confirmed by remote service", zap.Int64("order_id", result.OrderID))
	metrics.SalesSubmitted.WithLabelValues("direct").Inc()

	orderID := result.OrderID
	receipt := buildReceipt(input, payments, totals, createdAt)
	receipt.OrderID = &orderID
	return receipt, nil
}

func (uc *saleUseCase) enqueue(ctx context.Context, pending *model.PendingSale, input *dto.SubmitSaleInput, totals pricing.Totals, createdAt time.Time) (*model.Receipt, error) {
	localID, err := uc.queue.Enqueue(ctx, pending)
	if err != nil {
		// The sale is recorded nowhere; this must reach the operator.
		uc.logger.Error("could not queue sale offline", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("sale saved offline", zap.Int64("local_id", localID))
	metrics.SalesSubmitted.WithLabelValues("offline").Inc()

	receipt := buildReceipt(input, pending.Payments, totals, createdAt)
	receipt.Offline = true
	receipt.LocalID = &localID
	return receipt, nil
}

func cartItems(lines []model.CartLine) []model.CartItem {
	items := make([]model.CartItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.CartItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.DisplayPrice,
			BasePrice: l.BasePrice,
			TaxRate:   l.TaxRate,
		})
	}
	return items
}

func buildReceipt(input *dto.SubmitSaleInput, payments []model.PaymentEntry, totals pricing.Totals, createdAt time.Time) *model.Receipt {
	lines := make([]model.ReceiptLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		lines = append(lines, model.ReceiptLine{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitType:  l.UnitType,
			UnitPrice: l.BasePrice,
			LineTotal: pricing.LineTotal(l),
		})
	}

	receiptPayments := make([]model.ReceiptPayment, 0, len(payments))
	for _, p := range payments {
		receiptPayments = append(receiptPayments, model.ReceiptPayment{
			Method:    p.Method,
			Amount:    p.Amount,
			Reference: p.TransactionRef,
		})
	}

	return &model.Receipt{
		Lines:     lines,
		Subtotal:  totals.Subtotal,
		Tax:       totals.Tax,
		Total:     totals.Total,
		Payments:  receiptPayments,
		TotalPaid: totals.TotalPaid,
		Change:    totals.Change,
		Notes:     input.Notes,
		CreatedAt: createdAt,
	}
}
