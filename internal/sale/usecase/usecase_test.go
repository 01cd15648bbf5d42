package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-terminal/internal/connectivity"
	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/pricing"
	"github.com/fekuna/omnipos-terminal/internal/remote"
	"github.com/fekuna/omnipos-terminal/internal/sale/dto"
	"github.com/fekuna/omnipos-terminal/internal/store"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockQueue implements queue.Repository for testing.
type MockQueue struct {
	Enqueued   []*model.PendingSale // Captures sales passed to Enqueue
	EnqueueErr error
	NextID     int64
}

func (m *MockQueue) Enqueue(_ context.Context, sale *model.PendingSale) (int64, error) {
	if m.EnqueueErr != nil {
		return 0, m.EnqueueErr
	}
	m.NextID++
	m.Enqueued = append(m.Enqueued, sale)
	return m.NextID, nil
}

func (m *MockQueue) ListAll(_ context.Context) ([]model.PendingSale, error)     { return nil, nil }
func (m *MockQueue) ListPending(_ context.Context) ([]model.PendingSale, error) { return nil, nil }
func (m *MockQueue) Remove(_ context.Context, _ int64) error                    { return nil }
func (m *MockQueue) MarkRejected(_ context.Context, _ int64, _ int) error       { return nil }
func (m *MockQueue) Count(_ context.Context) (int, error)                       { return len(m.Enqueued), nil }

// MockRemote implements remote.Client for testing.
type MockRemote struct {
	Requests []*remote.SaleRequest // Captures submitted requests
	Result   *remote.SaleResult
	Err      error
}

func (m *MockRemote) SubmitSale(_ context.Context, req *remote.SaleRequest) (*remote.SaleResult, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *MockRemote) FetchAllProducts(_ context.Context) ([]model.Product, error) {
	return nil, nil
}

func testMonitor() *connectivity.Monitor {
	return connectivity.NewMonitor(&connectivity.Config{
		ProbeAddr:     "localhost:1",
		ProbeInterval: time.Minute,
		ProbeTimeout:  time.Millisecond,
	}, logger.NewNop())
}

func testInput() *dto.SubmitSaleInput {
	tendered := decimal.RequireFromString("25.00")
	return &dto.SubmitSaleInput{
		AccountID: 1,
		Lines: []model.CartLine{
			{
				ProductID:     42,
				Name:          "Beans 1kg",
				SellingMethod: model.SellingMethodUnit,
				Quantity:      decimal.RequireFromString("2"),
				BasePrice:     decimal.RequireFromString("10.00"),
				DisplayPrice:  decimal.RequireFromString("11.00"),
				TaxRate:       decimal.RequireFromString("10"),
			},
		},
		Payments: []model.PaymentEntry{
			{Amount: tendered, Method: model.PaymentMethodCash, Tendered: &tendered},
		},
	}
}

func TestSubmitSaleOnlineConfirmed(t *testing.T) {
	q := &MockQueue{}
	r := &MockRemote{Result: &remote.SaleResult{Success: true, OrderID: 900}}
	uc := NewSaleUseCase(q, r, testMonitor(), logger.NewNop())

	receipt, err := uc.SubmitSale(context.Background(), testInput())
	require.NoError(t, err)

	assert.False(t, receipt.Offline)
	require.NotNil(t, receipt.OrderID)
	assert.Equal(t, int64(900), *receipt.OrderID)
	assert.Nil(t, receipt.LocalID)
	assert.Empty(t, q.Enqueued, "nothing queued on a confirmed direct submission")

	require.Len(t, r.Requests, 1)
	req := r.Requests[0]
	assert.NotEmpty(t, req.ClientRef)
	assert.True(t, req.Total.Equal(decimal.RequireFromString("22.00")))
	assert.True(t, req.Tax.Equal(decimal.RequireFromString("2.00")))
	assert.True(t, req.TotalTendered.Equal(decimal.RequireFromString("25.00")))

	// Cash applied amount is capped at the outstanding total.
	require.Len(t, req.Payments, 1)
	assert.True(t, req.Payments[0].Amount.Equal(decimal.RequireFromString("22.00")))

	assert.True(t, receipt.Subtotal.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, receipt.Change.Equal(decimal.RequireFromString("3.00")))
}

func TestSubmitSaleOfflineEnqueues(t *testing.T) {
	q := &MockQueue{}
	r := &MockRemote{}
	monitor := testMonitor()
	monitor.SetOnline(false)
	uc := NewSaleUseCase(q, r, monitor, logger.NewNop())

	receipt, err := uc.SubmitSale(context.Background(), testInput())
	require.NoError(t, err)

	assert.True(t, receipt.Offline)
	require.NotNil(t, receipt.LocalID)
	assert.Equal(t, int64(1), *receipt.LocalID)
	assert.Nil(t, receipt.OrderID)
	assert.Empty(t, r.Requests, "no remote call while offline")

	require.Len(t, q.Enqueued, 1)
	pending := q.Enqueued[0]
	assert.NotEmpty(t, pending.ClientRef)
	assert.True(t, pending.Total.Equal(decimal.RequireFromString("22.00")))
	require.Len(t, pending.Cart, 1)
	assert.Equal(t, int64(42), pending.Cart[0].ProductID)
}

func TestSubmitSaleRemoteRejectionIsTerminal(t *testing.T) {
	q := &MockQueue{}
	r := &MockRemote{Err: &remote.RejectedError{Message: "insufficient stock"}}
	uc := NewSaleUseCase(q, r, testMonitor(), logger.NewNop())

	receipt, err := uc.SubmitSale(context.Background(), testInput())
	require.Nil(t, receipt)

	var rejected *remote.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Empty(t, q.Enqueued, "a rejected sale is recorded nowhere")
}

func TestSubmitSaleTransportFailureFallsBackToQueue(t *testing.T) {
	q := &MockQueue{}
	r := &MockRemote{Err: &remote.TransportError{Err: errors.New("connection refused")}}
	monitor := testMonitor()
	uc := NewSaleUseCase(q, r, monitor, logger.NewNop())

	receipt, err := uc.SubmitSale(context.Background(), testInput())
	require.NoError(t, err, "an indeterminate outcome is not an operator-visible failure")

	assert.True(t, receipt.Offline)
	require.NotNil(t, receipt.LocalID)
	require.Len(t, q.Enqueued, 1)
	assert.False(t, monitor.IsOnline(), "a transport failure flips the terminal offline")

	// The queued snapshot keeps the client_ref that was already sent, so a
	// replay can be deduplicated by the backend.
	require.Len(t, r.Requests, 1)
	assert.Equal(t, r.Requests[0].ClientRef, q.Enqueued[0].ClientRef)
}

func TestSubmitSaleValidationBlocksBeforeAnyIO(t *testing.T) {
	q := &MockQueue{}
	r := &MockRemote{}
	uc := NewSaleUseCase(q, r, testMonitor(), logger.NewNop())

	input := testInput()
	input.Payments = []model.PaymentEntry{{Amount: decimal.RequireFromString("10.00"), Method: "Card"}}

	receipt, err := uc.SubmitSale(context.Background(), input)
	require.Nil(t, receipt)

	var vErr *pricing.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, q.Enqueued)
	assert.Empty(t, r.Requests)
}

func TestSubmitSaleStorageFailureSurfaces(t *testing.T) {
	q := &MockQueue{EnqueueErr: store.ErrStorageUnavailable}
	r := &MockRemote{}
	monitor := testMonitor()
	monitor.SetOnline(false)
	uc := NewSaleUseCase(q, r, monitor, logger.NewNop())

	receipt, err := uc.SubmitSale(context.Background(), testInput())
	require.Nil(t, receipt, "no receipt when the sale could not be recorded")
	require.ErrorIs(t, err, store.ErrStorageUnavailable)
}
