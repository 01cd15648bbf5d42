package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSale(ref string, total string) *model.PendingSale {
	tendered := decimal.RequireFromString("25.00")
	return &model.PendingSale{
		ClientRef: ref,
		AccountID: 1,
		Cart: []model.CartItem{
			{
				ProductID: 42,
				Quantity:  decimal.RequireFromString("2"),
				Price:     decimal.RequireFromString("11.00"),
				BasePrice: decimal.RequireFromString("10.00"),
				TaxRate:   decimal.RequireFromString("10"),
			},
		},
		Payments: []model.PaymentEntry{
			{
				Amount:   decimal.RequireFromString(total),
				Method:   model.PaymentMethodCash,
				Tendered: &tendered,
			},
		},
		Subtotal:      decimal.RequireFromString("20.00"),
		Tax:           decimal.RequireFromString("2.00"),
		Total:         decimal.RequireFromString(total),
		TotalTendered: tendered,
		CreatedAt:     "2026-08-31T10:00:00Z",
	}
}

func openRepo(t *testing.T, path string) *SQLiteRepository {
	t.Helper()
	db, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteRepository(db)
}

func TestEnqueuePreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t, filepath.Join(t.TempDir(), "pos.db"))

	idA, err := repo.Enqueue(ctx, testSale("ref-a", "22.00"))
	require.NoError(t, err)
	idB, err := repo.Enqueue(ctx, testSale("ref-b", "22.00"))
	require.NoError(t, err)
	idC, err := repo.Enqueue(ctx, testSale("ref-c", "22.00"))
	require.NoError(t, err)

	assert.Less(t, idA, idB)
	assert.Less(t, idB, idC)

	sales, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 3)
	assert.Equal(t, "ref-a", sales[0].ClientRef)
	assert.Equal(t, "ref-b", sales[1].ClientRef)
	assert.Equal(t, "ref-c", sales[2].ClientRef)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSaleSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pos.db")

	repo := openRepo(t, path)
	original := testSale("ref-durable", "22.00")
	id, err := repo.Enqueue(ctx, original)
	require.NoError(t, err)
	require.NoError(t, repo.DB.Close())

	// Simulated process restart: reload the store from persisted state.
	reopened := openRepo(t, path)
	sales, err := reopened.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)

	got := sales[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, original.ClientRef, got.ClientRef)
	assert.Equal(t, original.AccountID, got.AccountID)
	assert.Equal(t, original.CreatedAt, got.CreatedAt)
	require.Len(t, got.Cart, 1)
	assert.Equal(t, original.Cart[0].ProductID, got.Cart[0].ProductID)
	assert.True(t, got.Cart[0].Quantity.Equal(original.Cart[0].Quantity))
	assert.True(t, got.Cart[0].BasePrice.Equal(original.Cart[0].BasePrice))
	assert.True(t, got.Cart[0].TaxRate.Equal(original.Cart[0].TaxRate))
	require.Len(t, got.Payments, 1)
	assert.True(t, got.Payments[0].Amount.Equal(original.Payments[0].Amount))
	require.NotNil(t, got.Payments[0].Tendered)
	assert.True(t, got.Payments[0].Tendered.Equal(*original.Payments[0].Tendered))
	assert.True(t, got.Total.Equal(original.Total))
	assert.True(t, got.Subtotal.Equal(original.Subtotal))
	assert.True(t, got.Tax.Equal(original.Tax))
}

func TestRemoveDeletesOnlyTargetSale(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t, filepath.Join(t.TempDir(), "pos.db"))

	idA, err := repo.Enqueue(ctx, testSale("ref-a", "22.00"))
	require.NoError(t, err)
	_, err = repo.Enqueue(ctx, testSale("ref-b", "22.00"))
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, idA))

	sales, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "ref-b", sales[0].ClientRef)

	// Ids are never reused.
	idC, err := repo.Enqueue(ctx, testSale("ref-c", "22.00"))
	require.NoError(t, err)
	assert.Greater(t, idC, idA)

	assert.Error(t, repo.Remove(ctx, idA))
}

func TestMarkRejectedParksSaleAfterCap(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t, filepath.Join(t.TempDir(), "pos.db"))

	id, err := repo.Enqueue(ctx, testSale("ref-reject", "22.00"))
	require.NoError(t, err)

	require.NoError(t, repo.MarkRejected(ctx, id, 3))
	require.NoError(t, repo.MarkRejected(ctx, id, 3))

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].RejectCount)

	require.NoError(t, repo.MarkRejected(ctx, id, 3))

	pending, err = repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Parked, not discarded: still visible for operator review.
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.PendingSaleStatusNeedsReview, all[0].Status)
	assert.Equal(t, 3, all[0].RejectCount)
}

func TestMarkRejectedWithoutCapNeverParks(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t, filepath.Join(t.TempDir(), "pos.db"))

	id, err := repo.Enqueue(ctx, testSale("ref-nocap", "22.00"))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, repo.MarkRejected(ctx, id, 0))
	}

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 10, pending[0].RejectCount)
}
