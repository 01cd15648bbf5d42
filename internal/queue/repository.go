package queue

import (
	"context"

	"github.com/fekuna/omnipos-terminal/internal/model"
)

type Repository interface {
	// Enqueue durably appends a sale and returns its device-local id.
	// The write is a single transaction: a partially written sale is
	// never observable.
	Enqueue(ctx context.Context, sale *model.PendingSale) (int64, error)

	// ListAll returns every queued sale in insertion order, regardless
	// of status.
	ListAll(ctx context.Context) ([]model.PendingSale, error)

	// ListPending returns only sales still eligible for synchronization,
	// in insertion order.
	ListPending(ctx context.Context) ([]model.PendingSale, error)

	// Remove deletes a sale. Called strictly after the remote service
	// has acknowledged that exact record.
	Remove(ctx context.Context, localID int64) error

	// MarkRejected records a business rejection. Once maxRejects
	// consecutive rejections accumulate the sale is parked as
	// needs_review; maxRejects <= 0 disables the cap.
	MarkRejected(ctx context.Context, localID int64, maxRejects int) error

	Count(ctx context.Context) (int, error)
}
