package catalog

import (
	"context"

	"github.com/fekuna/omnipos-terminal/internal/model"
)

type Repository interface {
	// ReplaceAll swaps the entire cached catalog in one transaction so
	// readers never observe a half-refreshed cache.
	ReplaceAll(ctx context.Context, products []model.Product) error

	// GetAll returns the cached projection for offline cart building.
	GetAll(ctx context.Context) ([]model.Product, error)
}
