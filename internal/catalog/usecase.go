package catalog

import (
	"context"

	"github.com/fekuna/omnipos-terminal/internal/model"
)

type UseCase interface {
	// Refresh pulls the full catalog from the remote service and
	// replaces the local cache. A no-op while offline.
	Refresh(ctx context.Context) error

	// Products serves the cached catalog. Stock figures are advisory;
	// the remote service remains the authority at confirmation time.
	Products(ctx context.Context) ([]model.Product, error)
}
