package sale

import (
	"context"

	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/sale/dto"
)

type UseCase interface {
	// SubmitSale resolves one finalized cart+payment set, either against
	// the remote service directly or into the offline queue. Every
	// resolved submission yields a receipt; only validation, storage and
	// remote-rejection failures do not.
	SubmitSale(ctx context.Context, input *dto.SubmitSaleInput) (*model.Receipt, error)
}
