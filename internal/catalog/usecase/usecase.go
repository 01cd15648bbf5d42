package usecase

import (
	"context"

	"github.com/fekuna/omnipos-terminal/internal/catalog"
	"github.com/fekuna/omnipos-terminal/internal/connectivity"
	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/remote"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
	"go.uber.org/zap"
)

type catalogUseCase struct {
	repo    catalog.Repository
	remote  remote.Client
	monitor *connectivity.Monitor
	logger  logger.ZapLogger
}

func NewCatalogUseCase(repo catalog.Repository, client remote.Client, monitor *connectivity.Monitor, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:    repo,
		remote:  client,
		monitor: monitor,
		logger:  log,
	}
}

func (uc *catalogUseCase) Refresh(ctx context.Context) error {
	if !uc.monitor.IsOnline() {
		uc.logger.Debug("skipping catalog refresh while offline")
		return nil
	}

	products, err := uc.remote.FetchAllProducts(ctx)
	if err != nil {
		uc.logger.Warn("catalog refresh failed, serving stale cache", zap.Error(err))
		return err
	}

	if err := uc.repo.ReplaceAll(ctx, products); err != nil {
		return err
	}

	uc.logger.Info("catalog cache refreshed", zap.Int("products", len(products)))
	return nil
}

func (uc *catalogUseCase) Products(ctx context.Context) ([]model.Product, error) {
	return uc.repo.GetAll(ctx)
}
