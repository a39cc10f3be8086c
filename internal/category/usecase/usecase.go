package usecase

import (
	"context"

	"github.com/atelierhq/inventory-service/internal/apperror"
	"github.com/atelierhq/inventory-service/internal/category"
	"github.com/atelierhq/inventory-service/internal/model"
	"github.com/atelierhq/inventory-service/pkg/logger"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{repo: repo, logger: log}
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to fetch categories", err)
	}
	return categories, nil
}
