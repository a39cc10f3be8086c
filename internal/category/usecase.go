package category

import (
	"context"

	"github.com/atelierhq/inventory-service/internal/model"
)

type UseCase interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
}
