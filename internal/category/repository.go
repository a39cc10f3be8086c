package category

import (
	"context"

	"github.com/atelierhq/inventory-service/internal/model"
)

// Repository reads the externally managed categories table.
type Repository interface {
	FindAll(ctx context.Context) ([]model.Category, error)
}
