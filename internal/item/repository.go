package item

import (
	"context"

	"github.com/atelierhq/inventory-service/internal/item/dto"
	"github.com/atelierhq/inventory-service/internal/model"
)

type Repository interface {
	// FindByID returns nil without error when the item does not exist.
	FindByID(ctx context.Context, id int64) (*model.Item, error)
	FindAll(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, error)

	// AdjustStockWithTransaction applies a conditional stock delta and
	// appends the ledger record in a single store transaction. It returns
	// ErrStockConflict when the condition (resulting stock >= 0) no longer
	// holds at write time.
	AdjustStockWithTransaction(ctx context.Context, itemID, delta int64, record *model.StockTransaction) (*model.Item, error)

	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.StockTransaction, int, error)
}
