package item

import (
	"context"
	"errors"
	"time"

	"github.com/atelierhq/inventory-service/internal/item/dto"
	"github.com/atelierhq/inventory-service/internal/model"
)

// ErrStockConflict is returned by the repository when the conditional stock
// update matched no row, i.e. a concurrent movement depleted the stock
// between read and write.
var ErrStockConflict = errors.New("stock changed concurrently")

type UseCase interface {
	List(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Item, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.StockTransaction, int, error)
}

// Locker is the distributed lock surface used to serialize adjustments on
// the same item across instances.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) (bool, error)
}

// Cache is the list-result cache surface. Implementations signal a miss by
// returning an error from Get.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DelPattern(ctx context.Context, pattern string) error
}
