package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelierhq/inventory-service/internal/apperror"
	"github.com/atelierhq/inventory-service/internal/item"
	"github.com/atelierhq/inventory-service/internal/item/dto"
	"github.com/atelierhq/inventory-service/internal/model"
	"github.com/atelierhq/inventory-service/pkg/logger"
	"github.com/atelierhq/inventory-service/pkg/search"
)

const (
	itemsIndex    = "items"
	listCacheTTL  = 5 * time.Minute
	lockTTL       = 5 * time.Second
	lockAttempts  = 3
	lockRetryWait = 100 * time.Millisecond
)

type itemUseCase struct {
	repo   item.Repository
	cache  item.Cache
	locker item.Locker
	es     *search.Client
	logger logger.ZapLogger
}

// NewItemUseCase wires the item business logic. cache, locker and es may be
// nil; the corresponding behavior (list caching, adjustment serialization,
// search offload) is then skipped.
func NewItemUseCase(repo item.Repository, cache item.Cache, locker item.Locker, es *search.Client, log logger.ZapLogger) item.UseCase {
	return &itemUseCase{
		repo:   repo,
		cache:  cache,
		locker: locker,
		es:     es,
		logger: log,
	}
}

func (uc *itemUseCase) List(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, error) {
	if filters == nil {
		filters = &dto.ItemFilters{}
	}

	// 1. Check cache
	cacheKey := listCacheKey(filters)
	if uc.cache != nil {
		if val, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var cached []model.Item
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	// 2. Search via Elastic when a term is present. Stock-level predicates
	// need fresh counts, so lowStockOnly always goes to the database.
	if filters.Search != "" && !filters.LowStockOnly && uc.es != nil {
		items, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return items, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	// 3. Database query
	items, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to fetch items", err)
	}

	// 4. Set cache
	if uc.cache != nil {
		if data, err := json.Marshal(items); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, listCacheTTL); err != nil {
				uc.logger.Warn("failed to cache item list", zap.Error(err))
			}
		}
	}

	return items, nil
}

func (uc *itemUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Item, error) {
	txType := input.Type
	if txType == "" {
		txType = model.TxTypeAdjustment
	}

	// 1. Serialize adjustments per item
	if uc.locker != nil {
		lockKey := fmt.Sprintf("lock:item:%d", input.ItemID)
		lockValue := uuid.New().String()

		acquired := false
		for i := 0; i < lockAttempts; i++ {
			ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, lockTTL)
			if err != nil {
				uc.logger.Error("failed to acquire item lock", zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(lockRetryWait)
		}
		if !acquired {
			return nil, apperror.New(apperror.KindConflict, "item is busy, please try again")
		}
		defer uc.locker.ReleaseLock(ctx, lockKey, lockValue)
	}

	// 2. Fetch current item
	current, err := uc.repo.FindByID(ctx, input.ItemID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to fetch item", err)
	}
	if current == nil {
		return nil, apperror.New(apperror.KindNotFound, "item not found")
	}

	// 3. Reject negative resulting stock
	newStock := current.CurrentStock + input.Delta
	if newStock < 0 {
		return nil, apperror.Newf(apperror.KindBadRequest,
			"cannot adjust stock by %d: current stock is %d", input.Delta, current.CurrentStock)
	}

	// 4. Apply stock delta and ledger record in one store transaction
	record := &model.StockTransaction{
		ItemID:    input.ItemID,
		Type:      txType,
		Quantity:  input.Delta,
		CreatedAt: time.Now(),
	}
	if input.Notes != "" {
		notes := input.Notes
		record.Notes = &notes
	}
	if input.UserID != "" {
		userID := input.UserID
		record.UserID = &userID
	}

	updated, err := uc.repo.AdjustStockWithTransaction(ctx, input.ItemID, input.Delta, record)
	if err != nil {
		if errors.Is(err, item.ErrStockConflict) {
			return nil, apperror.New(apperror.KindConflict, "stock changed concurrently, please try again")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "failed to adjust stock", err)
	}

	// 5. Best-effort cache invalidation and reindex
	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), updated)

	return updated, nil
}

func (uc *itemUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.StockTransaction, int, error) {
	if filters.PageSize <= 0 {
		filters.PageSize = 50
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}

	txs, count, err := uc.repo.ListTransactions(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.KindInternal, "failed to fetch transactions", err)
	}
	return txs, count, nil
}

func (uc *itemUseCase) searchElastic(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, error) {
	must := []map[string]any{
		{
			"query_string": map[string]any{
				"query":  fmt.Sprintf("*%s*", filters.Search),
				"fields": []string{"name^3", "sku", "barcode"},
			},
		},
	}
	if filters.CategoryID != nil {
		must = append(must, map[string]any{
			"term": map[string]any{"category_id": *filters.CategoryID},
		})
	}

	q := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must},
		},
		"size": 1000,
	}

	res, err := uc.es.Search(ctx, itemsIndex, q)
	if err != nil {
		return nil, err
	}

	items := make([]model.Item, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var it model.Item
		if err := json.Unmarshal(hit.Source, &it); err == nil {
			items = append(items, it)
		}
	}
	// The contract orders by name regardless of relevance score.
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (uc *itemUseCase) syncToElastic(ctx context.Context, it *model.Item) {
	if uc.es == nil || it == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"name": { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
				"sku": { "type": "keyword" },
				"barcode": { "type": "keyword" },
				"category_id": { "type": "long" },
				"current_stock": { "type": "long" },
				"min_stock": { "type": "long" },
				"updated_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, itemsIndex, mapping)

	if err := uc.es.Index(ctx, itemsIndex, fmt.Sprintf("%d", it.ID), it); err != nil {
		uc.logger.Error("failed to index item", zap.Int64("item_id", it.ID), zap.Error(err))
	}
}

func (uc *itemUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DelPattern(ctx, "items:list:*"); err != nil {
		uc.logger.Warn("failed to invalidate item list cache", zap.Error(err))
	}
}

func listCacheKey(filters *dto.ItemFilters) string {
	data, _ := json.Marshal(filters)
	return fmt.Sprintf("items:list:%x", md5.Sum(data))
}
