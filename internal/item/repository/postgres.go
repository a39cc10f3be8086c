package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jmoiron/sqlx"

	"github.com/atelierhq/inventory-service/internal/item"
	"github.com/atelierhq/inventory-service/internal/item/dto"
	"github.com/atelierhq/inventory-service/internal/model"
)

const dialect = "postgres"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Item, error) {
	var it model.Item
	err := r.DB.GetContext(ctx, &it, `SELECT * FROM items WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

// buildListQuery translates the filter into a single SQL statement. The
// low-stock predicate compares the two stock columns in the store instead of
// post-filtering fetched rows.
func buildListQuery(f *dto.ItemFilters) (string, []interface{}, error) {
	stmt := goqu.Dialect(dialect).From("items").Order(goqu.I("name").Asc())

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		stmt = stmt.Where(goqu.Or(
			goqu.I("name").ILike(pattern),
			goqu.I("sku").ILike(pattern),
		))
	}
	if f.CategoryID != nil {
		stmt = stmt.Where(goqu.I("category_id").Eq(*f.CategoryID))
	}
	if f.LowStockOnly {
		stmt = stmt.Where(goqu.L("current_stock <= min_stock"))
	}

	return stmt.Prepared(true).ToSQL()
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ItemFilters) ([]model.Item, error) {
	query, args, err := buildListQuery(f)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	items := []model.Item{}
	if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) AdjustStockWithTransaction(ctx context.Context, itemID, delta int64, record *model.StockTransaction) (*model.Item, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. Conditional stock update. The WHERE guard rejects a write that
	// would drive stock negative even if a concurrent movement slipped in
	// between the caller's read and this statement.
	var updated model.Item
	err = tx.GetContext(ctx, &updated, `
		UPDATE items
		SET current_stock = current_stock + $1, updated_at = NOW()
		WHERE id = $2 AND current_stock + $1 >= 0
		RETURNING *`, delta, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, item.ErrStockConflict
		}
		return nil, err
	}

	// 2. Append the ledger record. A failure here rolls back the stock
	// update, keeping stock and ledger consistent.
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO transactions (item_id, type, quantity, notes, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		record.ItemID, record.Type, record.Quantity, record.Notes, record.UserID, record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *PGRepository) ListTransactions(ctx context.Context, f *dto.TransactionFilters) ([]model.StockTransaction, int, error) {
	base := goqu.Dialect(dialect).From("transactions").
		Where(goqu.I("item_id").Eq(f.ItemID))
	if f.Type != "" {
		base = base.Where(goqu.I("type").Eq(f.Type))
	}

	countQuery, countArgs, err := base.Select(goqu.COUNT("*")).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var count int
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	listStmt := base.Order(goqu.I("created_at").Desc())
	if f.PageSize > 0 {
		listStmt = listStmt.
			Limit(uint(f.PageSize)).
			Offset(uint((f.Page - 1) * f.PageSize))
	}
	query, args, err := listStmt.Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, err
	}

	txs := []model.StockTransaction{}
	if err := r.DB.SelectContext(ctx, &txs, r.DB.Rebind(query), args...); err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}
