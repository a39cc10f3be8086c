package model

import "time"

// Transaction type tags. The ledger is append-only: rows are inserted as a
// side effect of stock movements and never updated or deleted.
const (
	TxTypeAdjustment = "adjustment"
	TxTypeSale       = "sale"
	TxTypePurchase   = "purchase"
	TxTypeReturn     = "return"
	TxTypeDamage     = "damage"
)

type StockTransaction struct {
	ID        int64     `db:"id" json:"id"`
	ItemID    int64     `db:"item_id" json:"item_id"`
	Type      string    `db:"type" json:"type"`
	Quantity  int64     `db:"quantity" json:"quantity"`
	Notes     *string   `db:"notes" json:"notes"`
	UserID    *string   `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
