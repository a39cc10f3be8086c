package dto

type AdjustStockInput struct {
	ItemID int64
	Delta  int64
	Notes  string
	Type   string // transaction type tag; handlers pass "adjustment"
	UserID string
}
