package dto

type ItemFilters struct {
	Search       string `json:"search,omitempty"`
	CategoryID   *int64 `json:"category_id,omitempty"`
	LowStockOnly bool   `json:"low_stock_only,omitempty"`
}

type TransactionFilters struct {
	ItemID   int64
	Type     string
	Page     int
	PageSize int
}
