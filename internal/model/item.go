package model

import "time"

type Item struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	SKU          *string   `db:"sku" json:"sku"`
	Barcode      *string   `db:"barcode" json:"barcode"`
	CategoryID   *int64    `db:"category_id" json:"category_id"`
	Subcategory  *string   `db:"subcategory" json:"subcategory"`
	MinStock     int64     `db:"min_stock" json:"min_stock"`
	CurrentStock int64     `db:"current_stock" json:"current_stock"`
	Location     *string   `db:"location" json:"location"`
	UnitCost     *float64  `db:"unit_cost" json:"unit_cost"`
	Notes        *string   `db:"notes" json:"notes"`
	ImageURL     *string   `db:"image_url" json:"image_url"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// LowStock reports whether the item is at or below its minimum stock level.
func (i *Item) LowStock() bool {
	return i.CurrentStock <= i.MinStock
}
