package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/atelierhq/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	err := r.DB.SelectContext(ctx, &categories, `SELECT * FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return categories, nil
}
