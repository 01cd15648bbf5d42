package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/store"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

type productRow struct {
	ID            int64           `db:"id"`
	Name          string          `db:"name"`
	Description   *string         `db:"description"`
	BasePrice     decimal.Decimal `db:"base_price"`
	DisplayPrice  decimal.Decimal `db:"display_price"`
	TaxRate       decimal.Decimal `db:"tax_rate"`
	TotalStock    decimal.Decimal `db:"total_stock"`
	SellingMethod string          `db:"selling_method"`
	UnitType      *string         `db:"unit_type"`
	SKU           *string         `db:"sku"`
	Barcode       *string         `db:"barcode"`
	IsActive      bool            `db:"is_active"`
	CreatedAt     string          `db:"created_at"`
	UpdatedAt     string          `db:"updated_at"`
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, products []model.Product) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin cache refresh: %v", store.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	// Clear existing products before saving new ones to keep the cache fresh.
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_cache`); err != nil {
		return fmt.Errorf("%w: clear cache: %v", store.ErrStorageUnavailable, err)
	}

	query := `
        INSERT INTO product_cache (
            id, name, description, base_price, display_price, tax_rate,
            total_stock, selling_method, unit_type, sku, barcode, is_active,
            created_at, updated_at
        )
        VALUES (
            :id, :name, :description, :base_price, :display_price, :tax_rate,
            :total_stock, :selling_method, :unit_type, :sku, :barcode, :is_active,
            :created_at, :updated_at
        )
    `
	for _, p := range products {
		row := &productRow{
			ID:            p.ID,
			Name:          p.Name,
			Description:   p.Description,
			BasePrice:     p.BasePrice,
			DisplayPrice:  p.DisplayPrice,
			TaxRate:       p.TaxRate,
			TotalStock:    p.TotalStock,
			SellingMethod: string(p.SellingMethod),
			UnitType:      p.UnitType,
			SKU:           p.SKU,
			Barcode:       p.Barcode,
			IsActive:      p.IsActive,
			CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("%w: cache product %d: %v", store.ErrStorageUnavailable, p.ID, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	var rows []productRow
	query := `SELECT * FROM product_cache ORDER BY name ASC`
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: read cache: %v", store.ErrStorageUnavailable, err)
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)
		updatedAt, _ := time.Parse(time.RFC3339, row.UpdatedAt)
		products = append(products, model.Product{
			ID:            row.ID,
			Name:          row.Name,
			Description:   row.Description,
			BasePrice:     row.BasePrice,
			DisplayPrice:  row.DisplayPrice,
			TaxRate:       row.TaxRate,
			TotalStock:    row.TotalStock,
			SellingMethod: model.SellingMethod(row.SellingMethod),
			UnitType:      row.UnitType,
			SKU:           row.SKU,
			Barcode:       row.Barcode,
			IsActive:      row.IsActive,
			CreatedAt:     createdAt,
			UpdatedAt:     updatedAt,
		})
	}
	return products, nil
}
