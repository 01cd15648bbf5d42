package repository

import (
	"context"
	"encoding/json"
	"fmt"

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

// pendingSaleRow mirrors the durable column layout. Snapshots live in JSON
// columns so the record layout stays readable by older terminal builds.
type pendingSaleRow struct {
	ID            int64           `db:"id"`
	ClientRef     string          `db:"client_ref"`
	AccountID     int64           `db:"account_id"`
	Cart          []byte          `db:"cart"`
	Payments      []byte          `db:"payments"`
	Notes         *string         `db:"notes"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Tax           decimal.Decimal `db:"tax"`
	Total         decimal.Decimal `db:"total"`
	TotalTendered decimal.Decimal `db:"total_tendered"`
	Status        string          `db:"status"`
	RejectCount   int             `db:"reject_count"`
	CreatedAt     string          `db:"created_at"`
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, sale *model.PendingSale) (int64, error) {
	cart, err := json.Marshal(sale.Cart)
	if err != nil {
		return 0, fmt.Errorf("marshal cart snapshot: %w", err)
	}
	payments, err := json.Marshal(sale.Payments)
	if err != nil {
		return 0, fmt.Errorf("marshal payments snapshot: %w", err)
	}

	query := `
        INSERT INTO pending_sales (
            client_ref, account_id, cart, payments, notes,
            subtotal, tax, total, total_tendered, status, reject_count, created_at
        )
        VALUES (
            :client_ref, :account_id, :cart, :payments, :notes,
            :subtotal, :tax, :total, :total_tendered, :status, :reject_count, :created_at
        )
    `
	res, err := r.DB.NamedExecContext(ctx, query, &pendingSaleRow{
		ClientRef:     sale.ClientRef,
		AccountID:     sale.AccountID,
		Cart:          cart,
		Payments:      payments,
		Notes:         sale.Notes,
		Subtotal:      sale.Subtotal,
		Tax:           sale.Tax,
		Total:         sale.Total,
		TotalTendered: sale.TotalTendered,
		Status:        string(model.PendingSaleStatusPending),
		RejectCount:   0,
		CreatedAt:     sale.CreatedAt,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: enqueue: %v", store.ErrStorageUnavailable, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: enqueue id: %v", store.ErrStorageUnavailable, err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]model.PendingSale, error) {
	return r.list(ctx, `SELECT * FROM pending_sales ORDER BY id ASC`)
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]model.PendingSale, error) {
	return r.list(ctx, `SELECT * FROM pending_sales WHERE status = 'pending' ORDER BY id ASC`)
}

func (r *SQLiteRepository) list(ctx context.Context, query string) ([]model.PendingSale, error) {
	var rows []pendingSaleRow
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: list: %v", store.ErrStorageUnavailable, err)
	}

	sales := make([]model.PendingSale, 0, len(rows))
	for _, row := range rows {
		sale := model.PendingSale{
			ID:            row.ID,
			ClientRef:     row.ClientRef,
			AccountID:     row.AccountID,
			Notes:         row.Notes,
			Subtotal:      row.Subtotal,
			Tax:           row.Tax,
			Total:         row.Total,
			TotalTendered: row.TotalTendered,
			Status:        model.PendingSaleStatus(row.Status),
			RejectCount:   row.RejectCount,
			CreatedAt:     row.CreatedAt,
		}
		if err := json.Unmarshal(row.Cart, &sale.Cart); err != nil {
			return nil, fmt.Errorf("unmarshal cart snapshot for sale %d: %w", row.ID, err)
		}
		if err := json.Unmarshal(row.Payments, &sale.Payments); err != nil {
			return nil, fmt.Errorf("unmarshal payments snapshot for sale %d: %w", row.ID, err)
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, localID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM pending_sales WHERE id = $1`, localID)
	if err != nil {
		return fmt.Errorf("%w: remove: %v", store.ErrStorageUnavailable, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("pending sale %d not found", localID)
	}
	return nil
}

func (r *SQLiteRepository) MarkRejected(ctx context.Context, localID int64, maxRejects int) error {
	query := `
        UPDATE pending_sales
        SET reject_count = reject_count + 1,
            status = CASE
                WHEN $1 > 0 AND reject_count + 1 >= $1 THEN 'needs_review'
                ELSE status
            END
        WHERE id = $2
    `
	res, err := r.DB.ExecContext(ctx, query, maxRejects, localID)
	if err != nil {
		return fmt.Errorf("%w: mark rejected: %v", store.ErrStorageUnavailable, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("pending sale %d not found", localID)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM pending_sales`); err != nil {
		return 0, fmt.Errorf("%w: count: %v", store.ErrStorageUnavailable, err)
	}
	return count, nil
}
