package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/subahan-billing/subahan-billing/internal/platform/db"
)

var ErrNotFound = errors.New("billing: bill not found")

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id string) (*Bill, error)
	List(ctx context.Context, req ListBillsRequest) ([]Bill, int, error)
	Create(ctx context.Context, bill Bill) error
	UpdateHeader(ctx context.Context, id string, customer *string, total float64) error
	InsertItem(ctx context.Context, item BillItem) error
	DeleteItems(ctx context.Context, billID string) error
	Delete(ctx context.Context, id string) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) Get(ctx context.Context, id string) (*Bill, error) {
	var b Bill
	err := r.db.QueryRow(ctx,
		"SELECT id, customer, total_amount, created_at, updated_at FROM bills WHERE id = $1", id).
		Scan(&b.ID, &b.Customer, &b.TotalAmount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, bill_id, item_id, item_name, arabic_name, unit,
		       quantity, unit_price, base_selling_price, buying_price,
		       purchase_percentage, line_order
		FROM bill_items WHERE bill_id = $1 ORDER BY line_order`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it BillItem
		if err := rows.Scan(
			&it.ID, &it.BillID, &it.ItemID, &it.ItemName, &it.ArabicName, &it.Unit,
			&it.Quantity, &it.UnitPrice, &it.BaseSellingPrice, &it.BuyingPrice,
			&it.PurchasePercentage, &it.LineOrder,
		); err != nil {
			return nil, err
		}
		b.Items = append(b.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) List(ctx context.Context, req ListBillsRequest) ([]Bill, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM bills").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, customer, total_amount, created_at, updated_at
		FROM bills ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		req.Limit, req.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bills []Bill
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.ID, &b.Customer, &b.TotalAmount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		bills = append(bills, b)
	}
	return bills, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, bill Bill) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO bills (id, customer, total_amount, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW())",
		bill.ID, bill.Customer, bill.TotalAmount)
	return err
}

func (r *repository) UpdateHeader(ctx context.Context, id string, customer *string, total float64) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE bills SET customer = $2, total_amount = $3, updated_at = NOW() WHERE id = $1",
		id, customer, total)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertItem(ctx context.Context, item BillItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bill_items (bill_id, item_id, item_name, arabic_name, unit,
			quantity, unit_price, base_selling_price, buying_price,
			purchase_percentage, line_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		item.BillID, item.ItemID, item.ItemName, item.ArabicName, item.Unit,
		item.Quantity, item.UnitPrice, item.BaseSellingPrice, item.BuyingPrice,
		item.PurchasePercentage, item.LineOrder)
	if err != nil {
		return fmt.Errorf("insert bill item: %w", err)
	}
	return nil
}

func (r *repository) DeleteItems(ctx context.Context, billID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM bill_items WHERE bill_id = $1", billID)
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM bills WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
