package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/subahan-billing/subahan-billing/internal/platform/db"
)

var (
	ErrNotFound    = errors.New("catalog: item not found")
	ErrDuplicateID = errors.New("catalog: item id already exists")
)

// itemIDLockKey scopes the advisory lock taken while scanning for the lowest
// free generated ID, so two concurrent creates cannot allocate the same one.
const itemIDLockKey = 0x5542494C // "UBIL"

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, itemID string) (*Item, error)
	List(ctx context.Context, req ListItemsRequest) ([]Item, int, error)
	Create(ctx context.Context, item Item) error
	Update(ctx context.Context, itemID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, itemID string, at time.Time) error
	Restore(ctx context.Context, itemID string, cutoff time.Time) error
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
	NextGeneratedID(ctx context.Context) (string, error)
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

const itemColumns = `item_id, name, arabic_name, unit, is_wire_box,
	buying_price, selling_price, purchase_percentage, sell_percentage,
	created_at, updated_at, deleted_at`

func (r *repository) Get(ctx context.Context, itemID string) (*Item, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM items WHERE item_id = $1", itemColumns), itemID)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *repository) List(ctx context.Context, req ListItemsRequest) ([]Item, int, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argPos := 1

	switch {
	case req.DeletedOnly:
		conditions = append(conditions, "deleted_at IS NOT NULL")
	case !req.IncludeDeleted:
		conditions = append(conditions, "deleted_at IS NULL")
	}
	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(item_id ILIKE $%d OR name ILIKE $%d OR arabic_name ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+req.Search+"%")
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM items %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM items %s ORDER BY item_id LIMIT $%d OFFSET $%d",
		itemColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	return items, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, item Item) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO items (item_id, name, arabic_name, unit, is_wire_box,
			buying_price, selling_price, purchase_percentage, sell_percentage,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`,
		item.ItemID, item.Name, item.ArabicName, item.Unit, item.IsWireBox,
		item.BuyingPrice, item.SellingPrice, item.PurchasePercentage, item.SellPercentage,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", ErrDuplicateID, item.ItemID)
		}
		return err
	}
	return nil
}

func (r *repository) Update(ctx context.Context, itemID string, updates map[string]interface{}) error {
	query := "UPDATE items SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{
		"name", "arabic_name", "unit", "is_wire_box",
		"buying_price", "selling_price", "purchase_percentage", "sell_percentage",
	} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE item_id = $%d AND deleted_at IS NULL", argPos)
	args = append(args, itemID)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, itemID string, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE items SET deleted_at = $2, updated_at = NOW() WHERE item_id = $1 AND deleted_at IS NULL",
		itemID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Restore(ctx context.Context, itemID string, cutoff time.Time) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE items SET deleted_at = NULL, updated_at = NOW() WHERE item_id = $1 AND deleted_at IS NOT NULL AND deleted_at > $2",
		itemID, cutoff)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM items WHERE deleted_at IS NOT NULL AND deleted_at <= $1", cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// NextGeneratedID returns the lowest free ITEMnnn identifier, counting both
// live and trashed rows so a purge cannot resurrect a number that a printed
// bill still references. Callers must run it inside WithTx: the advisory
// lock holds until commit.
func (r *repository) NextGeneratedID(ctx context.Context) (string, error) {
	if _, err := r.db.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", itemIDLockKey); err != nil {
		return "", err
	}

	rows, err := r.db.Query(ctx, `SELECT item_id FROM items WHERE item_id ~ '^ITEM[0-9]+$' ORDER BY item_id`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	taken := make(map[int]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		var n int
		if _, err := fmt.Sscanf(id, "ITEM%d", &n); err == nil {
			taken[n] = true
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	n := 1
	for taken[n] {
		n++
	}
	return fmt.Sprintf("ITEM%03d", n), nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(
		&it.ItemID, &it.Name, &it.ArabicName, &it.Unit, &it.IsWireBox,
		&it.BuyingPrice, &it.SellingPrice, &it.PurchasePercentage, &it.SellPercentage,
		&it.CreatedAt, &it.UpdatedAt, &it.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
