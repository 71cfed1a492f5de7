package order

import (
	"context"
	"errors"
	"io"
	"log"

	"license-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by the orders/order_items tables.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `order_id::text, customer_id, customer_name, status, total_amount, comment, created_date, updated_date`

func (r *postgresRepo) GetOpenByCustomer(ctx context.Context, customerID string) (*domain.CartOrder, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE customer_id = $1 AND status = 'open'
LIMIT 1
`
	return r.fetchOrder(ctx, q, customerID)
}

func (r *postgresRepo) GetLatestByCustomer(ctx context.Context, customerID string) (*domain.CartOrder, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE customer_id = $1
ORDER BY updated_date DESC
LIMIT 1
`
	return r.fetchOrder(ctx, q, customerID)
}

func (r *postgresRepo) Save(ctx context.Context, o *domain.CartOrder) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
INSERT INTO orders (order_id, customer_id, customer_name, status, total_amount, comment, created_date, updated_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (order_id) DO UPDATE SET
    status = EXCLUDED.status,
    total_amount = EXCLUDED.total_amount,
    comment = EXCLUDED.comment,
    updated_date = EXCLUDED.updated_date
`, o.OrderID, o.CustomerID, o.CustomerName, o.Status, o.TotalAmount, o.Comment, o.CreatedDate, o.UpdatedDate); err != nil {
		r.logger.Printf("order repo: save order_id=%s error=%v", o.OrderID, err)
		return err
	}

	// Snapshot semantics: replace the line items wholesale.
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.OrderID); err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (id, order_id, license_id, license_name, quantity, price_at_order_time, created_by, created_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, it.ID, o.OrderID, it.LicenseID, it.LicenseName, it.Quantity, it.PriceAtOrderTime, it.CreatedBy, it.CreatedDate); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) fetchOrder(ctx context.Context, query, customerID string) (*domain.CartOrder, error) {
	var o domain.CartOrder
	err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&o.OrderID,
		&o.CustomerID,
		&o.CustomerName,
		&o.Status,
		&o.TotalAmount,
		&o.Comment,
		&o.CreatedDate,
		&o.UpdatedDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: fetch customer_id=%s error=%v", customerID, err)
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT id::text, license_id, license_name, quantity, price_at_order_time, created_by, created_date
FROM order_items
WHERE order_id = $1
ORDER BY created_date, id
`, o.OrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	o.Items = []domain.OrderItem{}
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.LicenseID, &it.LicenseName, &it.Quantity, &it.PriceAtOrderTime, &it.CreatedBy, &it.CreatedDate); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}
