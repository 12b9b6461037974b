package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOrderNotFound is returned when an order does not exist or belongs
// to another user.
var ErrOrderNotFound = errors.New("order: not found")

// Store persists orders in Postgres. Items and the address snapshot are
// stored as JSONB alongside the priced totals.
type Store struct {
	Pool *pgxpool.Pool
}

// Create inserts a pending order together with its lines in one transaction.
func (s *Store) Create(ctx context.Context, o Order) (Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	addr, err := json.Marshal(o.ShippingTo)
	if err != nil {
		return Order{}, err
	}
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, number, user_id, status, subtotal_cents, discount_cents,
			shipping_cents, total_cents, currency, promo_code, shipping_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.Number, o.UserID, o.Status, o.Subtotal, o.Discount,
		o.Shipping, o.Total, o.Currency, o.PromoCode, addr, o.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	for _, item := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, title, qty, unit_price_cents)
			VALUES ($1, $2, $3, $4, $5)`,
			o.ID, item.ProductID, item.Title, item.Qty, item.UnitPrice)
		if err != nil {
			return Order{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ListForUser returns the user's orders, newest first.
func (s *Store) ListForUser(ctx context.Context, userID string, limit, offset int) ([]Order, int64, error) {
	var total int64
	if err := s.Pool.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, number, user_id, status, subtotal_cents, discount_cents,
			shipping_cents, total_cents, currency, promo_code, shipping_address, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetForUser returns one order including its lines, scoped to the owner.
func (s *Store) GetForUser(ctx context.Context, orderID, userID string) (Order, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, number, user_id, status, subtotal_cents, discount_cents,
			shipping_cents, total_cents, currency, promo_code, shipping_address, created_at
		FROM orders
		WHERE id = $1 AND user_id = $2`, orderID, userID)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, err
	}
	items, err := s.Pool.Query(ctx, `
		SELECT product_id, title, qty, unit_price_cents
		FROM order_items
		WHERE order_id = $1
		ORDER BY title`, orderID)
	if err != nil {
		return Order{}, err
	}
	defer items.Close()
	for items.Next() {
		var it Item
		if err := items.Scan(&it.ProductID, &it.Title, &it.Qty, &it.UnitPrice); err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	if err := items.Err(); err != nil {
		return Order{}, err
	}
	return o, nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o    Order
		addr []byte
	)
	err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.Status, &o.Subtotal, &o.Discount,
		&o.Shipping, &o.Total, &o.Currency, &o.PromoCode, &addr, &o.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	if len(addr) > 0 {
		if err := json.Unmarshal(addr, &o.ShippingTo); err != nil {
			return Order{}, err
		}
	}
	return o, nil
}
