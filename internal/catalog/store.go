package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfront/backend-shopfront/internal/pricing"
)

// ErrProductNotFound is returned when a slug matches no active product.
var ErrProductNotFound = errors.New("catalog: product not found")

// Product is the catalog record as served to the storefront and consumed
// by the pricing path.
type Product struct {
	ID        string        `json:"id"`
	Slug      string        `json:"slug"`
	Title     string        `json:"title"`
	Price     pricing.Money `json:"price"`
	Active    bool          `json:"active"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Store provides product lookups against Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

// List returns active products ordered by title with total count.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Product, int64, error) {
	var total int64
	if err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM products WHERE active`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, slug, title, price_cents, active, created_at, updated_at
		FROM products
		WHERE active
		ORDER BY title
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetBySlug returns a single active product.
func (s *Store) GetBySlug(ctx context.Context, slug string) (Product, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, slug, title, price_cents, active, created_at, updated_at
		FROM products
		WHERE slug = $1 AND active`, slug)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// ResolveByIDs maps product ids to active products. Ids that do not parse
// as UUIDs or match no active product are simply absent from the result;
// callers decide whether that is fatal.
func (s *Store) ResolveByIDs(ctx context.Context, ids []string) (map[string]Product, error) {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		parsed = append(parsed, u)
	}
	resolved := make(map[string]Product, len(parsed))
	if len(parsed) == 0 {
		return resolved, nil
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, slug, title, price_cents, active, created_at, updated_at
		FROM products
		WHERE id = ANY($1) AND active`, parsed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		resolved[p.ID] = p
	}
	return resolved, nil
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p  Product
		id uuid.UUID
	)
	if err := row.Scan(&id, &p.Slug, &p.Title, &p.Price, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	p.ID = id.String()
	return p, nil
}
