package user

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfront/backend-shopfront/internal/common"
	"github.com/shopfront/backend-shopfront/internal/order"
)

// ErrNoAddress is returned when a user has no address on file.
var ErrNoAddress = errors.New("user: no address on file")

// Address represents a user address in API-friendly format.
type Address struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Line1     string    `json:"line1"`
	Line2     string    `json:"line2,omitempty"`
	City      string    `json:"city"`
	Region    string    `json:"region,omitempty"`
	Postal    string    `json:"postal"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// AddressInput captures payload for creating an address.
type AddressInput struct {
	Name      string `json:"name" validate:"required,min=1,max=120"`
	Line1     string `json:"line1" validate:"required,min=1,max=200"`
	Line2     string `json:"line2" validate:"max=200"`
	City      string `json:"city" validate:"required,min=1,max=120"`
	Region    string `json:"region" validate:"max=120"`
	Postal    string `json:"postal" validate:"required,min=2,max=20"`
	Country   string `json:"country" validate:"required,len=2"`
	IsDefault bool   `json:"is_default"`
}

// Service orchestrates address book operations.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a new address service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// List returns all addresses for a user, default first.
func (s *Service) List(ctx context.Context, userID string) ([]Address, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, line1, line2, city, region, postal, country, is_default, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var addresses []Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

// Create inserts a new address. The first address a user creates becomes
// the default automatically; an explicit default demotes the previous one.
func (s *Service) Create(ctx context.Context, userID string, input AddressInput) (Address, error) {
	input.Country = strings.ToUpper(strings.TrimSpace(input.Country))
	a := Address{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Line1:     strings.TrimSpace(input.Line1),
		Line2:     strings.TrimSpace(input.Line2),
		City:      strings.TrimSpace(input.City),
		Region:    strings.TrimSpace(input.Region),
		Postal:    strings.TrimSpace(input.Postal),
		Country:   input.Country,
		IsDefault: input.IsDefault,
		CreatedAt: time.Now().UTC(),
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Address{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing int64
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM addresses WHERE user_id = $1`, userID).Scan(&existing); err != nil {
		return Address{}, err
	}
	if existing == 0 {
		a.IsDefault = true
	}
	if a.IsDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default = FALSE WHERE user_id = $1`, userID); err != nil {
			return Address{}, err
		}
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO addresses (id, user_id, name, line1, line2, city, region, postal, country, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, userID, a.Name, a.Line1, a.Line2, a.City, a.Region, a.Postal, a.Country, a.IsDefault, a.CreatedAt)
	if err != nil {
		return Address{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Address{}, err
	}
	return a, nil
}

// Delete removes an address owned by the user.
func (s *Service) Delete(ctx context.Context, userID, addressID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewAppError("NOT_FOUND", "address not found", http.StatusNotFound, nil)
	}
	return nil
}

// GetDefault returns the user's default address.
func (s *Service) GetDefault(ctx context.Context, userID string) (Address, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, line1, line2, city, region, postal, country, is_default, created_at
		FROM addresses
		WHERE user_id = $1 AND is_default
		LIMIT 1`, userID)
	a, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Address{}, ErrNoAddress
		}
		return Address{}, err
	}
	return a, nil
}

// DefaultAddress adapts GetDefault to the checkout address contract.
func (s *Service) DefaultAddress(ctx context.Context, userID string) (order.ShippingAddress, bool, error) {
	a, err := s.GetDefault(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoAddress) {
			return order.ShippingAddress{}, false, nil
		}
		return order.ShippingAddress{}, false, err
	}
	return toShipping(a), true, nil
}

// AddressByID resolves a specific address, scoped to the owner.
func (s *Service) AddressByID(ctx context.Context, userID, addressID string) (order.ShippingAddress, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, line1, line2, city, region, postal, country, is_default, created_at
		FROM addresses
		WHERE id = $1 AND user_id = $2`, addressID, userID)
	a, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.ShippingAddress{}, false, nil
		}
		return order.ShippingAddress{}, false, err
	}
	return toShipping(a), true, nil
}

func toShipping(a Address) order.ShippingAddress {
	return order.ShippingAddress{
		Name:    a.Name,
		Line1:   a.Line1,
		Line2:   a.Line2,
		City:    a.City,
		Region:  a.Region,
		Postal:  a.Postal,
		Country: a.Country,
	}
}

// EmailFor looks up the user's email for notification payloads.
func (s *Service) EmailFor(ctx context.Context, userID string) (string, error) {
	var email string
	err := s.pool.QueryRow(ctx,
		`SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return email, nil
}

func scanAddress(row pgx.Row) (Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.Name, &a.Line1, &a.Line2, &a.City, &a.Region,
		&a.Postal, &a.Country, &a.IsDefault, &a.CreatedAt)
	if err != nil {
		return Address{}, err
	}
	return a, nil
}
