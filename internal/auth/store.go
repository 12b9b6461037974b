package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors surfaced by the user store.
var (
	ErrEmailTaken   = errors.New("auth: email already registered")
	ErrUserNotFound = errors.New("auth: user not found")
)

// Record is the stored user row, including the password hash.
type Record struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Store persists users in Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

// CreateUser inserts a user and maps unique violations to ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash, role string) (Record, error) {
	rec := Record{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	rec.PasswordHash = passwordHash
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Name, rec.Email, rec.PasswordHash, rec.Role, rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Record{}, ErrEmailTaken
		}
		return Record{}, err
	}
	return rec, nil
}

// GetByEmail returns the full record including the password hash.
func (s *Store) GetByEmail(ctx context.Context, email string) (Record, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE email = $1`, email)
	return scanRecord(row)
}

// GetByID returns the full record by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (Record, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE id = $1`, id)
	return scanRecord(row)
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.PasswordHash, &rec.Role, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrUserNotFound
		}
		return Record{}, err
	}
	return rec, nil
}
