package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/shopfront/backend-shopfront/internal/common"
)

const defaultAccessTTL = 15 * time.Minute

// Roles assignable to a user.
const (
	RoleShopper = "shopper"
	RoleAdmin   = "admin"
)

// UserSource is the persistence surface the service needs.
type UserSource interface {
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (Record, error)
	GetByEmail(ctx context.Context, email string) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
}

// User is the safe subset of the user model returned to clients.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResult bundles token material returned after a successful login.
type LoginResult struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"access_token"`
	AccessExpiry time.Time `json:"access_expires_at"`
}

// Service coordinates registration, login, and access token handling.
type Service struct {
	users     UserSource
	secret    []byte
	accessTTL time.Duration
	issuer    string
	audience  string
	clockSkew time.Duration
	signer    jwa.SignatureAlgorithm
	now       func() time.Time
}

// Config configures the auth service.
type Config struct {
	Users          UserSource
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       string
	ClockSkew      time.Duration
}

// NewService constructs a Service instance with sane defaults.
func NewService(cfg Config) (*Service, error) {
	if cfg.Users == nil {
		return nil, errors.New("auth: user source is required")
	}
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = "backend-shopfront"
	}
	audience := strings.TrimSpace(cfg.Audience)
	if audience == "" {
		audience = "shopfront-web"
	}
	clockSkew := cfg.ClockSkew
	if clockSkew < 0 {
		clockSkew = 0
	}
	return &Service{
		users:     cfg.Users,
		secret:    []byte(secret),
		accessTTL: accessTTL,
		issuer:    issuer,
		audience:  audience,
		clockSkew: clockSkew,
		signer:    jwa.HS256,
		now:       time.Now,
	}, nil
}

// WithNow allows tests to override the time provider.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Register creates a shopper account with an argon2id password hash.
func (s *Service) Register(ctx context.Context, name, email, password string) (User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return User{}, common.NewAppError("VALIDATION_ERROR", "name and email are required", http.StatusBadRequest, nil)
	}
	if len(password) < 8 {
		return User{}, common.NewAppError("VALIDATION_ERROR", "password must be at least 8 characters", http.StatusBadRequest, nil)
	}
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return User{}, err
	}
	rec, err := s.users.CreateUser(ctx, name, email, hash, RoleShopper)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, common.NewAppError("EMAIL_TAKEN", "email is already registered", http.StatusConflict, err)
		}
		return User{}, err
	}
	return publicUser(rec), nil
}

// Login verifies credentials and issues a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rec, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, invalidCredentials(err)
		}
		return LoginResult{}, err
	}
	match, err := argon2id.ComparePasswordAndHash(password, rec.PasswordHash)
	if err != nil {
		return LoginResult{}, err
	}
	if !match {
		return LoginResult{}, invalidCredentials(nil)
	}
	token, expiry, err := s.signAccessToken(rec.ID)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: publicUser(rec), AccessToken: token, AccessExpiry: expiry}, nil
}

// Me returns the profile for an authenticated user id.
func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	rec, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, common.NewAppError("NOT_FOUND", "user not found", http.StatusNotFound, err)
		}
		return User{}, err
	}
	return publicUser(rec), nil
}

// RoleOf reports the stored role for a user id.
func (s *Service) RoleOf(ctx context.Context, userID string) (string, error) {
	rec, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return rec.Role, nil
}

// ParseAccessToken validates an access token and returns the subject
// (user ID). The algorithm is pinned to HS256; tokens signed any other
// way are rejected before signature verification.
func (s *Service) ParseAccessToken(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", common.NewAppError("UNAUTHORIZED", "missing token", http.StatusUnauthorized, nil)
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	if algorithm != s.signer {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized,
			fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	options := []jwt.ParseOption{
		jwt.WithKey(algorithm, s.secret),
		jwt.WithClock(jwt.ClockFunc(s.now)),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	}
	if s.clockSkew > 0 {
		options = append(options, jwt.WithAcceptableSkew(s.clockSkew))
	}
	parsed, err := jwt.ParseString(trimmed, options...)
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	return parsed.Subject(), nil
}

func (s *Service) signAccessToken(userID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	token, err := jwt.NewBuilder().
		Subject(userID).
		Issuer(s.issuer).
		Audience([]string{s.audience}).
		IssuedAt(now).
		NotBefore(now.Add(-s.clockSkew)).
		Expiration(expiresAt).
		Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(s.signer, s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", errors.New("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}

func invalidCredentials(err error) error {
	return common.NewAppError("INVALID_CREDENTIALS", "email or password is incorrect", http.StatusUnauthorized, err)
}

func publicUser(rec Record) User {
	return User{ID: rec.ID, Name: rec.Name, Email: rec.Email, Role: rec.Role, CreatedAt: rec.CreatedAt}
}
