package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopfront/backend-shopfront/internal/common"
)

type memUsers struct {
	byEmail map[string]Record
	byID    map[string]Record
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]Record{}, byID: map[string]Record{}}
}

func (m *memUsers) CreateUser(_ context.Context, name, email, hash, role string) (Record, error) {
	if _, exists := m.byEmail[email]; exists {
		return Record{}, ErrEmailTaken
	}
	rec := Record{
		ID:           "user-" + email,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	m.byEmail[email] = rec
	m.byID[rec.ID] = rec
	return rec, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (Record, error) {
	rec, ok := m.byEmail[email]
	if !ok {
		return Record{}, ErrUserNotFound
	}
	return rec, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (Record, error) {
	rec, ok := m.byID[id]
	if !ok {
		return Record{}, ErrUserNotFound
	}
	return rec, nil
}

func newAuthService(t *testing.T) (*Service, *memUsers) {
	t.Helper()
	users := newMemUsers()
	svc, err := NewService(Config{Users: users, Secret: "test-secret", AccessTokenTTL: time.Minute})
	require.NoError(t, err)
	return svc, users
}

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Jo", "JO@Example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, "jo@example.com", user.Email)
	require.Equal(t, RoleShopper, user.Role)

	result, err := svc.Login(ctx, "jo@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)

	subject, err := svc.ParseAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, subject)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jo", "jo@example.com", "s3cret-pass")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Jo Again", "jo@example.com", "another-pass")

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "EMAIL_TAKEN", appErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jo", "jo@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "jo@example.com", "wrong-pass")
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "INVALID_CREDENTIALS", appErr.Code)

	_, err = svc.Login(ctx, "ghost@example.com", "whatever")
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
}

func TestParseAccessTokenExpired(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jo", "jo@example.com", "s3cret-pass")
	require.NoError(t, err)

	issued := time.Now().Add(-time.Hour)
	svc.WithNow(func() time.Time { return issued })
	result, err := svc.Login(ctx, "jo@example.com", "s3cret-pass")
	require.NoError(t, err)

	svc.WithNow(time.Now)
	_, err = svc.ParseAccessToken(result.AccessToken)
	require.Error(t, err)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	svc, _ := newAuthService(t)
	for _, token := range []string{"", "   ", "not.a.jwt"} {
		_, err := svc.ParseAccessToken(token)
		require.Error(t, err, "token %q", token)
	}
}
