package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(client, "operator", string(hash), time.Hour), mr
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, err := svc.Authenticate(ctx, "operator", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	ok, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "operator", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = svc.Authenticate(ctx, "intruder", "secret123")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestVerifyExpiredToken(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	token, err := svc.Authenticate(ctx, "operator", "secret123")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	ok, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRevoke(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, err := svc.Authenticate(ctx, "operator", "secret123")
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(ctx, token))

	ok, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMiddleware(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, err := svc.Authenticate(ctx, "operator", "secret123")
	require.NoError(t, err)

	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	handler := svc.Middleware(discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)

	called = false
	req = httptest.NewRequest(http.MethodGet, "/api/items", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("Authorization", "Bearer made-up-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, BearerToken(req))

	req.Header.Set("Authorization", "Bearer tok-1")
	assert.Equal(t, "tok-1", BearerToken(req))
}
