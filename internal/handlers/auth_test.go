package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"EMAILTESTHUB_BACK-END/internal/config"
	"EMAILTESTHUB_BACK-END/internal/dto"
	"EMAILTESTHUB_BACK-END/internal/middleware"
	"EMAILTESTHUB_BACK-END/internal/models"
	"EMAILTESTHUB_BACK-END/internal/store"
)

type mockUserStore struct {
	createFunc     func(ctx context.Context, name, email, password string) (*models.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	createCalls    int
}

func (m *mockUserStore) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	m.createCalls++
	return m.createFunc(ctx, name, email, password)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func jwtTestConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "unit-test-secret", AccessTokenTTL: 24 * time.Hour}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	users := store.NewMemoryUserStore()
	h := NewAuthHandler(users, jwtTestConfig())

	w := postJSON(t, h.Register, "/api/register", dto.RegisterRequest{
		Name: "Alice", Email: "a@x.com", Password: "pw12345678",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.RegisterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "User registered successfully", resp.Message)

	// No hash leaks into the response body
	stored, err := users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotContains(t, w.Body.String(), stored.PasswordHash)
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	users := &mockUserStore{}
	h := NewAuthHandler(users, jwtTestConfig())

	w := postJSON(t, h.Register, "/api/register", dto.RegisterRequest{Email: "a@x.com"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Zero(t, users.createCalls)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&mockUserStore{
		createFunc: func(ctx context.Context, name, email, password string) (*models.User, error) {
			return nil, store.ErrDuplicateEmail
		},
	}, jwtTestConfig())

	w := postJSON(t, h.Register, "/api/register", dto.RegisterRequest{
		Name: "Alice", Email: "a@x.com", Password: "pw",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "User already exists")
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	users := store.NewMemoryUserStore()
	created, err := users.Create(context.Background(), "Alice", "a@x.com", "pw12345678")
	require.NoError(t, err)

	cfg := jwtTestConfig()
	h := NewAuthHandler(users, cfg)

	w := postJSON(t, h.Login, "/api/login", dto.LoginRequest{Email: "a@x.com", Password: "pw12345678"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, created.ID.String(), resp.User.ID)
	require.Equal(t, "Alice", resp.User.Name)
	require.Equal(t, "a@x.com", resp.User.Email)

	// The token's embedded identity matches the stored user
	claims, err := middleware.ValidateToken(resp.Token, cfg)
	require.NoError(t, err)
	require.Equal(t, created.ID, claims.UserID)
	require.Equal(t, "a@x.com", claims.Email)
}

func TestLogin_BadCredentialsAreIndistinguishable(t *testing.T) {
	t.Parallel()

	users := store.NewMemoryUserStore()
	_, err := users.Create(context.Background(), "Alice", "a@x.com", "correct-password")
	require.NoError(t, err)

	h := NewAuthHandler(users, jwtTestConfig())

	wrongPassword := postJSON(t, h.Login, "/api/login", dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
	unknownEmail := postJSON(t, h.Login, "/api/login", dto.LoginRequest{Email: "nobody@x.com", Password: "wrong"})

	require.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	require.Equal(t, http.StatusBadRequest, unknownEmail.Code)

	// Same status AND same body: callers cannot probe which check failed
	require.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}
