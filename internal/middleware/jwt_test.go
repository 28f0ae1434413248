package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"EMAILTESTHUB_BACK-END/internal/config"
	"EMAILTESTHUB_BACK-END/internal/utils"
)

func testJWTConfig(ttl time.Duration) *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: ttl}
}

func TestGenerateAndValidate_Success(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig(time.Hour)
	userID := uuid.New()

	tok, err := GenerateToken(userID, "alice@example.com", cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(tok, cfg)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, "alice@example.com", claims.Email)
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig(-1 * time.Second)
	tok, err := GenerateToken(uuid.New(), "a@x.com", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(tok, cfg)
	require.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(uuid.New(), "a@x.com", testJWTConfig(time.Hour))
	require.NoError(t, err)

	_, err = ValidateToken(tok, &config.JWTConfig{Secret: "other-secret", AccessTokenTTL: time.Hour})
	require.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig(time.Hour)
	userID := uuid.New()

	var gotUserID uuid.UUID
	var called bool
	next := func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotUserID, _ = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}
	handler := AuthMiddleware(next, cfg)

	cases := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tests", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()
			handler(w, req)
			require.Equal(t, tc.wantStatus, w.Code)
		})
	}

	t.Run("expired token is forbidden", func(t *testing.T) {
		tok, err := GenerateToken(userID, "a@x.com", testJWTConfig(-1*time.Minute))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/tests", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		handler(w, req)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("valid token reaches handler with identity", func(t *testing.T) {
		tok, err := GenerateToken(userID, "a@x.com", cfg)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/tests", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		handler(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, called)
		require.Equal(t, userID, gotUserID)
	})
}
