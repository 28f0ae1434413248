package routes

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
	"EMAILTESTHUB_BACK-END/internal/handlers"
	"EMAILTESTHUB_BACK-END/internal/mailbox"
	"EMAILTESTHUB_BACK-END/internal/models"
	"EMAILTESTHUB_BACK-END/internal/store"
)

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

func newTestMux(t *testing.T, webhookSecret string) *http.ServeMux {
	t.Helper()

	jwtCfg := &config.JWTConfig{Secret: "e2e-secret", AccessTokenTTL: 24 * time.Hour}
	users := store.NewMemoryUserStore()
	tests := store.NewMemoryTestStore()
	allocator := mailbox.NewMockAllocator()

	mux := http.NewServeMux()
	SetupRoutes(mux,
		handlers.NewAuthHandler(users, jwtCfg),
		handlers.NewTestsHandler(tests, allocator),
		handlers.NewEmailsHandler(allocator),
		handlers.NewWebhookHandler(tests, &config.WebhookConfig{Secret: webhookSecret}),
		handlers.NewHealthHandler(okPinger{}),
		jwtCfg,
	)
	return mux
}

func do(t *testing.T, mux *http.ServeMux, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginCreateRespondFlow(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t, "")

	// Register
	w := do(t, mux, http.MethodPost, "/api/register", "", dto.RegisterRequest{
		Name: "Alice", Email: "a@x.com", Password: "pw12345678",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Login
	w = do(t, mux, http.MethodPost, "/api/login", "", dto.LoginRequest{Email: "a@x.com", Password: "pw12345678"})
	require.Equal(t, http.StatusOK, w.Code)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	// Create a test
	w = do(t, mux, http.MethodPost, "/api/tests", login.Token, dto.CreateTestRequest{
		Name: "T1", EmailAccountID: "1", Content: "hi",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Listed as pending
	w = do(t, mux, http.MethodGet, "/api/tests", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []dto.TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, models.StatusPending, list[0].Status)

	// Webhook delivers a response
	w = do(t, mux, http.MethodPost, "/api/webhook/email-response", "", dto.EmailResponseWebhook{
		TestID: created.ID, Subject: "Re", Content: "reply",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Detail shows in_progress with one response
	w = do(t, mux, http.MethodGet, "/api/tests/"+created.ID, login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail dto.TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.Equal(t, models.StatusInProgress, detail.Status)
	require.Len(t, detail.Responses, 1)
	require.Equal(t, "Re", detail.Responses[0].Subject)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t, "")

	require.Equal(t, http.StatusUnauthorized, do(t, mux, http.MethodGet, "/api/tests", "", nil).Code)
	require.Equal(t, http.StatusUnauthorized, do(t, mux, http.MethodGet, "/api/emails", "", nil).Code)
	require.Equal(t, http.StatusForbidden, do(t, mux, http.MethodGet, "/api/tests", "bogus-token", nil).Code)
}

func TestCrossUserAccessDenied(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t, "")

	register := func(name, email string) string {
		w := do(t, mux, http.MethodPost, "/api/register", "", dto.RegisterRequest{
			Name: name, Email: email, Password: "pw12345678",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = do(t, mux, http.MethodPost, "/api/login", "", dto.LoginRequest{Email: email, Password: "pw12345678"})
		require.Equal(t, http.StatusOK, w.Code)
		var login dto.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
		return login.Token
	}

	aliceToken := register("Alice", "a@x.com")
	bobToken := register("Bob", "b@x.com")

	w := do(t, mux, http.MethodPost, "/api/tests", bobToken, dto.CreateTestRequest{
		Name: "bobs", EmailAccountID: "1", Content: "hi",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var bobsTest dto.TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bobsTest))

	// Alice's token never resolves Bob's test
	require.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/api/tests/"+bobsTest.ID, aliceToken, nil).Code)
	require.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/api/tests/"+bobsTest.ID, bobToken, nil).Code)
}

func TestEmailAccountListing(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t, "")

	w := do(t, mux, http.MethodPost, "/api/register", "", dto.RegisterRequest{
		Name: "Alice", Email: "a@x.com", Password: "pw12345678",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(t, mux, http.MethodPost, "/api/login", "", dto.LoginRequest{Email: "a@x.com", Password: "pw12345678"})
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = do(t, mux, http.MethodGet, "/api/emails", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var accounts []dto.EmailAccountListItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accounts))
	require.Len(t, accounts, 8)
	require.False(t, accounts[0].Available)
	require.True(t, accounts[1].Available)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t, "")

	require.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/healthz", "", nil).Code)
	require.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/livez", "", nil).Code)
	require.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/readyz", "", nil).Code)
}
