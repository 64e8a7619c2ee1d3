package gymmanager

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-manager/internal/cache"
	"github.com/magabrotheeeer/gym-manager/internal/config"
	"github.com/magabrotheeeer/gym-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-manager/internal/storage/memory"
)

const (
	adminUsername = "admin"
	adminPassword = "admin-secret"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	revoker, err := cache.InitServer(ctx, config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = revoker.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	services := NewServices(memory.New(), jwt.NewJWTMaker("test-secret", time.Hour), revoker, time.UTC, logger)
	require.NoError(t, services.Auth.EnsureAdmin(ctx, config.Admin{
		AdminUsername: adminUsername,
		AdminPassword: adminPassword,
		AdminName:     "Administrator",
	}))

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services)
	return router
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func loginAs(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/v1/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestRoutes_PublicEndpoints(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/v1/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/metrics", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/v1/trainees", "", nil).Code)

	rr := do(t, router, http.MethodPost, "/api/v1/login", "", map[string]string{
		"username": adminUsername,
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRoutes_AdminFlow(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, adminUsername, adminPassword)

	rr := do(t, router, http.MethodPost, "/api/v1/packages", token, map[string]any{
		"name":     "Monthly",
		"price":    300,
		"duration": 30,
		"category": "gym",
	})
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	paths := []string{
		"/api/v1/trainees",
		"/api/v1/packages",
		"/api/v1/products",
		"/api/v1/subscriptions",
		"/api/v1/finance/dashboard",
		"/api/v1/finance/summary",
		"/api/v1/finance/daily-revenue",
		"/api/v1/finance/activities",
		"/api/v1/transactions",
		"/api/v1/users",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			rr := do(t, router, http.MethodGet, p, token, nil)
			assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		})
	}
}

func TestRoutes_StaffIsNotAdmin(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginAs(t, router, adminUsername, adminPassword)

	rr := do(t, router, http.MethodPost, "/api/v1/users", adminToken, map[string]any{
		"name":     "Front Desk",
		"role":     "user",
		"gender":   "female",
		"username": "desk01",
		"password": "desk-secret",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	staffToken := loginAs(t, router, "desk01", "desk-secret")

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/v1/packages", staffToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodGet, "/api/v1/users", staffToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodDelete, "/api/v1/transactions/some-id", staffToken, nil).Code)

	rr = do(t, router, http.MethodPost, "/api/v1/packages", staffToken, map[string]any{
		"name": "Yearly", "price": 3000, "duration": 365, "category": "gym",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRoutes_LogoutRevokesToken(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, adminUsername, adminPassword)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/v1/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/v1/trainees", token, nil).Code)
}

func TestRoutes_StaffChangesApplyToIssuedTokens(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginAs(t, router, adminUsername, adminPassword)

	staff := map[string]any{
		"name":     "Night Manager",
		"role":     "admin",
		"gender":   "male",
		"username": "night01",
		"password": "night-secret",
	}
	rr := do(t, router, http.MethodPost, "/api/v1/users", adminToken, staff)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	userPath := "/api/v1/users/" + created.Data.ID

	staffToken := loginAs(t, router, "night01", "night-secret")
	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/v1/users", staffToken, nil).Code)

	staff["role"] = "user"
	staff["password"] = ""
	rr = do(t, router, http.MethodPut, userPath, adminToken, staff)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodGet, "/api/v1/users", staffToken, nil).Code)

	rr = do(t, router, http.MethodDelete, userPath, adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/v1/packages", staffToken, nil).Code)
}
