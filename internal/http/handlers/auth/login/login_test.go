package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, username, password string) (string, *models.Principal, error) {
	args := m.Called(ctx, username, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.Principal), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	principal := &models.Principal{UserID: "u-1", Username: "admin", Role: models.RoleAdmin}

	tests := []struct {
		name       string
		body       string
		setupMock  func(m *AuthServiceMock)
		wantStatus int
		wantError  string
	}{
		{
			name: "valid login",
			body: `{"username":"admin","password":"secret1"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Login", mock.Anything, "admin", "secret1").Return("tok", principal, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid json",
			body:       `{"username":`,
			setupMock:  func(_ *AuthServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "unknown field",
			body:       `{"username":"admin","password":"x","role":"admin"}`,
			setupMock:  func(_ *AuthServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "missing password",
			body:       `{"username":"admin"}`,
			setupMock:  func(_ *AuthServiceMock) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "field Password is a required field",
		},
		{
			name: "wrong credentials",
			body: `{"username":"admin","password":"nope"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Login", mock.Anything, "admin", "nope").Return("", nil, models.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  models.ErrInvalidCredentials.Error(),
		},
		{
			name: "internal error",
			body: `{"username":"admin","password":"secret1"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Login", mock.Anything, "admin", "secret1").Return("", nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "could not log in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			tt.setupMock(authMock)
			handler := New(newNoopLogger(), authMock)

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			if tt.wantError != "" {
				assert.Equal(t, "Error", resp["status"])
				assert.Contains(t, resp["error"], tt.wantError)
			} else {
				data := resp["data"].(map[string]any)
				assert.Equal(t, "tok", data["token"])
				assert.Equal(t, "admin", data["role"])
			}
			authMock.AssertExpectations(t)
		})
	}
}
