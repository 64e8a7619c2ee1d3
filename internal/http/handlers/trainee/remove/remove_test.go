package remove

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"deleted", nil, http.StatusOK, `{"status":"OK","data":{"deleted_id":"t-1"}}`},
		{"has active subscription", models.ErrHasActiveSubscription, http.StatusConflict, `{"status":"Error","error":"trainee has an active subscription"}`},
		{"staff account", models.ErrInvalidScope, http.StatusForbidden, `{"status":"Error","error":"operation not allowed for this kind of user"}`},
		{"not found", models.ErrUserNotFound, http.StatusNotFound, `{"status":"Error","error":"user not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Delete", mock.Anything, "t-1").Return(tt.err)

			req := httptest.NewRequest(http.MethodDelete, "/trainees/t-1", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "t-1")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
