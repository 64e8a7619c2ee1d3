package cancel

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

func (m *MockService) Cancel(ctx context.Context, id string) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func TestCancelHandler_Idempotent(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	cancelled := &models.Subscription{ID: "s-1", Status: models.SubscriptionCancelled}

	svc := new(MockService)
	svc.On("Cancel", mock.Anything, "s-1").Return(cancelled, nil).Twice()
	handler := New(logger, svc)

	var bodies []string
	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/subscriptions/s-1/cancel", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "s-1")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
		bodies = append(bodies, rec.Body.String())
	}

	assert.Equal(t, bodies[0], bodies[1])
	svc.AssertExpectations(t)
}

func TestCancelHandler_NotFound(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	svc := new(MockService)
	svc.On("Cancel", mock.Anything, "nope").Return(nil, models.ErrSubscriptionNotFound)

	req := httptest.NewRequest(http.MethodPost, "/subscriptions/nope/cancel", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "nope")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	New(logger, svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"Error","error":"subscription not found"}`, rec.Body.String())
}
