package summary

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Summary(ctx context.Context, start, end time.Time) (*models.FinancialSummary, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FinancialSummary), args.Error(1)
}

func TestSummaryHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	now := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	jan := &models.FinancialSummary{TotalRevenue: 690, SubscriptionRevenue: 600, ProductRevenue: 40}

	tests := []struct {
		name       string
		url        string
		setupMock  func(m *MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "explicit range, end day inclusive",
			url:  "/finance/summary?start=2024-01-01&end=2024-01-31",
			setupMock: func(m *MockService) {
				m.On("Summary", mock.Anything,
					time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC)).Return(jan, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"total_revenue":690`,
		},
		{
			name: "current month by default",
			url:  "/finance/summary",
			setupMock: func(m *MockService) {
				m.On("Summary", mock.Anything,
					time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC)).Return(models.NewFinancialSummary(), nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"total_revenue":0`,
		},
		{
			name:       "bad date",
			url:        "/finance/summary?start=yesterday",
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid start date",
		},
		{
			name: "reversed range",
			url:  "/finance/summary?start=2024-02-01&end=2024-01-01",
			setupMock: func(m *MockService) {
				m.On("Summary", mock.Anything, mock.Anything, mock.Anything).Return(nil, models.ErrInvalidInput)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   models.ErrInvalidInput.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			handler := New(logger, svc, time.UTC)
			handler.now = func() time.Time { return now }

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
