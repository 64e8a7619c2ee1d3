package create

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreatePackage(ctx context.Context, req models.PackageRequest) (*models.Package, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name       string
		body       string
		setupMock  func(m *MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "monthly package",
			body: `{"name":"Monthly","price":300,"duration":30,"category":"gym"}`,
			setupMock: func(m *MockService) {
				req := models.PackageRequest{Name: "Monthly", Price: 300, Duration: 30, Category: "gym"}
				m.On("CreatePackage", mock.Anything, req).
					Return(&models.Package{ID: "p-1", Name: "Monthly", Price: 300, Duration: 30}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"duration":30`,
		},
		{
			name:       "zero duration",
			body:       `{"name":"Broken","price":300,"duration":0,"category":"gym"}`,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "field Duration is a required field",
		},
		{
			name:       "negative price",
			body:       `{"name":"Broken","price":-1,"duration":30,"category":"gym"}`,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "field Price must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/packages", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
