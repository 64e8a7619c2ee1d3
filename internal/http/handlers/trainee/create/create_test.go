package create

import (
	"bytes"
	"context"
	"errors"
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

func (m *MockService) Create(ctx context.Context, req models.TraineeRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	valid := models.TraineeRequest{Name: "Ali", Gender: models.GenderMale, Phone: "+100"}

	tests := []struct {
		name       string
		body       string
		setupMock  func(m *MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "trainee created",
			body: `{"name":"Ali","gender":"male","phone":"+100"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, valid).Return(&models.User{ID: "t-1", Name: "Ali"}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"id":"t-1"`,
		},
		{
			name:       "bad gender",
			body:       `{"name":"Ali","gender":"other","phone":"+100"}`,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "field Gender must be one of [male female]",
		},
		{
			name:       "invalid email",
			body:       `{"name":"Ali","gender":"male","phone":"+100","email":"nope"}`,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "field Email must be a valid email",
		},
		{
			name: "invalid birth date",
			body: `{"name":"Ali","gender":"male","phone":"+100"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, valid).Return(nil, models.ErrInvalidInput)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   models.ErrInvalidInput.Error(),
		},
		{
			name: "storage failure",
			body: `{"name":"Ali","gender":"male","phone":"+100"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, valid).Return(nil, errors.New("db error"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"status":"Error","error":"could not create trainee"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/trainees", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
