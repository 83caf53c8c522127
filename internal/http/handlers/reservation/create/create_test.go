package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/middlewarectx"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	reservationservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/reservation"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userUID string, restaurantID int, req models.ReservationRequest) (*models.Reservation, error) {
	args := m.Called(ctx, userUID, restaurantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := models.ReservationRequest{
		ReservationDate: "2026-06-10",
		ReservationTime: "18:30",
		PartySize:       4,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name:        "успешное создание брони",
			requestBody: validBody,
			userUID:     "user123",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user123", 5, mock.AnythingOfType("models.ReservationRequest")).
					Return(&models.Reservation{
						ID: 42, UserUID: "user123", RestaurantID: 5,
						ReservationDate: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
						ReservationTime: "18:30", PartySize: 4,
						Status: models.ReservationStatusPending,
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "невалидные данные",
			requestBody: models.ReservationRequest{
				ReservationDate: "",
				ReservationTime: "",
				PartySize:       0,
			},
			userUID:        "user123",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			userUID:        "user123",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "отсутствует авторизация",
			requestBody:    validBody,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "заведение не найдено",
			requestBody: validBody,
			userUID:     "user123",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user123", 5, mock.Anything).
					Return(nil, reservationservice.ErrRestaurantNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "слот уже занят",
			requestBody: validBody,
			userUID:     "user123",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user123", 5, mock.Anything).
					Return(nil, reservationservice.ErrReservationTaken)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:        "нарушено ограничение даты",
			requestBody: validBody,
			userUID:     "user123",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user123", 5, mock.Anything).
					Return(nil, &reservationservice.FieldError{
						Field: "reservation_date", Message: "must not be in the past",
					})
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:        "ошибка сервиса",
			requestBody: validBody,
			userUID:     "user123",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user123", 5, mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/5/reservations", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			routeCtx := chi.NewRouteContext()
			routeCtx.URLParams.Add("id", "5")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
