package complete

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/middlewarectx"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	subservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/subscription"
)

// MockService реализует интерфейс complete.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CompleteCheckout(ctx context.Context, userUID, sessionID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func TestCompleteHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name:        "успешное подтверждение оплаты",
			requestBody: `{"session_id":"cs_1"}`,
			userUID:     "user123",
			setupMock: func(m *MockService) {
				m.On("CompleteCheckout", mock.Anything, "user123", "cs_1").
					Return(&models.Subscription{
						ID: 3, UserUID: "user123",
						Status:           models.SubscriptionStatusActive,
						CurrentPeriodEnd: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "пустой session_id",
			requestBody:    `{"session_id":""}`,
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
			requestBody:    `{"session_id":"cs_1"}`,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "сессия не оплачена",
			requestBody: `{"session_id":"cs_1"}`,
			userUID:     "user123",
			setupMock: func(m *MockService) {
				m.On("CompleteCheckout", mock.Anything, "user123", "cs_1").
					Return(nil, subservice.ErrCheckoutIncomplete)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:        "ошибка сервиса",
			requestBody: `{"session_id":"cs_1"}`,
			userUID:     "user123",
			setupMock: func(m *MockService) {
				m.On("CompleteCheckout", mock.Anything, "user123", "cs_1").
					Return(nil, errors.New("provider down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/subscription/complete",
				bytes.NewReader([]byte(tt.requestBody)))
			req.Header.Set("Content-Type", "application/json")

			ctx := req.Context()
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
