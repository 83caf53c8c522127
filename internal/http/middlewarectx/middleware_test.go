package middlewarectx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/jwt"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithIdentity(userUID, role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/subscription", nil)
	ctx := req.Context()
	if userUID != "" {
		ctx = contextWith(ctx, UserUID, userUID)
	}
	if role != "" {
		ctx = contextWith(ctx, Role, role)
	}
	return req.WithContext(ctx)
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)

	t.Run("valid token puts identity into context", func(t *testing.T) {
		token, err := maker.GenerateToken("uid-1", "taro@example.com", models.RoleUser)
		require.NoError(t, err)

		var gotUID, gotRole string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUID, _ = r.Context().Value(UserUID).(string)
			gotRole, _ = r.Context().Value(Role).(string)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		JWTMiddleware(maker, newNoopLogger())(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "uid-1", gotUID)
		assert.Equal(t, models.RoleUser, gotRole)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		rr := httptest.NewRecorder()

		JWTMiddleware(maker, newNoopLogger())(okHandler()).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rr := httptest.NewRecorder()

		JWTMiddleware(maker, newNoopLogger())(okHandler()).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestPremiumMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		userUID    string
		role       string
		allowAdmin bool
		setupMocks func(u *UsersMock)
		wantCode   int
	}{
		{
			name:    "premium user passes",
			userUID: "uid-1",
			role:    models.RoleUser,
			setupMocks: func(u *UsersMock) {
				u.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UID: "uid-1", IsPremium: true}, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name:    "non premium user is rejected",
			userUID: "uid-1",
			role:    models.RoleUser,
			setupMocks: func(u *UsersMock) {
				u.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UID: "uid-1", IsPremium: false}, nil).Once()
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:    "deleted account with live token is rejected",
			userUID: "uid-gone",
			role:    models.RoleUser,
			setupMocks: func(u *UsersMock) {
				u.On("GetUser", mock.Anything, "uid-gone").
					Return(nil, fmt.Errorf("repository.GetUser: %w", repository.ErrNotFound)).Once()
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "storage failure is not mistaken for missing access",
			userUID: "uid-1",
			role:    models.RoleUser,
			setupMocks: func(u *UsersMock) {
				u.On("GetUser", mock.Anything, "uid-1").
					Return(nil, assert.AnError).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name:       "anonymous request is rejected",
			setupMocks: func(u *UsersMock) {},
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "admin passes without subscription when allowed",
			userUID:    "uid-admin",
			role:       models.RoleAdmin,
			allowAdmin: true,
			setupMocks: func(u *UsersMock) {},
			wantCode:   http.StatusOK,
		},
		{
			name:    "admin without subscription is rejected on subscriber-only gate",
			userUID: "uid-admin",
			role:    models.RoleAdmin,
			setupMocks: func(u *UsersMock) {
				u.On("GetUser", mock.Anything, "uid-admin").
					Return(&models.User{UID: "uid-admin", IsPremium: false}, nil).Once()
			},
			wantCode: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			tt.setupMocks(users)

			rr := httptest.NewRecorder()
			req := requestWithIdentity(tt.userUID, tt.role)

			PremiumMiddleware(users, tt.allowAdmin, newNoopLogger())(okHandler()).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			users.AssertExpectations(t)
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	t.Run("admin passes", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := requestWithIdentity("uid-admin", models.RoleAdmin)

		AdminMiddleware(newNoopLogger())(okHandler()).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("regular user is rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := requestWithIdentity("uid-1", models.RoleUser)

		AdminMiddleware(newNoopLogger())(okHandler()).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
