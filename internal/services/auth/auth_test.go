package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/jwt"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/password"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *UsersMock) UpdateUserProfile(ctx context.Context, userUID string, req models.ProfileUpdateRequest) error {
	return m.Called(ctx, userUID, req).Error(0)
}
func (m *UsersMock) SetEmailVerified(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}
func (m *UsersMock) SetUserPremium(ctx context.Context, userUID string, isPremium bool) error {
	return m.Called(ctx, userUID, isPremium).Error(0)
}
func (m *UsersMock) DeleteUser(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

type TokensMock struct{ mock.Mock }

func (m *TokensMock) CreateVerificationToken(ctx context.Context, token models.EmailVerificationToken) error {
	return m.Called(ctx, token).Error(0)
}
func (m *TokensMock) GetVerificationToken(ctx context.Context, token string) (*models.EmailVerificationToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailVerificationToken), args.Error(1)
}
func (m *TokensMock) ConsumeVerificationToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
func (m *TokensMock) InvalidateVerificationTokens(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(users *UsersMock, tokens *TokensMock) *AuthService {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	return NewAuthService(users, tokens, maker, nil, newNoopLogger())
}

func TestAuthService_Register(t *testing.T) {
	req := models.RegisterRequest{
		Email:    "taro@example.com",
		Password: "supersecret",
	}

	t.Run("success register survives queue failure", func(t *testing.T) {
		users := new(UsersMock)
		tokens := new(TokensMock)
		svc := newService(users, tokens)

		users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Email == req.Email &&
				u.Role == models.RoleUser &&
				u.PasswordHash != req.Password
		})).Return("uid-1", nil).Once()
		// Выпуск токена не удался, но регистрация уже состоялась.
		tokens.On("CreateVerificationToken", mock.Anything, mock.Anything).
			Return(assert.AnError).Once()

		uid, err := svc.Register(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, "uid-1", uid)

		users.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		users := new(UsersMock)
		tokens := new(TokensMock)
		svc := newService(users, tokens)

		users.On("RegisterUser", mock.Anything, mock.Anything).
			Return("", repository.ErrAlreadyExists).Once()

		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, ErrEmailTaken)
		users.AssertExpectations(t)
	})
}

func TestAuthService_VerifyEmail(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(u *UsersMock, tk *TokensMock)
		wantErr    error
	}{
		{
			name: "success verify",
			setupMocks: func(u *UsersMock, tk *TokensMock) {
				tk.On("GetVerificationToken", mock.Anything, "tok-1").
					Return(&models.EmailVerificationToken{
						Token: "tok-1", UserUID: "uid-1",
						CreatedAt: time.Now().UTC().Add(-time.Hour),
					}, nil).Once()
				tk.On("ConsumeVerificationToken", mock.Anything, "tok-1").Return(nil).Once()
				u.On("SetEmailVerified", mock.Anything, "uid-1").Return(nil).Once()
			},
		},
		{
			name: "unknown token",
			setupMocks: func(u *UsersMock, tk *TokensMock) {
				tk.On("GetVerificationToken", mock.Anything, "tok-1").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrTokenInvalid,
		},
		{
			name: "already used token",
			setupMocks: func(u *UsersMock, tk *TokensMock) {
				tk.On("GetVerificationToken", mock.Anything, "tok-1").
					Return(&models.EmailVerificationToken{
						Token: "tok-1", UserUID: "uid-1", IsUsed: true,
						CreatedAt: time.Now().UTC().Add(-time.Hour),
					}, nil).Once()
			},
			wantErr: ErrTokenInvalid,
		},
		{
			name: "expired token",
			setupMocks: func(u *UsersMock, tk *TokensMock) {
				tk.On("GetVerificationToken", mock.Anything, "tok-1").
					Return(&models.EmailVerificationToken{
						Token: "tok-1", UserUID: "uid-1",
						CreatedAt: time.Now().UTC().Add(-25 * time.Hour),
					}, nil).Once()
			},
			wantErr: ErrTokenExpired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			tokens := new(TokensMock)
			svc := newService(users, tokens)

			tt.setupMocks(users, tokens)

			err := svc.VerifyEmail(context.Background(), "tok-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			users.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("supersecret")
	require.NoError(t, err)

	verifiedUser := &models.User{
		UID: "uid-1", Email: "taro@example.com", PasswordHash: hash,
		Role: models.RoleUser, EmailVerified: true,
	}

	t.Run("success login", func(t *testing.T) {
		users := new(UsersMock)
		tokens := new(TokensMock)
		svc := newService(users, tokens)

		users.On("GetUserByEmail", mock.Anything, "taro@example.com").
			Return(verifiedUser, nil).Once()

		token, user, err := svc.Login(context.Background(), "taro@example.com", "supersecret")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "uid-1", user.UID)
		users.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(UsersMock)
		tokens := new(TokensMock)
		svc := newService(users, tokens)

		users.On("GetUserByEmail", mock.Anything, "taro@example.com").
			Return(verifiedUser, nil).Once()

		_, _, err := svc.Login(context.Background(), "taro@example.com", "wrongpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		users.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(UsersMock)
		tokens := new(TokensMock)
		svc := newService(users, tokens)

		users.On("GetUserByEmail", mock.Anything, "nobody@example.com").
			Return(nil, repository.ErrNotFound).Once()

		_, _, err := svc.Login(context.Background(), "nobody@example.com", "supersecret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		users.AssertExpectations(t)
	})

	t.Run("email not verified", func(t *testing.T) {
		users := new(UsersMock)
		tokens := new(TokensMock)
		svc := newService(users, tokens)

		unverified := *verifiedUser
		unverified.EmailVerified = false
		users.On("GetUserByEmail", mock.Anything, "taro@example.com").
			Return(&unverified, nil).Once()

		_, _, err := svc.Login(context.Background(), "taro@example.com", "supersecret")
		assert.ErrorIs(t, err, ErrEmailNotVerified)
		users.AssertExpectations(t)
	})
}

func TestAuthService_ResendVerification(t *testing.T) {
	t.Run("unknown email stays silent", func(t *testing.T) {
		users := new(UsersMock)
		tokens := new(TokensMock)
		svc := newService(users, tokens)

		users.On("GetUserByEmail", mock.Anything, "nobody@example.com").
			Return(nil, repository.ErrNotFound).Once()

		err := svc.ResendVerification(context.Background(), "nobody@example.com")
		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("already verified is a no-op", func(t *testing.T) {
		users := new(UsersMock)
		tokens := new(TokensMock)
		svc := newService(users, tokens)

		users.On("GetUserByEmail", mock.Anything, "taro@example.com").
			Return(&models.User{UID: "uid-1", EmailVerified: true}, nil).Once()

		err := svc.ResendVerification(context.Background(), "taro@example.com")
		assert.NoError(t, err)
		users.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})
}

func TestAuthService_AdminDeleteUser(t *testing.T) {
	t.Run("success delete", func(t *testing.T) {
		users := new(UsersMock)
		tokens := new(TokensMock)
		svc := newService(users, tokens)

		users.On("DeleteUser", mock.Anything, "uid-2").Return(nil).Once()

		err := svc.AdminDeleteUser(context.Background(), "uid-1", "uid-2")
		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("self delete is forbidden", func(t *testing.T) {
		users := new(UsersMock)
		tokens := new(TokensMock)
		svc := newService(users, tokens)

		err := svc.AdminDeleteUser(context.Background(), "uid-1", "uid-1")
		assert.ErrorIs(t, err, ErrSelfDelete)
		users.AssertExpectations(t)
	})
}

func TestAuthService_AdminSetPremium(t *testing.T) {
	t.Run("success override", func(t *testing.T) {
		users := new(UsersMock)
		tokens := new(TokensMock)
		svc := newService(users, tokens)

		users.On("SetUserPremium", mock.Anything, "uid-2", true).Return(nil).Once()

		err := svc.AdminSetPremium(context.Background(), "uid-1", "uid-2", true)
		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("self change is forbidden", func(t *testing.T) {
		users := new(UsersMock)
		tokens := new(TokensMock)
		svc := newService(users, tokens)

		err := svc.AdminSetPremium(context.Background(), "uid-1", "uid-1", false)
		assert.ErrorIs(t, err, ErrSelfUpdate)
		users.AssertExpectations(t)
	})
}
