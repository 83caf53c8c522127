package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) AddFavorite(ctx context.Context, userUID string, restaurantID int) (bool, error) {
	args := m.Called(ctx, userUID, restaurantID)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) RemoveFavorite(ctx context.Context, userUID string, restaurantID int) error {
	return m.Called(ctx, userUID, restaurantID).Error(0)
}
func (m *RepoMock) ListFavoriteRestaurants(ctx context.Context, userUID string, limit, offset int) ([]*models.Restaurant, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Restaurant), args.Error(1)
}
func (m *RepoMock) ReadRestaurant(ctx context.Context, id int) (*models.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Restaurant), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestFavoriteService_Add(t *testing.T) {
	active := &models.Restaurant{ID: 5, IsActive: true}

	tests := []struct {
		name        string
		setupMocks  func(r *RepoMock)
		wantCreated bool
		wantErr     error
	}{
		{
			name: "first add creates mark",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(active, nil).Once()
				r.On("AddFavorite", mock.Anything, "user-1", 5).Return(true, nil).Once()
			},
			wantCreated: true,
		},
		{
			name: "repeated add is idempotent",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(active, nil).Once()
				r.On("AddFavorite", mock.Anything, "user-1", 5).Return(false, nil).Once()
			},
			wantCreated: false,
		},
		{
			name: "restaurant not found",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrRestaurantNotFound,
		},
		{
			name: "hidden restaurant behaves as missing",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).
					Return(&models.Restaurant{ID: 5, IsActive: false}, nil).Once()
			},
			wantErr: ErrRestaurantNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewFavoriteService(repo, newNoopLogger())

			tt.setupMocks(repo)

			created, err := svc.Add(context.Background(), "user-1", 5)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCreated, created)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestFavoriteService_List(t *testing.T) {
	repo := new(RepoMock)
	svc := NewFavoriteService(repo, newNoopLogger())

	repo.On("ListFavoriteRestaurants", mock.Anything, "user-1", 20, 0).
		Return([]*models.Restaurant{{ID: 5, Name: "Хицумабуси Ивато"}}, nil).Once()

	got, err := svc.List(context.Background(), "user-1", 20, 0)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}
