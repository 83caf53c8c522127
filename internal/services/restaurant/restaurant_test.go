package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateRestaurant(ctx context.Context, r models.Restaurant) (int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadRestaurant(ctx context.Context, id int) (*models.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Restaurant), args.Error(1)
}
func (m *RepoMock) ListRestaurants(ctx context.Context, filter models.RestaurantFilter) ([]*models.Restaurant, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Restaurant), args.Error(1)
}
func (m *RepoMock) UpdateRestaurant(ctx context.Context, id int, r models.Restaurant) error {
	return m.Called(ctx, id, r).Error(0)
}
func (m *RepoMock) SetRestaurantActive(ctx context.Context, id int, isActive bool) error {
	return m.Called(ctx, id, isActive).Error(0)
}
func (m *RepoMock) DeleteRestaurant(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func intPtr(v int) *int { return &v }

func TestRestaurantService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     models.RestaurantRequest
		publish bool
		check   func(r models.Restaurant) bool
		wantErr error
	}{
		{
			name: "admin create publishes immediately",
			req: models.RestaurantRequest{
				Name: "Тэбасаки Фурайбо", Address: "Нагоя, Сакаэ",
			},
			publish: true,
			check: func(r models.Restaurant) bool {
				return r.IsActive &&
					r.BudgetMin == models.DefaultBudgetMin &&
					r.BudgetMax == models.DefaultBudgetMax
			},
		},
		{
			name: "premium user create stays hidden",
			req: models.RestaurantRequest{
				Name: "Кисимэн Ёсида", Address: "Нагоя, Мэйэки",
				BudgetMin: intPtr(1000), BudgetMax: intPtr(3000),
			},
			publish: false,
			check: func(r models.Restaurant) bool {
				return !r.IsActive && r.BudgetMin == 1000 && r.BudgetMax == 3000
			},
		},
		{
			name: "inverted budget range",
			req: models.RestaurantRequest{
				Name: "Мисо-никоми Ямамотоя", Address: "Нагоя, Осу",
				BudgetMin: intPtr(4000), BudgetMax: intPtr(2000),
			},
			wantErr: ErrBudgetRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := NewRestaurantService(repo, cache, newNoopLogger())

			if tt.wantErr == nil {
				repo.On("CreateRestaurant", mock.Anything, mock.MatchedBy(tt.check)).
					Return(5, nil).Once()
			}

			id, err := svc.Create(context.Background(), tt.req, tt.publish)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 5, id)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestRestaurantService_Read(t *testing.T) {
	published := &models.Restaurant{ID: 5, Name: "Тэбасаки Фурайбо", IsActive: true}
	hidden := &models.Restaurant{ID: 6, Name: "Кисимэн Ёсида", IsActive: false}

	t.Run("cache miss reads repo and fills cache", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewRestaurantService(repo, cache, newNoopLogger())

		cache.On("Get", "restaurant:5", mock.Anything).Return(false, nil).Once()
		repo.On("ReadRestaurant", mock.Anything, 5).Return(published, nil).Once()
		cache.On("Set", "restaurant:5", published, time.Hour).Return(nil).Once()

		got, err := svc.Read(context.Background(), 5, false)
		assert.NoError(t, err)
		assert.Equal(t, "Тэбасаки Фурайбо", got.Name)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache error falls back to repo", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewRestaurantService(repo, cache, newNoopLogger())

		cache.On("Get", "restaurant:5", mock.Anything).
			Return(false, errors.New("redis down")).Once()
		repo.On("ReadRestaurant", mock.Anything, 5).Return(published, nil).Once()
		cache.On("Set", "restaurant:5", published, time.Hour).
			Return(errors.New("redis down")).Once()

		got, err := svc.Read(context.Background(), 5, false)
		assert.NoError(t, err)
		assert.Equal(t, 5, got.ID)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("hidden card without admin rights", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewRestaurantService(repo, cache, newNoopLogger())

		cache.On("Get", "restaurant:6", mock.Anything).Return(false, nil).Once()
		repo.On("ReadRestaurant", mock.Anything, 6).Return(hidden, nil).Once()
		cache.On("Set", "restaurant:6", hidden, time.Hour).Return(nil).Once()

		_, err := svc.Read(context.Background(), 6, false)
		assert.ErrorIs(t, err, ErrHidden)
	})

	t.Run("hidden card visible to admin", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewRestaurantService(repo, cache, newNoopLogger())

		cache.On("Get", "restaurant:6", mock.Anything).Return(false, nil).Once()
		repo.On("ReadRestaurant", mock.Anything, 6).Return(hidden, nil).Once()
		cache.On("Set", "restaurant:6", hidden, time.Hour).Return(nil).Once()

		got, err := svc.Read(context.Background(), 6, true)
		assert.NoError(t, err)
		assert.False(t, got.IsActive)
	})
}

func TestRestaurantService_List(t *testing.T) {
	t.Run("regular listing forces only active", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewRestaurantService(repo, cache, newNoopLogger())

		repo.On("ListRestaurants", mock.Anything,
			mock.MatchedBy(func(f models.RestaurantFilter) bool {
				return f.OnlyActive && f.Keyword == "кисимэн"
			})).Return([]*models.Restaurant{{ID: 5}}, nil).Once()

		got, err := svc.List(context.Background(),
			models.RestaurantFilter{Keyword: "кисимэн", Limit: 20}, false)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		repo.AssertExpectations(t)
	})

	t.Run("admin listing includes hidden", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewRestaurantService(repo, cache, newNoopLogger())

		repo.On("ListRestaurants", mock.Anything,
			mock.MatchedBy(func(f models.RestaurantFilter) bool {
				return !f.OnlyActive
			})).Return([]*models.Restaurant{{ID: 5}, {ID: 6}}, nil).Once()

		got, err := svc.List(context.Background(), models.RestaurantFilter{Limit: 20}, true)
		assert.NoError(t, err)
		assert.Len(t, got, 2)
		repo.AssertExpectations(t)
	})
}

func TestRestaurantService_SetActive(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewRestaurantService(repo, cache, newNoopLogger())

	repo.On("SetRestaurantActive", mock.Anything, 6, true).Return(nil).Once()
	cache.On("Invalidate", "restaurant:6").Return(nil).Once()

	err := svc.SetActive(context.Background(), 6, true)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
