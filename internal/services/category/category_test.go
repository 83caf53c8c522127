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

func (m *RepoMock) CreateCategory(ctx context.Context, c models.Category) (int, error) {
	args := m.Called(ctx, c)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}
func (m *RepoMock) UpdateCategory(ctx context.Context, id int, c models.Category) error {
	return m.Called(ctx, id, c).Error(0)
}
func (m *RepoMock) CountRestaurantsByCategory(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) DeleteCategory(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCategoryService_Create(t *testing.T) {
	t.Run("success create", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewCategoryService(repo, newNoopLogger())

		repo.On("CreateCategory", mock.Anything, models.Category{Name: "Рамэн"}).
			Return(2, nil).Once()

		id, err := svc.Create(context.Background(), models.CategoryRequest{Name: "Рамэн"})
		assert.NoError(t, err)
		assert.Equal(t, 2, id)
		repo.AssertExpectations(t)
	})

	t.Run("name taken", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewCategoryService(repo, newNoopLogger())

		repo.On("CreateCategory", mock.Anything, mock.Anything).
			Return(0, repository.ErrAlreadyExists).Once()

		_, err := svc.Create(context.Background(), models.CategoryRequest{Name: "Рамэн"})
		assert.ErrorIs(t, err, ErrCategoryTaken)
		repo.AssertExpectations(t)
	})
}

func TestCategoryService_Remove(t *testing.T) {
	tests := []struct {
		name       string
		force      bool
		count      int
		wantInUse  bool
		wantDelete bool
	}{
		{name: "unused category deletes without force", count: 0, wantDelete: true},
		{name: "used category without force is rejected", count: 7, wantInUse: true},
		{name: "used category with force detaches restaurants", count: 7, force: true, wantDelete: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewCategoryService(repo, newNoopLogger())

			repo.On("CountRestaurantsByCategory", mock.Anything, 2).Return(tt.count, nil).Once()
			if tt.wantDelete {
				repo.On("DeleteCategory", mock.Anything, 2).Return(nil).Once()
			}

			err := svc.Remove(context.Background(), 2, tt.force)
			if tt.wantInUse {
				var inUseErr *CategoryInUseError
				assert.ErrorAs(t, err, &inUseErr)
				assert.Equal(t, tt.count, inUseErr.Count)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}
