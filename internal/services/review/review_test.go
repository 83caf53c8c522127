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

func (m *RepoMock) CreateReview(ctx context.Context, r models.Review) (int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadReview(ctx context.Context, id int) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}
func (m *RepoMock) ListReviewsByRestaurant(ctx context.Context, restaurantID int, onlyPublic bool, limit, offset int) ([]*models.Review, error) {
	args := m.Called(ctx, restaurantID, onlyPublic, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}
func (m *RepoMock) UpdateReview(ctx context.Context, id int, rating int, comment string) error {
	return m.Called(ctx, id, rating, comment).Error(0)
}
func (m *RepoMock) SetReviewVisibility(ctx context.Context, id int, isPublic bool) error {
	return m.Called(ctx, id, isPublic).Error(0)
}
func (m *RepoMock) DeleteReview(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
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

func TestReviewService_Create(t *testing.T) {
	active := &models.Restaurant{ID: 5, IsActive: true}
	req := models.ReviewRequest{Rating: 4, Comment: "Очень вкусный унаги"}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantID     int
		wantErr    error
	}{
		{
			name: "success create is public by default",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(active, nil).Once()
				r.On("CreateReview", mock.Anything, mock.MatchedBy(func(rv models.Review) bool {
					return rv.IsPublic && rv.Rating == 4 && rv.RestaurantID == 5
				})).Return(11, nil).Once()
			},
			wantID: 11,
		},
		{
			name: "duplicate review",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(active, nil).Once()
				r.On("CreateReview", mock.Anything, mock.Anything).
					Return(0, repository.ErrAlreadyExists).Once()
			},
			wantErr: ErrDuplicateReview,
		},
		{
			name: "restaurant not found",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrRestaurantNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewReviewService(repo, newNoopLogger())

			tt.setupMocks(repo)

			id, err := svc.Create(context.Background(), "user-1", 5, req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestReviewService_UpdateAndRemove(t *testing.T) {
	own := &models.Review{ID: 11, UserUID: "user-1", RestaurantID: 5, Rating: 3}

	t.Run("author can update", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewReviewService(repo, newNoopLogger())

		repo.On("ReadReview", mock.Anything, 11).Return(own, nil).Once()
		repo.On("UpdateReview", mock.Anything, 11, 5, "Стало ещё лучше").Return(nil).Once()

		err := svc.Update(context.Background(), "user-1", 11,
			models.ReviewRequest{Rating: 5, Comment: "Стало ещё лучше"})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewReviewService(repo, newNoopLogger())

		repo.On("ReadReview", mock.Anything, 11).Return(own, nil).Once()

		err := svc.Update(context.Background(), "user-2", 11, models.ReviewRequest{Rating: 1})
		assert.ErrorIs(t, err, ErrNotAuthor)
		repo.AssertExpectations(t)
	})

	t.Run("stranger cannot remove", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewReviewService(repo, newNoopLogger())

		repo.On("ReadReview", mock.Anything, 11).Return(own, nil).Once()

		err := svc.Remove(context.Background(), "user-2", 11)
		assert.ErrorIs(t, err, ErrNotAuthor)
		repo.AssertExpectations(t)
	})

	t.Run("admin removes any review", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewReviewService(repo, newNoopLogger())

		repo.On("DeleteReview", mock.Anything, 11).Return(nil).Once()

		err := svc.AdminRemove(context.Background(), 11)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestReviewService_ListByRestaurant(t *testing.T) {
	t.Run("regular listing hides private reviews", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewReviewService(repo, newNoopLogger())

		repo.On("ListReviewsByRestaurant", mock.Anything, 5, true, 20, 0).
			Return([]*models.Review{{ID: 11}}, nil).Once()

		got, err := svc.ListByRestaurant(context.Background(), 5, false, 20, 0)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		repo.AssertExpectations(t)
	})

	t.Run("admin listing includes hidden reviews", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewReviewService(repo, newNoopLogger())

		repo.On("ListReviewsByRestaurant", mock.Anything, 5, false, 20, 0).
			Return([]*models.Review{{ID: 11}, {ID: 12}}, nil).Once()

		got, err := svc.ListByRestaurant(context.Background(), 5, true, 20, 0)
		assert.NoError(t, err)
		assert.Len(t, got, 2)
		repo.AssertExpectations(t)
	})
}
