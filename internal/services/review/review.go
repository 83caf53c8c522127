// Package services содержит бизнес-логику отзывов о заведениях.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// Ошибки уровня бизнес-логики отзывов.
var (
	ErrDuplicateReview    = errors.New("review for this restaurant already exists")
	ErrNotAuthor          = errors.New("review belongs to another user")
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// ReviewRepository определяет методы для работы с отзывами в хранилище.
type ReviewRepository interface {
	CreateReview(ctx context.Context, r models.Review) (int, error)
	ReadReview(ctx context.Context, id int) (*models.Review, error)
	ListReviewsByRestaurant(ctx context.Context, restaurantID int, onlyPublic bool, limit, offset int) ([]*models.Review, error)
	UpdateReview(ctx context.Context, id int, rating int, comment string) error
	SetReviewVisibility(ctx context.Context, id int, isPublic bool) error
	DeleteReview(ctx context.Context, id int) error
	ReadRestaurant(ctx context.Context, id int) (*models.Restaurant, error)
}

// ReviewService реализует создание, правку и модерацию отзывов.
type ReviewService struct {
	repo ReviewRepository
	log  *slog.Logger
}

// NewReviewService создает новый экземпляр ReviewService.
func NewReviewService(repo ReviewRepository, log *slog.Logger) *ReviewService {
	return &ReviewService{repo: repo, log: log}
}

// Create сохраняет отзыв. На пару пользователь-заведение допускается
// не более одного отзыва, отзыв сразу публичен.
func (s *ReviewService) Create(ctx context.Context, userUID string, restaurantID int, req models.ReviewRequest) (int, error) {
	restaurant, err := s.repo.ReadRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrRestaurantNotFound
		}
		return 0, err
	}
	if !restaurant.IsActive {
		return 0, ErrRestaurantNotFound
	}

	review := models.Review{
		UserUID:      userUID,
		RestaurantID: restaurantID,
		Rating:       req.Rating,
		Comment:      req.Comment,
		IsPublic:     true,
	}
	id, err := s.repo.CreateReview(ctx, review)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return 0, ErrDuplicateReview
		}
		return 0, err
	}
	s.log.Info("review created", slog.Int("id", id), slog.String("user_uid", userUID))
	return id, nil
}

// Update правит собственный отзыв пользователя.
func (s *ReviewService) Update(ctx context.Context, userUID string, id int, req models.ReviewRequest) error {
	review, err := s.repo.ReadReview(ctx, id)
	if err != nil {
		return err
	}
	if review.UserUID != userUID {
		return ErrNotAuthor
	}
	return s.repo.UpdateReview(ctx, id, req.Rating, req.Comment)
}

// Remove удаляет собственный отзыв пользователя.
func (s *ReviewService) Remove(ctx context.Context, userUID string, id int) error {
	review, err := s.repo.ReadReview(ctx, id)
	if err != nil {
		return err
	}
	if review.UserUID != userUID {
		return ErrNotAuthor
	}
	return s.repo.DeleteReview(ctx, id)
}

// ListByRestaurant возвращает отзывы заведения. Обычные пользователи
// видят только публичные, администратор видит все.
func (s *ReviewService) ListByRestaurant(ctx context.Context, restaurantID int, includeHidden bool, limit, offset int) ([]*models.Review, error) {
	return s.repo.ListReviewsByRestaurant(ctx, restaurantID, !includeHidden, limit, offset)
}

// AdminSetVisibility скрывает или возвращает отзыв в публичную выдачу.
func (s *ReviewService) AdminSetVisibility(ctx context.Context, id int, isPublic bool) error {
	return s.repo.SetReviewVisibility(ctx, id, isPublic)
}

// AdminRemove удаляет любой отзыв.
func (s *ReviewService) AdminRemove(ctx context.Context, id int) error {
	return s.repo.DeleteReview(ctx, id)
}
