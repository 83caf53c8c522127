// Package services содержит бизнес-логику избранных заведений.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// ErrRestaurantNotFound возвращается при попытке добавить в избранное
// несуществующее или неопубликованное заведение.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// FavoriteRepository определяет методы для работы с избранным в хранилище.
type FavoriteRepository interface {
	// AddFavorite добавляет отметку и сообщает, была ли она создана.
	AddFavorite(ctx context.Context, userUID string, restaurantID int) (bool, error)
	RemoveFavorite(ctx context.Context, userUID string, restaurantID int) error
	ListFavoriteRestaurants(ctx context.Context, userUID string, limit, offset int) ([]*models.Restaurant, error)
	ReadRestaurant(ctx context.Context, id int) (*models.Restaurant, error)
}

// FavoriteService реализует отметки «избранное».
type FavoriteService struct {
	repo FavoriteRepository
	log  *slog.Logger
}

// NewFavoriteService создает новый экземпляр FavoriteService.
func NewFavoriteService(repo FavoriteRepository, log *slog.Logger) *FavoriteService {
	return &FavoriteService{repo: repo, log: log}
}

// Add добавляет заведение в избранное. Повторное добавление не ошибка:
// возвращается created=false, состояние не меняется.
func (s *FavoriteService) Add(ctx context.Context, userUID string, restaurantID int) (created bool, err error) {
	restaurant, err := s.repo.ReadRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrRestaurantNotFound
		}
		return false, err
	}
	if !restaurant.IsActive {
		return false, ErrRestaurantNotFound
	}
	created, err = s.repo.AddFavorite(ctx, userUID, restaurantID)
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info("favorite added", slog.String("user_uid", userUID), slog.Int("restaurant_id", restaurantID))
	}
	return created, nil
}

// Remove убирает заведение из избранного.
func (s *FavoriteService) Remove(ctx context.Context, userUID string, restaurantID int) error {
	return s.repo.RemoveFavorite(ctx, userUID, restaurantID)
}

// List возвращает избранные заведения пользователя, свежие отметки первыми.
func (s *FavoriteService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Restaurant, error) {
	return s.repo.ListFavoriteRestaurants(ctx, userUID, limit, offset)
}
