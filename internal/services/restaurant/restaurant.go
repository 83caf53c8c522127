// Package services содержит бизнес-логику каталога заведений, включая
// кеширование карточек и модерацию карточек, созданных премиум-пользователями.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// Ошибки уровня бизнес-логики каталога.
var (
	// ErrHidden возвращается при чтении неопубликованной карточки
	// без административных прав.
	ErrHidden = errors.New("restaurant is not published")
	// ErrBudgetRange возвращается, когда нижняя граница бюджета
	// превышает верхнюю.
	ErrBudgetRange = errors.New("budget_min must not exceed budget_max")
)

// RestaurantRepository определяет методы для работы с каталогом в хранилище.
type RestaurantRepository interface {
	CreateRestaurant(ctx context.Context, r models.Restaurant) (int, error)
	ReadRestaurant(ctx context.Context, id int) (*models.Restaurant, error)
	ListRestaurants(ctx context.Context, filter models.RestaurantFilter) ([]*models.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id int, r models.Restaurant) error
	SetRestaurantActive(ctx context.Context, id int, isActive bool) error
	DeleteRestaurant(ctx context.Context, id int) error
}

// Cache описывает методы для кэширования карточек.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// RestaurantService реализует каталог: поиск, чтение с кешем,
// создание карточек и модерацию.
type RestaurantService struct {
	repo  RestaurantRepository
	cache Cache
	log   *slog.Logger
}

// NewRestaurantService создает новый экземпляр RestaurantService.
func NewRestaurantService(repo RestaurantRepository, cache Cache, log *slog.Logger) *RestaurantService {
	return &RestaurantService{repo: repo, cache: cache, log: log}
}

func cacheKey(id int) string {
	return fmt.Sprintf("restaurant:%d", id)
}

// List возвращает страницу каталога по фильтру. Неопубликованные карточки
// попадают в выдачу только для администратора.
func (s *RestaurantService) List(ctx context.Context, filter models.RestaurantFilter, includeHidden bool) ([]*models.Restaurant, error) {
	filter.OnlyActive = !includeHidden
	return s.repo.ListRestaurants(ctx, filter)
}

// Read возвращает карточку заведения, используя кеш или репозиторий.
// Скрытую карточку видит только администратор.
func (s *RestaurantService) Read(ctx context.Context, id int, includeHidden bool) (*models.Restaurant, error) {
	var restaurant *models.Restaurant
	key := cacheKey(id)
	found, err := s.cache.Get(key, &restaurant)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", key), sl.Err(err))
		found = false
	}
	if !found {
		restaurant, err = s.repo.ReadRestaurant(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(key, restaurant, time.Hour); err != nil {
			s.log.Warn("failed to cache restaurant", slog.String("key", key), sl.Err(err))
		}
	}
	if !restaurant.IsActive && !includeHidden {
		return nil, ErrHidden
	}
	return restaurant, nil
}

// Create сохраняет новую карточку. Карточки премиум-пользователей
// создаются скрытыми до одобрения администратором; администратор
// публикует карточку сразу.
func (s *RestaurantService) Create(ctx context.Context, req models.RestaurantRequest, publish bool) (int, error) {
	restaurant := requestToRestaurant(req)
	if restaurant.BudgetMin > restaurant.BudgetMax {
		return 0, ErrBudgetRange
	}
	restaurant.IsActive = publish
	id, err := s.repo.CreateRestaurant(ctx, restaurant)
	if err != nil {
		return 0, err
	}
	s.log.Info("restaurant created", slog.Int("id", id), slog.Bool("published", publish))
	return id, nil
}

// Update перезаписывает поля карточки и инвалидирует кеш.
func (s *RestaurantService) Update(ctx context.Context, id int, req models.RestaurantRequest) error {
	restaurant := requestToRestaurant(req)
	if restaurant.BudgetMin > restaurant.BudgetMax {
		return ErrBudgetRange
	}
	if err := s.repo.UpdateRestaurant(ctx, id, restaurant); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

// SetActive публикует или скрывает карточку.
func (s *RestaurantService) SetActive(ctx context.Context, id int, isActive bool) error {
	if err := s.repo.SetRestaurantActive(ctx, id, isActive); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

// Remove удаляет карточку вместе с бронями, отзывами и избранным
// (каскадом на уровне базы).
func (s *RestaurantService) Remove(ctx context.Context, id int) error {
	if err := s.repo.DeleteRestaurant(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *RestaurantService) invalidate(id int) {
	key := cacheKey(id)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
	}
}

// requestToRestaurant переносит поля запроса в модель, подставляя
// границы бюджета по умолчанию, когда они не указаны.
func requestToRestaurant(req models.RestaurantRequest) models.Restaurant {
	budgetMin := models.DefaultBudgetMin
	if req.BudgetMin != nil {
		budgetMin = *req.BudgetMin
	}
	budgetMax := models.DefaultBudgetMax
	if req.BudgetMax != nil {
		budgetMax = *req.BudgetMax
	}
	return models.Restaurant{
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		PostalCode:   req.PostalCode,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		OpeningHours: req.OpeningHours,
		ClosedDays:   req.ClosedDays,
		BudgetMin:    budgetMin,
		BudgetMax:    budgetMax,
		ImageURL:     req.ImageURL,
	}
}
