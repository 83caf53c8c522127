// Package services содержит бизнес-логику категорий кухни.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// ErrCategoryTaken возвращается при попытке создать категорию
// с уже занятым названием.
var ErrCategoryTaken = errors.New("category name is already taken")

// CategoryInUseError возвращается при удалении категории, на которую
// ссылаются заведения, без флага принудительного удаления.
type CategoryInUseError struct {
	Count int // Число заведений, ссылающихся на категорию
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category is used by %d restaurants", e.Count)
}

// CategoryRepository определяет методы для работы с категориями в хранилище.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, c models.Category) (int, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, id int, c models.Category) error
	CountRestaurantsByCategory(ctx context.Context, id int) (int, error)
	DeleteCategory(ctx context.Context, id int) error
}

// CategoryService реализует справочник категорий.
type CategoryService struct {
	repo CategoryRepository
	log  *slog.Logger
}

// NewCategoryService создает новый экземпляр CategoryService.
func NewCategoryService(repo CategoryRepository, log *slog.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log}
}

// Create добавляет категорию с уникальным названием.
func (s *CategoryService) Create(ctx context.Context, req models.CategoryRequest) (int, error) {
	id, err := s.repo.CreateCategory(ctx, models.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return 0, ErrCategoryTaken
		}
		return 0, err
	}
	return id, nil
}

// List возвращает все категории в алфавитном порядке.
func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// Update переименовывает категорию.
func (s *CategoryService) Update(ctx context.Context, id int, req models.CategoryRequest) error {
	err := s.repo.UpdateCategory(ctx, id, models.Category{Name: req.Name, Description: req.Description})
	if errors.Is(err, repository.ErrAlreadyExists) {
		return ErrCategoryTaken
	}
	return err
}

// Remove удаляет категорию. Если на категорию ссылаются заведения,
// удаление без force отклоняется с указанием их числа; при force
// заведения остаются без категории (category_id обнуляется базой).
func (s *CategoryService) Remove(ctx context.Context, id int, force bool) error {
	count, err := s.repo.CountRestaurantsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 && !force {
		return &CategoryInUseError{Count: count}
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	if count > 0 {
		s.log.Info("category force-deleted", slog.Int("id", id), slog.Int("detached_restaurants", count))
	}
	return nil
}
