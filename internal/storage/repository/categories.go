package repository

import (
	"context"
	"fmt"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// CreateCategory вставляет новую категорию и возвращает её ID.
// Повторяющееся название отклоняется как ErrAlreadyExists.
func (s *Storage) CreateCategory(ctx context.Context, c models.Category) (int, error) {
	const op = "storage.CreateCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, c.Name, c.Description).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// ListCategories возвращает все категории по алфавиту.
func (s *Storage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "storage.ListCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCategory обновляет название и описание категории.
func (s *Storage) UpdateCategory(ctx context.Context, id int, c models.Category) error {
	const op = "storage.UpdateCategory"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE categories SET name = $1, description = $2, updated_at = now() WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, c.Name, c.Description, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// CountRestaurantsByCategory возвращает число заведений в категории.
func (s *Storage) CountRestaurantsByCategory(ctx context.Context, id int) (int, error) {
	const op = "storage.CountRestaurantsByCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM restaurants WHERE category_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// DeleteCategory удаляет категорию; ссылки зависимых заведений
// обнуляются на уровне базы (ON DELETE SET NULL).
func (s *Storage) DeleteCategory(ctx context.Context, id int) error {
	const op = "storage.DeleteCategory"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
