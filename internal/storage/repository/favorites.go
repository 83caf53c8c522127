package repository

import (
	"context"
	"fmt"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// AddFavorite добавляет заведение в избранное пользователя.
// Повторное добавление не является ошибкой: ON CONFLICT DO NOTHING,
// возвращается признак того, была ли запись создана.
func (s *Storage) AddFavorite(ctx context.Context, userUID string, restaurantID int) (bool, error) {
	const op = "storage.AddFavorite"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO favorites (user_uid, restaurant_id)
			  VALUES ($1, $2)
			  ON CONFLICT (user_uid, restaurant_id) DO NOTHING`
	result, err := s.DB.ExecContext(ctx, query, userUID, restaurantID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// RemoveFavorite убирает заведение из избранного пользователя.
func (s *Storage) RemoveFavorite(ctx context.Context, userUID string, restaurantID int) error {
	const op = "storage.RemoveFavorite"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM favorites WHERE user_uid = $1 AND restaurant_id = $2`
	result, err := s.DB.ExecContext(ctx, query, userUID, restaurantID)
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

// ListFavoriteRestaurants возвращает избранные заведения пользователя
// с пагинацией, последние добавленные первыми.
func (s *Storage) ListFavoriteRestaurants(ctx context.Context, userUID string, limit, offset int) ([]*models.Restaurant, error) {
	const op = "storage.ListFavoriteRestaurants"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + restaurantColumns + `
			  FROM favorites f
			  JOIN restaurants r ON r.id = f.restaurant_id
			  WHERE f.user_uid = $1
			  ORDER BY f.created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
