package repository

import (
	"context"
	"fmt"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// CreateReview вставляет новый отзыв и возвращает его ID.
// Повторный отзыв того же пользователя о том же заведении отклоняется
// уникальным ограничением и возвращается как ErrAlreadyExists.
func (s *Storage) CreateReview(ctx context.Context, r models.Review) (int, error) {
	const op = "storage.CreateReview"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reviews (user_uid, restaurant_id, rating, comment, is_public)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		r.UserUID, r.RestaurantID, r.Rating, r.Comment, r.IsPublic).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

const reviewColumns = `id, user_uid, restaurant_id, rating, comment, is_public, created_at, updated_at`

func scanReview(row interface{ Scan(...any) error }) (*models.Review, error) {
	r := &models.Review{}
	err := row.Scan(&r.ID, &r.UserUID, &r.RestaurantID, &r.Rating, &r.Comment,
		&r.IsPublic, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ReadReview возвращает отзыв по ID.
func (s *Storage) ReadReview(ctx context.Context, id int) (*models.Review, error) {
	const op = "storage.ReadReview"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	r, err := scanReview(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return r, nil
}

// ListReviewsByRestaurant возвращает отзывы заведения с пагинацией.
// Для публичного каталога возвращаются только видимые отзывы.
func (s *Storage) ListReviewsByRestaurant(ctx context.Context, restaurantID int, onlyPublic bool, limit, offset int) ([]*models.Review, error) {
	const op = "storage.ListReviewsByRestaurant"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reviewColumns + `
			  FROM reviews
			  WHERE restaurant_id = $1 AND ($2 = FALSE OR is_public)
			  ORDER BY created_at DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, restaurantID, onlyPublic, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Review
	for rows.Next() {
		r, err := scanReview(rows)
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

// UpdateReview обновляет оценку и текст отзыва по ID.
func (s *Storage) UpdateReview(ctx context.Context, id int, rating int, comment string) error {
	const op = "storage.UpdateReview"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reviews SET rating = $1, comment = $2, updated_at = now() WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, rating, comment, id)
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

// SetReviewVisibility переключает видимость отзыва, операция администратора.
func (s *Storage) SetReviewVisibility(ctx context.Context, id int, isPublic bool) error {
	const op = "storage.SetReviewVisibility"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reviews SET is_public = $1, updated_at = now() WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, isPublic, id)
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

// DeleteReview удаляет отзыв по ID.
func (s *Storage) DeleteReview(ctx context.Context, id int) error {
	const op = "storage.DeleteReview"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
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
