package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// CreateRestaurant вставляет новую карточку заведения и возвращает её ID.
func (s *Storage) CreateRestaurant(ctx context.Context, r models.Restaurant) (int, error) {
	const op = "storage.CreateRestaurant"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO restaurants (name, description, category_id, postal_code, address,
			      phone_number, opening_hours, closed_days, budget_min, budget_max, image_url, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		r.Name, r.Description, r.CategoryID, r.PostalCode, r.Address,
		r.PhoneNumber, r.OpeningHours, r.ClosedDays, r.BudgetMin, r.BudgetMax,
		r.ImageURL, r.IsActive).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

const restaurantColumns = `r.id, r.name, r.description, r.category_id, r.postal_code, r.address,
			      r.phone_number, r.opening_hours, r.closed_days, r.budget_min, r.budget_max,
			      r.image_url, r.is_active,
			      COALESCE((SELECT ROUND(AVG(rating), 1) FROM reviews WHERE restaurant_id = r.id AND is_public), 0),
			      (SELECT COUNT(*) FROM reviews WHERE restaurant_id = r.id AND is_public),
			      r.created_at, r.updated_at`

func scanRestaurant(row interface{ Scan(...any) error }) (*models.Restaurant, error) {
	r := &models.Restaurant{}
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.CategoryID, &r.PostalCode, &r.Address,
		&r.PhoneNumber, &r.OpeningHours, &r.ClosedDays, &r.BudgetMin, &r.BudgetMax,
		&r.ImageURL, &r.IsActive, &r.AverageRating, &r.ReviewCount, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ReadRestaurant возвращает карточку заведения по ID вместе с агрегатами отзывов.
func (s *Storage) ReadRestaurant(ctx context.Context, id int) (*models.Restaurant, error) {
	const op = "storage.ReadRestaurant"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + restaurantColumns + ` FROM restaurants r WHERE r.id = $1`
	r, err := scanRestaurant(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return r, nil
}

// ListRestaurants возвращает карточки по фильтру каталога с пагинацией.
// Условия собираются динамически: ключевое слово, категория, верхний бюджет
// и признак публикации.
func (s *Storage) ListRestaurants(ctx context.Context, filter models.RestaurantFilter) ([]*models.Restaurant, error) {
	const op = "storage.ListRestaurants"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conds []string
	var args []any
	if filter.OnlyActive {
		conds = append(conds, "r.is_active")
	}
	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		n := strconv.Itoa(len(args))
		conds = append(conds, "(r.name ILIKE $"+n+" OR r.description ILIKE $"+n+")")
	}
	if filter.CategoryID > 0 {
		args = append(args, filter.CategoryID)
		conds = append(conds, "r.category_id = $"+strconv.Itoa(len(args)))
	}
	if filter.BudgetMax > 0 {
		args = append(args, filter.BudgetMax)
		conds = append(conds, "r.budget_min <= $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + restaurantColumns + ` FROM restaurants r`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, filter.Limit)
	query += " ORDER BY r.created_at DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.DB.QueryContext(ctx, query, args...)
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

// UpdateRestaurant обновляет карточку заведения по ID.
func (s *Storage) UpdateRestaurant(ctx context.Context, id int, r models.Restaurant) error {
	const op = "storage.UpdateRestaurant"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE restaurants
			  SET name = $1, description = $2, category_id = $3, postal_code = $4, address = $5,
			      phone_number = $6, opening_hours = $7, closed_days = $8, budget_min = $9,
			      budget_max = $10, image_url = $11, updated_at = now()
			  WHERE id = $12`
	result, err := s.DB.ExecContext(ctx, query,
		r.Name, r.Description, r.CategoryID, r.PostalCode, r.Address,
		r.PhoneNumber, r.OpeningHours, r.ClosedDays, r.BudgetMin, r.BudgetMax, r.ImageURL, id)
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

// SetRestaurantActive выставляет признак публикации карточки.
func (s *Storage) SetRestaurantActive(ctx context.Context, id int, isActive bool) error {
	const op = "storage.SetRestaurantActive"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE restaurants SET is_active = $1, updated_at = now() WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, isActive, id)
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

// DeleteRestaurant удаляет карточку; отзывы, брони и избранное
// удаляются каскадно на уровне базы.
func (s *Storage) DeleteRestaurant(ctx context.Context, id int) error {
	const op = "storage.DeleteRestaurant"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
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
