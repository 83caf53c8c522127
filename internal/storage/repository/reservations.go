package repository

import (
	"context"
	"fmt"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// CreateReservation вставляет новую бронь и возвращает её ID.
// Повторная бронь того же слота тем же пользователем отклоняется
// уникальным ограничением и возвращается как ErrAlreadyExists.
func (s *Storage) CreateReservation(ctx context.Context, r models.Reservation) (int, error) {
	const op = "storage.CreateReservation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reservations (user_uid, restaurant_id, reservation_date, reservation_time,
			      party_size, notes, status, contact_phone)
			  VALUES ($1, $2, $3, $4::time, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		r.UserUID, r.RestaurantID, r.ReservationDate, r.ReservationTime,
		r.PartySize, r.Notes, r.Status, r.ContactPhone).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

const reservationColumns = `id, user_uid, restaurant_id, reservation_date,
			      to_char(reservation_time, 'HH24:MI'), party_size, notes, status,
			      contact_phone, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*models.Reservation, error) {
	r := &models.Reservation{}
	err := row.Scan(&r.ID, &r.UserUID, &r.RestaurantID, &r.ReservationDate,
		&r.ReservationTime, &r.PartySize, &r.Notes, &r.Status,
		&r.ContactPhone, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ReadReservation возвращает бронь по ID.
func (s *Storage) ReadReservation(ctx context.Context, id int) (*models.Reservation, error) {
	const op = "storage.ReadReservation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	r, err := scanReservation(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return r, nil
}

// ListReservationsByUser возвращает брони пользователя с пагинацией,
// ближайшие визиты первыми.
func (s *Storage) ListReservationsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Reservation, error) {
	const op = "storage.ListReservationsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reservationColumns + `
			  FROM reservations
			  WHERE user_uid = $1
			  ORDER BY reservation_date DESC, reservation_time DESC
			  LIMIT $2 OFFSET $3`
	return s.listReservations(ctx, op, query, userUID, limit, offset)
}

// ListAllReservations возвращает все брони с пагинацией для админ-панели.
func (s *Storage) ListAllReservations(ctx context.Context, limit, offset int) ([]*models.Reservation, error) {
	const op = "storage.ListAllReservations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reservationColumns + `
			  FROM reservations
			  ORDER BY reservation_date DESC, reservation_time DESC
			  LIMIT $1 OFFSET $2`
	return s.listReservations(ctx, op, query, limit, offset)
}

func (s *Storage) listReservations(ctx context.Context, op, query string, args ...any) ([]*models.Reservation, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
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

// UpdateReservationStatus выставляет статус брони.
func (s *Storage) UpdateReservationStatus(ctx context.Context, id int, status string) error {
	const op = "storage.UpdateReservationStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reservations SET status = $1, updated_at = now() WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
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

// DeleteReservation удаляет бронь без следа, операция только для администратора.
func (s *Storage) DeleteReservation(ctx context.Context, id int) error {
	const op = "storage.DeleteReservation"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
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
