// Package services содержит бизнес-логику бронирования столиков:
// проверку ограничений при создании брони, отмену владельцем в пределах
// окна отмены и административные переводы статусов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// Ошибки уровня бизнес-логики бронирования.
var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrReservationTaken   = errors.New("reservation slot is already taken")
	ErrNotOwner           = errors.New("reservation belongs to another user")
	ErrNotCancellable     = errors.New("reservation can no longer be cancelled")
)

// FieldError описывает нарушение ограничения по конкретному полю брони.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ReservationRepository определяет методы для работы с бронями в хранилище.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, r models.Reservation) (int, error)
	ReadReservation(ctx context.Context, id int) (*models.Reservation, error)
	ListReservationsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Reservation, error)
	ListAllReservations(ctx context.Context, limit, offset int) ([]*models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id int, status string) error
	DeleteReservation(ctx context.Context, id int) error
	// ReadRestaurant нужен для проверки, что бронь делается в опубликованное заведение.
	ReadRestaurant(ctx context.Context, id int) (*models.Restaurant, error)
}

// ReservationService реализует жизненный цикл брони.
type ReservationService struct {
	repo ReservationRepository
	log  *slog.Logger
	// now подменяется в тестах.
	now func() time.Time
}

// NewReservationService создает новый экземпляр ReservationService.
func NewReservationService(repo ReservationRepository, log *slog.Logger) *ReservationService {
	return &ReservationService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Create создаёт бронь со статусом pending после проверки всех ограничений:
// дата не в прошлом и не дальше 90 дней, время в часы работы приёма броней,
// между созданием и визитом не меньше часа, размер группы от 1 до 10.
func (s *ReservationService) Create(ctx context.Context, userUID string, restaurantID int, req models.ReservationRequest) (*models.Reservation, error) {
	restaurant, err := s.repo.ReadRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	if !restaurant.IsActive {
		return nil, ErrRestaurantNotFound
	}

	date, err := time.Parse("2006-01-02", req.ReservationDate)
	if err != nil {
		return nil, &FieldError{Field: "reservation_date", Message: "must be a date in format 2006-01-02"}
	}
	visitTime, err := time.Parse("15:04", req.ReservationTime)
	if err != nil {
		return nil, &FieldError{Field: "reservation_time", Message: "must be a time in format 15:04"}
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, &FieldError{Field: "reservation_date", Message: "must not be in the past"}
	}
	if date.After(today.AddDate(0, 0, models.ReservationMaxDaysAhead)) {
		return nil, &FieldError{Field: "reservation_date",
			Message: fmt.Sprintf("must be within %d days from today", models.ReservationMaxDaysAhead)}
	}

	hour, minute := visitTime.Hour(), visitTime.Minute()
	if hour < models.ReservationOpenHour || hour > models.ReservationCloseHour ||
		(hour == models.ReservationCloseHour && minute > 0) {
		return nil, &FieldError{Field: "reservation_time",
			Message: fmt.Sprintf("must be between %02d:00 and %02d:00", models.ReservationOpenHour, models.ReservationCloseHour)}
	}

	visitAt := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
	if visitAt.Sub(now) < models.ReservationMinLead {
		return nil, &FieldError{Field: "reservation_time", Message: "must be at least one hour from now"}
	}

	if req.PartySize < models.ReservationMinParty || req.PartySize > models.ReservationMaxParty {
		return nil, &FieldError{Field: "party_size",
			Message: fmt.Sprintf("must be between %d and %d", models.ReservationMinParty, models.ReservationMaxParty)}
	}

	reservation := models.Reservation{
		UserUID:         userUID,
		RestaurantID:    restaurantID,
		ReservationDate: date,
		ReservationTime: req.ReservationTime,
		PartySize:       req.PartySize,
		Notes:           req.Notes,
		ContactPhone:    req.ContactPhone,
		Status:          models.ReservationStatusPending,
	}
	id, err := s.repo.CreateReservation(ctx, reservation)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrReservationTaken
		}
		return nil, err
	}
	reservation.ID = id
	s.log.Info("reservation created", slog.Int("id", id), slog.String("user_uid", userUID))
	return &reservation, nil
}

// Cancel отменяет бронь по запросу владельца. Отмена доступна только
// для нетерминальных статусов и не позднее чем за день до даты визита.
func (s *ReservationService) Cancel(ctx context.Context, userUID string, id int) error {
	reservation, err := s.repo.ReadReservation(ctx, id)
	if err != nil {
		return err
	}
	if reservation.UserUID != userUID {
		return ErrNotOwner
	}
	if !reservation.CanCancel(s.now().UTC()) {
		return ErrNotCancellable
	}
	return s.repo.UpdateReservationStatus(ctx, id, models.ReservationStatusCancelled)
}

// ListByUser возвращает брони пользователя, ближайшие визиты первыми.
func (s *ReservationService) ListByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Reservation, error) {
	return s.repo.ListReservationsByUser(ctx, userUID, limit, offset)
}

// ListAll возвращает все брони для административного раздела.
func (s *ReservationService) ListAll(ctx context.Context, limit, offset int) ([]*models.Reservation, error) {
	return s.repo.ListAllReservations(ctx, limit, offset)
}

// AdminSetStatus переводит бронь в любой из статусов словаря.
// Ограничение окна отмены на администратора не распространяется.
func (s *ReservationService) AdminSetStatus(ctx context.Context, id int, status string) error {
	return s.repo.UpdateReservationStatus(ctx, id, status)
}

// AdminDelete физически удаляет бронь.
func (s *ReservationService) AdminDelete(ctx context.Context, id int) error {
	return s.repo.DeleteReservation(ctx, id)
}
