package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateReservation(ctx context.Context, r models.Reservation) (int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadReservation(ctx context.Context, id int) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}
func (m *RepoMock) ListReservationsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Reservation, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *RepoMock) ListAllReservations(ctx context.Context, limit, offset int) ([]*models.Reservation, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *RepoMock) UpdateReservationStatus(ctx context.Context, id int, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *RepoMock) DeleteReservation(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) ReadRestaurant(ctx context.Context, id int) (*models.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Restaurant), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// Фиксированный момент времени для всех проверок: 1 июня 2026, 11:00 UTC.
var frozenNow = time.Date(2026, 6, 1, 11, 0, 0, 0, time.UTC)

func activeRestaurant() *models.Restaurant {
	return &models.Restaurant{ID: 5, Name: "Мисо-кацу Ядзима", IsActive: true}
}

func TestReservationService_Create(t *testing.T) {
	validReq := models.ReservationRequest{
		ReservationDate: "2026-06-10",
		ReservationTime: "18:30",
		PartySize:       4,
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		req        models.ReservationRequest
		wantErr    error
		wantField  string
	}{
		{
			name: "success create",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(activeRestaurant(), nil).Once()
				r.On("CreateReservation", mock.Anything, mock.MatchedBy(func(res models.Reservation) bool {
					return res.Status == models.ReservationStatusPending &&
						res.RestaurantID == 5 &&
						res.PartySize == 4
				})).Return(42, nil).Once()
			},
			req: validReq,
		},
		{
			name: "restaurant not found",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(nil, repository.ErrNotFound).Once()
			},
			req:     validReq,
			wantErr: ErrRestaurantNotFound,
		},
		{
			name: "hidden restaurant behaves as missing",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).
					Return(&models.Restaurant{ID: 5, IsActive: false}, nil).Once()
			},
			req:     validReq,
			wantErr: ErrRestaurantNotFound,
		},
		{
			name: "date in the past",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(activeRestaurant(), nil).Once()
			},
			req: models.ReservationRequest{
				ReservationDate: "2026-05-31", ReservationTime: "18:30", PartySize: 2,
			},
			wantField: "reservation_date",
		},
		{
			name: "date beyond ninety days",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(activeRestaurant(), nil).Once()
			},
			req: models.ReservationRequest{
				ReservationDate: "2026-09-01", ReservationTime: "18:30", PartySize: 2,
			},
			wantField: "reservation_date",
		},
		{
			name: "time before opening",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(activeRestaurant(), nil).Once()
			},
			req: models.ReservationRequest{
				ReservationDate: "2026-06-10", ReservationTime: "10:30", PartySize: 2,
			},
			wantField: "reservation_time",
		},
		{
			name: "time past closing",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(activeRestaurant(), nil).Once()
			},
			req: models.ReservationRequest{
				ReservationDate: "2026-06-10", ReservationTime: "22:30", PartySize: 2,
			},
			wantField: "reservation_time",
		},
		{
			name: "exactly at closing is allowed",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(activeRestaurant(), nil).Once()
				r.On("CreateReservation", mock.Anything, mock.Anything).Return(43, nil).Once()
			},
			req: models.ReservationRequest{
				ReservationDate: "2026-06-10", ReservationTime: "22:00", PartySize: 2,
			},
		},
		{
			name: "less than an hour before visit",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(activeRestaurant(), nil).Once()
			},
			req: models.ReservationRequest{
				// Сейчас 11:00, визит сегодня в 11:30 разрешён не раньше чем через час.
				ReservationDate: "2026-06-01", ReservationTime: "11:30", PartySize: 2,
			},
			wantField: "reservation_time",
		},
		{
			name: "exactly one hour lead is allowed",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(activeRestaurant(), nil).Once()
				r.On("CreateReservation", mock.Anything, mock.Anything).Return(44, nil).Once()
			},
			req: models.ReservationRequest{
				ReservationDate: "2026-06-01", ReservationTime: "12:00", PartySize: 2,
			},
		},
		{
			name: "party too large",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(activeRestaurant(), nil).Once()
			},
			req: models.ReservationRequest{
				ReservationDate: "2026-06-10", ReservationTime: "18:30", PartySize: 11,
			},
			wantField: "party_size",
		},
		{
			name: "slot already taken",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(activeRestaurant(), nil).Once()
				r.On("CreateReservation", mock.Anything, mock.Anything).
					Return(0, repository.ErrAlreadyExists).Once()
			},
			req:     validReq,
			wantErr: ErrReservationTaken,
		},
		{
			name: "bad date format",
			setupMocks: func(r *RepoMock) {
				r.On("ReadRestaurant", mock.Anything, 5).Return(activeRestaurant(), nil).Once()
			},
			req: models.ReservationRequest{
				ReservationDate: "10.06.2026", ReservationTime: "18:30", PartySize: 2,
			},
			wantField: "reservation_date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewReservationService(repo, newNoopLogger())
			svc.now = func() time.Time { return frozenNow }

			tt.setupMocks(repo)

			got, err := svc.Create(context.Background(), "user-1", 5, tt.req)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantField != "":
				var fieldErr *FieldError
				assert.ErrorAs(t, err, &fieldErr)
				assert.Equal(t, tt.wantField, fieldErr.Field)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, got)
				assert.Equal(t, models.ReservationStatusPending, got.Status)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestReservationService_Cancel(t *testing.T) {
	tests := []struct {
		name        string
		userUID     string
		reservation *models.Reservation
		wantErr     error
	}{
		{
			name:    "success cancel",
			userUID: "user-1",
			reservation: &models.Reservation{
				ID: 1, UserUID: "user-1", Status: models.ReservationStatusConfirmed,
				ReservationDate: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:    "not owner",
			userUID: "user-2",
			reservation: &models.Reservation{
				ID: 1, UserUID: "user-1", Status: models.ReservationStatusPending,
				ReservationDate: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
			},
			wantErr: ErrNotOwner,
		},
		{
			name:    "already completed",
			userUID: "user-1",
			reservation: &models.Reservation{
				ID: 1, UserUID: "user-1", Status: models.ReservationStatusCompleted,
				ReservationDate: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
			},
			wantErr: ErrNotCancellable,
		},
		{
			name:    "cancel window passed",
			userUID: "user-1",
			reservation: &models.Reservation{
				ID: 1, UserUID: "user-1", Status: models.ReservationStatusConfirmed,
				// Визит сегодня, дедлайн отмены был вчера.
				ReservationDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			},
			wantErr: ErrNotCancellable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewReservationService(repo, newNoopLogger())
			svc.now = func() time.Time { return frozenNow }

			repo.On("ReadReservation", mock.Anything, 1).Return(tt.reservation, nil).Once()
			if tt.wantErr == nil {
				repo.On("UpdateReservationStatus", mock.Anything, 1, models.ReservationStatusCancelled).
					Return(nil).Once()
			}

			err := svc.Cancel(context.Background(), tt.userUID, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestReservationService_CancelReadError(t *testing.T) {
	repo := new(RepoMock)
	svc := NewReservationService(repo, newNoopLogger())

	repo.On("ReadReservation", mock.Anything, 7).Return(nil, errors.New("db down")).Once()

	err := svc.Cancel(context.Background(), "user-1", 7)
	assert.Error(t, err)
	repo.AssertExpectations(t)
}
