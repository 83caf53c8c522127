package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ExpireLapsedSubscriptions(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestReconcilerService_Sweep(t *testing.T) {
	t.Run("sweep expires lapsed subscriptions", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewReconcilerService(repo, time.Hour, newNoopLogger())

		repo.On("ExpireLapsedSubscriptions", mock.Anything).Return(3, nil).Once()

		svc.Sweep(context.Background())
		repo.AssertExpectations(t)
	})

	t.Run("sweep error does not panic", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewReconcilerService(repo, time.Hour, newNoopLogger())

		repo.On("ExpireLapsedSubscriptions", mock.Anything).
			Return(0, errors.New("db down")).Once()

		svc.Sweep(context.Background())
		repo.AssertExpectations(t)
	})
}

func TestReconcilerService_RunStopsOnContextCancel(t *testing.T) {
	repo := new(RepoMock)
	svc := NewReconcilerService(repo, 10*time.Millisecond, newNoopLogger())

	repo.On("ExpireLapsedSubscriptions", mock.Anything).Return(0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop after context cancellation")
	}
	repo.AssertExpectations(t)
}
