// Package services содержит фоновую сверку подписок: перевод подписок
// с истёкшим оплаченным периодом в expired и снятие флага is_premium.
// Сверка заменяет вебхуки провайдера и работает по таймеру.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
)

// SubscriptionRepository определяет методы хранилища, нужные сверке.
type SubscriptionRepository interface {
	// ExpireLapsedSubscriptions переводит просроченные подписки в expired
	// и возвращает число затронутых пользователей.
	ExpireLapsedSubscriptions(ctx context.Context) (int, error)
}

// ReconcilerService периодически запускает сверку подписок.
type ReconcilerService struct {
	repo     SubscriptionRepository
	interval time.Duration
	log      *slog.Logger
}

// NewReconcilerService создает новый экземпляр ReconcilerService.
func NewReconcilerService(repo SubscriptionRepository, interval time.Duration, log *slog.Logger) *ReconcilerService {
	return &ReconcilerService{
		repo:     repo,
		interval: interval,
		log:      log,
	}
}

// Run выполняет сверку сразу при старте и далее по таймеру,
// пока контекст не отменён.
func (s *ReconcilerService) Run(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Sweep выполняет один проход сверки.
func (s *ReconcilerService) Sweep(ctx context.Context) {
	count, err := s.repo.ExpireLapsedSubscriptions(ctx)
	if err != nil {
		s.log.Error("subscription sweep failed", sl.Err(err))
		return
	}
	if count > 0 {
		s.log.Info("lapsed subscriptions expired", slog.Int("count", count))
	}
}
