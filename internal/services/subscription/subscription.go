// Package services содержит бизнес-логику премиум-подписки: создание
// сессии оплаты, фиксацию результата после возврата с платёжной страницы,
// pull-сверку с провайдером и управление платёжными методами.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	"github.com/nagoyameshi/nagoyameshi-api/internal/paymentprovider"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// Ошибки уровня бизнес-логики подписки.
var (
	ErrAlreadyPremium     = errors.New("user already has an active subscription")
	ErrNotPremium         = errors.New("user has no active subscription")
	ErrNoSubscription     = errors.New("subscription not found")
	ErrCheckoutIncomplete = errors.New("checkout session is not completed")
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// UpsertCheckoutResult применяет результат оплаты одной транзакцией.
	UpsertCheckoutResult(ctx context.Context, sub models.Subscription, payment models.PaymentHistory) (int, error)
	// GetSubscriptionByUser возвращает подписку пользователя.
	GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error)
	// SyncSubscription перезаписывает локальную копию данными провайдера.
	SyncSubscription(ctx context.Context, id int, status string, currentPeriodEnd time.Time) error
	// UpdateSubscriptionStatus выставляет статус подписки пользователя.
	UpdateSubscriptionStatus(ctx context.Context, userUID, status string) error
	// ListPaymentHistory возвращает журнал платежей подписки.
	ListPaymentHistory(ctx context.Context, subscriptionID int) ([]models.PaymentHistory, error)
	// GetUser возвращает пользователя по uid.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// ProviderClient описывает используемую часть клиента платёжного провайдера.
type ProviderClient interface {
	CreateCheckoutSession(ctx context.Context, customerEmail, successURL, cancelURL string, metadata map[string]string) (*paymentprovider.CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*paymentprovider.CheckoutSession, error)
	RetrieveSubscription(ctx context.Context, subscriptionID string) (*paymentprovider.ProviderSubscription, error)
	ModifySubscription(ctx context.Context, subscriptionID string, req paymentprovider.ModifySubscriptionRequest) (*paymentprovider.ProviderSubscription, error)
	ListPaymentMethods(ctx context.Context, customerID string) ([]paymentprovider.PaymentMethod, error)
	AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error
	SetCustomerDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	SetDefaultPaymentMethod(ctx context.Context, subscriptionID, paymentMethodID string) error
}

// SubscriptionService реализует жизненный цикл премиум-подписки.
// Вебхуков нет: состояние сверяется с провайдером при просмотре подписки
// и фоновой задачей, переводящей просроченные подписки в expired.
type SubscriptionService struct {
	repo       SubscriptionRepository
	provider   ProviderClient
	successURL string
	cancelURL  string
	log        *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, provider ProviderClient,
	successURL, cancelURL string, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:       repo,
		provider:   provider,
		successURL: successURL,
		cancelURL:  cancelURL,
		log:        log,
	}
}

// InitiateCheckout создаёт сессию оплаты и возвращает адрес платёжной
// страницы. Пользователю с действующей подпиской новая сессия не выдаётся.
func (s *SubscriptionService) InitiateCheckout(ctx context.Context, userUID string) (string, error) {
	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}
	if sub != nil && sub.IsActive(time.Now().UTC()) {
		return "", ErrAlreadyPremium
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return "", err
	}
	session, err := s.provider.CreateCheckoutSession(ctx, user.Email, s.successURL, s.cancelURL,
		map[string]string{"user_uid": userUID})
	if err != nil {
		return "", err
	}
	s.log.Info("checkout session created",
		slog.String("user_uid", userUID), slog.String("session_id", session.ID))
	return session.URL, nil
}

// CompleteCheckout подтверждает оплату после возврата с платёжной страницы:
// читает сессию у провайдера и одной транзакцией создаёт либо обновляет
// подписку, поднимает is_premium и пишет запись в журнал платежей.
// Повторный вызов с тем же session_id безопасен.
func (s *SubscriptionService) CompleteCheckout(ctx context.Context, userUID, sessionID string) (*models.Subscription, error) {
	session, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.PaymentStatus != "paid" {
		return nil, ErrCheckoutIncomplete
	}

	now := time.Now().UTC()
	periodStart := now
	periodEnd := now.AddDate(0, 1, 0)
	status := models.SubscriptionStatusActive
	if session.SubscriptionID != "" {
		providerSub, err := s.provider.RetrieveSubscription(ctx, session.SubscriptionID)
		if err != nil {
			// Сессия оплачена, пользуемся расчётным периодом,
			// сверка подтянет точные данные позже.
			s.log.Warn("failed to retrieve provider subscription", sl.Err(err))
		} else {
			if !providerSub.CurrentPeriodStart.IsZero() {
				periodStart = providerSub.CurrentPeriodStart
			}
			if !providerSub.CurrentPeriodEnd.IsZero() {
				periodEnd = providerSub.CurrentPeriodEnd
			}
		}
	}

	amount := session.AmountTotal
	if amount == 0 {
		amount = models.SubscriptionAmount
	}
	sub := models.Subscription{
		UserUID:                userUID,
		ProviderCustomerID:     session.CustomerID,
		ProviderSubscriptionID: session.SubscriptionID,
		Status:                 status,
		CurrentPeriodStart:     periodStart,
		CurrentPeriodEnd:       periodEnd,
		Amount:                 amount,
	}
	payment := models.PaymentHistory{
		ProviderPaymentID: session.ID,
		Amount:            amount,
		Status:            models.PaymentStatusSucceeded,
		PaymentDate:       now,
	}
	id, err := s.repo.UpsertCheckoutResult(ctx, sub, payment)
	if err != nil {
		return nil, err
	}
	sub.ID = id
	s.log.Info("checkout completed", slog.String("user_uid", userUID), slog.Int("subscription_id", id))
	return &sub, nil
}

// Detail возвращает страницу подписки. Перед ответом локальная копия
// сверяется с провайдером; недоступность провайдера не мешает показать
// локальные данные.
func (s *SubscriptionService) Detail(ctx context.Context, userUID string) (*models.SubscriptionDetail, error) {
	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, err
	}

	var defaultMethodID string
	if sub.ProviderSubscriptionID != "" {
		providerSub, err := s.provider.RetrieveSubscription(ctx, sub.ProviderSubscriptionID)
		if err != nil {
			s.log.Warn("subscription sync skipped", sl.Err(err))
		} else {
			defaultMethodID = providerSub.DefaultPaymentMethod
			status := mapProviderStatus(providerSub)
			if status != sub.Status || !providerSub.CurrentPeriodEnd.Equal(sub.CurrentPeriodEnd) {
				if err := s.repo.SyncSubscription(ctx, sub.ID, status, providerSub.CurrentPeriodEnd); err != nil {
					return nil, err
				}
				sub.Status = status
				sub.CurrentPeriodEnd = providerSub.CurrentPeriodEnd
			}
		}
	}

	detail := &models.SubscriptionDetail{Subscription: sub}
	if sub.ProviderCustomerID != "" {
		methods, err := s.provider.ListPaymentMethods(ctx, sub.ProviderCustomerID)
		if err != nil {
			s.log.Warn("failed to list payment methods", sl.Err(err))
		} else {
			detail.PaymentMethods = convertPaymentMethods(methods, defaultMethodID)
		}
	}
	history, err := s.repo.ListPaymentHistory(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	detail.History = history
	return detail, nil
}

// Cancel запрашивает у провайдера отмену в конце оплаченного периода.
// Доступ по подписке сохраняется до конца периода, после чего фоновая
// сверка переведёт её в expired.
func (s *SubscriptionService) Cancel(ctx context.Context, userUID string) error {
	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoSubscription
		}
		return err
	}
	if !sub.IsActive(time.Now().UTC()) {
		return ErrNotPremium
	}

	cancelAtPeriodEnd := true
	if _, err := s.provider.ModifySubscription(ctx, sub.ProviderSubscriptionID,
		paymentprovider.ModifySubscriptionRequest{CancelAtPeriodEnd: &cancelAtPeriodEnd}); err != nil {
		return err
	}
	if err := s.repo.UpdateSubscriptionStatus(ctx, userUID, models.SubscriptionStatusCancelled); err != nil {
		return err
	}
	s.log.Info("subscription cancelled at period end", slog.String("user_uid", userUID))
	return nil
}

// UpdateCard привязывает новый платёжный метод к покупателю и делает его
// основным и для покупателя, и для подписки.
func (s *SubscriptionService) UpdateCard(ctx context.Context, userUID string, req models.UpdateCardRequest) error {
	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoSubscription
		}
		return err
	}
	if !sub.IsActive(time.Now().UTC()) {
		return ErrNotPremium
	}
	if sub.ProviderCustomerID == "" || sub.ProviderSubscriptionID == "" {
		return fmt.Errorf("subscription %d has no provider references", sub.ID)
	}

	if err := s.provider.AttachPaymentMethod(ctx, req.PaymentMethodID, sub.ProviderCustomerID); err != nil {
		return err
	}
	if err := s.provider.SetCustomerDefaultPaymentMethod(ctx, sub.ProviderCustomerID, req.PaymentMethodID); err != nil {
		return err
	}
	if err := s.provider.SetDefaultPaymentMethod(ctx, sub.ProviderSubscriptionID, req.PaymentMethodID); err != nil {
		return err
	}
	s.log.Info("payment method updated", slog.String("user_uid", userUID))
	return nil
}

// mapProviderStatus переводит статус провайдера в локальный словарь статусов.
func mapProviderStatus(sub *paymentprovider.ProviderSubscription) string {
	switch {
	case sub.CancelAtPeriodEnd && sub.Status == "active":
		return models.SubscriptionStatusCancelled
	case sub.Status == "active":
		return models.SubscriptionStatusActive
	case sub.Status == "past_due" || sub.Status == "unpaid":
		return models.SubscriptionStatusPaymentFailed
	default:
		return models.SubscriptionStatusExpired
	}
}

func convertPaymentMethods(methods []paymentprovider.PaymentMethod, defaultID string) []models.PaymentMethod {
	result := make([]models.PaymentMethod, 0, len(methods))
	for _, m := range methods {
		result = append(result, models.PaymentMethod{
			ID:        m.ID,
			Brand:     m.Card.Brand,
			LastFour:  m.Card.Last4,
			ExpMonth:  m.Card.ExpMonth,
			ExpYear:   m.Card.ExpYear,
			IsDefault: m.ID == defaultID,
		})
	}
	return result
}
