package models

import "time"

// Статусы подписки.
const (
	SubscriptionStatusActive        = "active"
	SubscriptionStatusCancelled     = "cancelled"
	SubscriptionStatusExpired       = "expired"
	SubscriptionStatusPaymentFailed = "payment_failed"
)

// SubscriptionAmount месячная стоимость премиум-подписки в минимальных
// единицах валюты. Используется как значение по умолчанию, когда платёжный
// провайдер не сообщил сумму.
const SubscriptionAmount = 300

// Subscription представляет запись о премиум-подписке пользователя.
// На одного пользователя приходится не более одной записи (уникальный
// ключ по user_uid), запись обновляется при повторной оплате.
type Subscription struct {
	ID                     int       // Идентификатор записи
	UserUID                string    // Владелец подписки
	ProviderCustomerID     string    // Идентификатор клиента у платёжного провайдера
	ProviderSubscriptionID string    // Идентификатор подписки у платёжного провайдера
	Status                 string    // active, cancelled, expired или payment_failed
	CurrentPeriodStart     time.Time // Начало текущего оплаченного периода
	CurrentPeriodEnd       time.Time // Конец текущего оплаченного периода
	Amount                 int       // Месячная стоимость
	CreatedAt              time.Time // Дата создания
	UpdatedAt              time.Time // Дата обновления
}

// IsActive сообщает, даёт ли подписка доступ прямо сейчас.
// Подписка активна, пока статус active и оплаченный период не истёк.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.CurrentPeriodEnd.After(now)
}

// Статусы платежей.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

// PaymentHistory представляет запись журнала платежей.
// Журнал только пополняется, записи не изменяются и не удаляются.
type PaymentHistory struct {
	ID                int       // Идентификатор записи
	SubscriptionID    int       // Подписка, к которой относится платёж
	ProviderPaymentID string    // Идентификатор платежа у провайдера
	Amount            int       // Сумма платежа
	Status            string    // pending, succeeded, failed или cancelled
	PaymentDate       time.Time // Дата платежа
	CreatedAt         time.Time // Дата создания записи
}

// CompleteCheckoutRequest используется для приёма идентификатора
// платёжной сессии после возврата с хостед-страницы провайдера.
type CompleteCheckoutRequest struct {
	SessionID string `json:"session_id" validate:"required"` // Идентификатор сессии оплаты
}

// UpdateCardRequest используется для приёма нового платёжного метода.
type UpdateCardRequest struct {
	PaymentMethodID string `json:"payment_method_id" validate:"required"` // Идентификатор платёжного метода
}

// SubscriptionDetail агрегирует данные для страницы подписки:
// локальную запись после сверки с провайдером и платёжные методы.
type SubscriptionDetail struct {
	Subscription   *Subscription    // Запись подписки после сверки
	PaymentMethods []PaymentMethod  // Платёжные методы клиента
	History        []PaymentHistory // Журнал платежей
}

// PaymentMethod описывает сохранённый платёжный метод клиента
// в том виде, в котором его сообщает провайдер.
type PaymentMethod struct {
	ID        string `json:"id"`         // Идентификатор метода
	Brand     string `json:"brand"`      // Платёжная система карты
	LastFour  string `json:"last_four"`  // Последние четыре цифры
	ExpMonth  int    `json:"exp_month"`  // Месяц окончания действия
	ExpYear   int    `json:"exp_year"`   // Год окончания действия
	IsDefault bool   `json:"is_default"` // Является ли методом по умолчанию
}
