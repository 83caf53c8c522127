package paymentprovider

import "time"

// Запрос на создание сессии оплаты (hosted checkout).
type CreateCheckoutSessionRequest struct {
	PriceID       string            `json:"price_id"`
	Mode          string            `json:"mode"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Ответ провайдера с адресом платёжной страницы.
type CheckoutSession struct {
	ID             string `json:"id"`
	URL            string `json:"url"`
	Status         string `json:"status"`
	PaymentStatus  string `json:"payment_status"`
	CustomerID     string `json:"customer"`
	SubscriptionID string `json:"subscription"`
	AmountTotal    int    `json:"amount_total"`
	Currency       string `json:"currency"`
}

// Подписка на стороне провайдера.
type ProviderSubscription struct {
	ID                   string    `json:"id"`
	Status               string    `json:"status"`
	CustomerID           string    `json:"customer"`
	CurrentPeriodStart   time.Time `json:"current_period_start"`
	CurrentPeriodEnd     time.Time `json:"current_period_end"`
	CancelAtPeriodEnd    bool      `json:"cancel_at_period_end"`
	DefaultPaymentMethod string    `json:"default_payment_method"`
}

type ModifySubscriptionRequest struct {
	CancelAtPeriodEnd    *bool  `json:"cancel_at_period_end,omitempty"`
	DefaultPaymentMethod string `json:"default_payment_method,omitempty"`
}

// Сохранённый способ оплаты (карта).
type PaymentMethod struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Card Card   `json:"card"`
}

// Card описывает данные карты платёжного метода.
type Card struct {
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
}

type paymentMethodList struct {
	Data []PaymentMethod `json:"data"`
}

type attachPaymentMethodRequest struct {
	Customer string `json:"customer"`
}

type invoiceSettings struct {
	DefaultPaymentMethod string `json:"default_payment_method"`
}

type updateCustomerRequest struct {
	InvoiceSettings invoiceSettings `json:"invoice_settings"`
}
