// Package paymentprovider содержит HTTP-клиент платёжного провайдера
// с hosted checkout: создание сессий оплаты, чтение статусов подписок
// и управление сохранёнными способами оплаты.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrProviderUnavailable = errors.New("payment provider unavailable")

type Client struct {
	secretKey  string
	apiURL     string
	priceID    string
	httpClient *http.Client
}

// NewClient создаёт новый клиент платёжного провайдера.
func NewClient(apiURL, secretKey, priceID string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		secretKey:  secretKey,
		apiURL:     apiURL,
		priceID:    priceID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.New("unexpected status: " + resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateCheckoutSession создаёт сессию оплаты подписки и возвращает
// адрес платёжной страницы провайдера.
func (c *Client) CreateCheckoutSession(ctx context.Context, customerEmail, successURL, cancelURL string, metadata map[string]string) (*CheckoutSession, error) {
	reqParams := CreateCheckoutSessionRequest{
		PriceID:       c.priceID,
		Mode:          "subscription",
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
		CustomerEmail: customerEmail,
		Metadata:      metadata,
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/v1/checkout/sessions", reqParams)
	if err != nil {
		return nil, err
	}
	var session CheckoutSession
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RetrieveSession возвращает сессию оплаты по её идентификатору.
func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	var session CheckoutSession
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RetrieveSubscription возвращает актуальное состояние подписки у провайдера.
func (c *Client) RetrieveSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/subscriptions/"+subscriptionID, nil)
	if err != nil {
		return nil, err
	}
	var sub ProviderSubscription
	if err := c.do(req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ModifySubscription меняет параметры подписки у провайдера.
func (c *Client) ModifySubscription(ctx context.Context, subscriptionID string, reqParams ModifySubscriptionRequest) (*ProviderSubscription, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/v1/subscriptions/"+subscriptionID, reqParams)
	if err != nil {
		return nil, err
	}
	var sub ProviderSubscription
	if err := c.do(req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListPaymentMethods возвращает сохранённые карты покупателя.
func (c *Client) ListPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/customers/"+customerID+"/payment_methods?type=card", nil)
	if err != nil {
		return nil, err
	}
	var list paymentMethodList
	if err := c.do(req, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// AttachPaymentMethod привязывает способ оплаты к покупателю.
func (c *Client) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/v1/payment_methods/"+paymentMethodID+"/attach",
		attachPaymentMethodRequest{Customer: customerID})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// SetCustomerDefaultPaymentMethod назначает способ оплаты основным для
// покупателя: с него будут проводиться последующие списания.
func (c *Client) SetCustomerDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/v1/customers/"+customerID,
		updateCustomerRequest{InvoiceSettings: invoiceSettings{DefaultPaymentMethod: paymentMethodID}})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// SetDefaultPaymentMethod назначает способ оплаты основным для подписки.
func (c *Client) SetDefaultPaymentMethod(ctx context.Context, subscriptionID, paymentMethodID string) error {
	_, err := c.ModifySubscription(ctx, subscriptionID, ModifySubscriptionRequest{
		DefaultPaymentMethod: paymentMethodID,
	})
	return err
}
