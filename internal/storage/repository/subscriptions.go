package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// UpsertCheckoutResult применяет результат успешной оплаты одной транзакцией:
// создаёт либо обновляет подписку пользователя (ключ user_uid), поднимает
// флаг is_premium и добавляет запись в журнал платежей. Частично применённое
// состояние исключено: при любой ошибке транзакция откатывается.
func (s *Storage) UpsertCheckoutResult(ctx context.Context, sub models.Subscription, payment models.PaymentHistory) (int, error) {
	const op = "storage.UpsertCheckoutResult"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var subscriptionID int
	query := `INSERT INTO subscriptions (user_uid, provider_customer_id, provider_subscription_id,
			      status, current_period_start, current_period_end, amount)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET provider_customer_id = EXCLUDED.provider_customer_id,
			      provider_subscription_id = EXCLUDED.provider_subscription_id,
			      status = EXCLUDED.status,
			      current_period_start = EXCLUDED.current_period_start,
			      current_period_end = EXCLUDED.current_period_end,
			      amount = EXCLUDED.amount,
			      updated_at = now()
			  RETURNING id`
	if err = tx.QueryRowContext(ctx, query,
		sub.UserUID, sub.ProviderCustomerID, sub.ProviderSubscriptionID,
		sub.Status, sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.Amount).Scan(&subscriptionID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET is_premium = TRUE, updated_at = now() WHERE uid = $1`, sub.UserUID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO payment_history (subscription_id, provider_payment_id, amount, status, payment_date)
		 VALUES ($1, $2, $3, $4, $5)`,
		subscriptionID, payment.ProviderPaymentID, payment.Amount, payment.Status, payment.PaymentDate); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return subscriptionID, nil
}

const subscriptionColumns = `id, user_uid, provider_customer_id, provider_subscription_id,
			      status, current_period_start, current_period_end, amount, created_at, updated_at`

// GetSubscriptionByUser возвращает подписку пользователя.
func (s *Storage) GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_uid = $1`
	sub := &models.Subscription{}
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&sub.ID, &sub.UserUID, &sub.ProviderCustomerID, &sub.ProviderSubscriptionID,
		&sub.Status, &sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.Amount,
		&sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return sub, nil
}

// SyncSubscription перезаписывает статус и конец периода локальной копии
// данными провайдера. Вызывается pull-сверкой на просмотре подписки.
func (s *Storage) SyncSubscription(ctx context.Context, id int, status string, currentPeriodEnd time.Time) error {
	const op = "storage.SyncSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions SET status = $1, current_period_end = $2, updated_at = now()
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, status, currentPeriodEnd, id)
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

// UpdateSubscriptionStatus выставляет статус подписки пользователя.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, userUID, status string) error {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions SET status = $1, updated_at = now() WHERE user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, status, userUID)
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

// ListPaymentHistory возвращает журнал платежей подписки, новые записи первыми.
func (s *Storage) ListPaymentHistory(ctx context.Context, subscriptionID int) ([]models.PaymentHistory, error) {
	const op = "storage.ListPaymentHistory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_id, provider_payment_id, amount, status, payment_date, created_at
			  FROM payment_history
			  WHERE subscription_id = $1
			  ORDER BY payment_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []models.PaymentHistory
	for rows.Next() {
		var item models.PaymentHistory
		if err := rows.Scan(&item.ID, &item.SubscriptionID, &item.ProviderPaymentID,
			&item.Amount, &item.Status, &item.PaymentDate, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ExpireLapsedSubscriptions переводит в expired подписки с истёкшим
// оплаченным периодом и снимает флаг is_premium у их владельцев.
// Выполняется одной транзакцией, возвращает число затронутых пользователей.
func (s *Storage) ExpireLapsedSubscriptions(ctx context.Context) (int, error) {
	const op = "storage.ExpireLapsedSubscriptions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `UPDATE subscriptions SET status = 'expired', updated_at = now()
			  WHERE status IN ('active', 'cancelled') AND current_period_end <= now()
			  RETURNING user_uid`
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	var userUIDs []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		userUIDs = append(userUIDs, uid)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err = rows.Close(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, uid := range userUIDs {
		if _, err = tx.ExecContext(ctx,
			`UPDATE users SET is_premium = FALSE, updated_at = now() WHERE uid = $1`, uid); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(userUIDs), nil
}
