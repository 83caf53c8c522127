package repository

import (
	"context"
	"fmt"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// CreateVerificationToken сохраняет новый токен подтверждения почты.
func (s *Storage) CreateVerificationToken(ctx context.Context, token models.EmailVerificationToken) error {
	const op = "storage.CreateVerificationToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO email_verification_tokens (token, user_uid) VALUES ($1, $2)`
	if _, err := s.DB.ExecContext(ctx, query, token.Token, token.UserUID); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// GetVerificationToken возвращает токен подтверждения почты по значению.
func (s *Storage) GetVerificationToken(ctx context.Context, token string) (*models.EmailVerificationToken, error) {
	const op = "storage.GetVerificationToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT token, user_uid, created_at, is_used
			  FROM email_verification_tokens WHERE token = $1`
	t := &models.EmailVerificationToken{}
	err := s.DB.QueryRowContext(ctx, query, token).
		Scan(&t.Token, &t.UserUID, &t.CreatedAt, &t.IsUsed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return t, nil
}

// ConsumeVerificationToken гасит токен ровно один раз: строка обновляется
// только если токен ещё не был использован.
func (s *Storage) ConsumeVerificationToken(ctx context.Context, token string) error {
	const op = "storage.ConsumeVerificationToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE email_verification_tokens SET is_used = TRUE
			  WHERE token = $1 AND is_used = FALSE`
	result, err := s.DB.ExecContext(ctx, query, token)
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

// InvalidateVerificationTokens гасит все непогашенные токены пользователя.
// Вызывается перед выпуском нового токена при повторной отправке письма.
func (s *Storage) InvalidateVerificationTokens(ctx context.Context, userUID string) error {
	const op = "storage.InvalidateVerificationTokens"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE email_verification_tokens SET is_used = TRUE
			  WHERE user_uid = $1 AND is_used = FALSE`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
