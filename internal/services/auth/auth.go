// Package services содержит логику бизнес-уровня для работы с пользователями,
// регистрацией, подтверждением почты и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/jwt"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/password"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/rabbitmq"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// Ошибки уровня бизнес-логики аутентификации.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email is not verified")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrTokenInvalid       = errors.New("verification token is invalid")
	ErrTokenExpired       = errors.New("verification token has expired")
	ErrSelfDelete         = errors.New("cannot delete own account via admin endpoint")
	ErrSelfUpdate         = errors.New("cannot change own account via admin endpoint")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его uid.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по почте или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по uid.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ListUsers возвращает список пользователей с пагинацией.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	// UpdateUserProfile обновляет поля профиля.
	UpdateUserProfile(ctx context.Context, userUID string, req models.ProfileUpdateRequest) error
	// SetEmailVerified помечает почту пользователя как подтверждённую.
	SetEmailVerified(ctx context.Context, userUID string) error
	// SetUserPremium переключает флаг платной подписки.
	SetUserPremium(ctx context.Context, userUID string, isPremium bool) error
	// DeleteUser удаляет пользователя и связанные с ним записи.
	DeleteUser(ctx context.Context, userUID string) error
}

// TokenRepository описывает контракт для работы с токенами подтверждения почты.
type TokenRepository interface {
	CreateVerificationToken(ctx context.Context, token models.EmailVerificationToken) error
	GetVerificationToken(ctx context.Context, token string) (*models.EmailVerificationToken, error)
	ConsumeVerificationToken(ctx context.Context, token string) error
	InvalidateVerificationTokens(ctx context.Context, userUID string) error
}

// AuthService отвечает за регистрацию, подтверждение почты, авторизацию
// и административные операции над аккаунтами.
type AuthService struct {
	users    UserRepository
	tokens   TokenRepository
	jwtMaker jwt.Maker
	amqpCh   *amqp.Channel
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, tokens TokenRepository, jwtMaker jwt.Maker,
	amqpCh *amqp.Channel, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		jwtMaker: jwtMaker,
		amqpCh:   amqpCh,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью user. Почта при регистрации не подтверждена; пользователю
// выпускается токен подтверждения, письмо уходит через очередь.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		Furigana:     req.Furigana,
		PostalCode:   req.PostalCode,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return "", ErrEmailTaken
		}
		return "", err
	}
	if err := s.issueVerification(ctx, uid, req.Email); err != nil {
		// Регистрация уже состоялась, письмо можно запросить повторно.
		s.log.Error("failed to issue verification token", sl.Err(err))
	}
	return uid, nil
}

// VerifyEmail гасит токен подтверждения и помечает почту подтверждённой.
// Токен одноразовый и действителен в течение суток с момента выпуска.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	record, err := s.tokens.GetVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenInvalid
		}
		return err
	}
	if record.IsUsed {
		return ErrTokenInvalid
	}
	if record.IsExpired(time.Now().UTC()) {
		return ErrTokenExpired
	}
	if err := s.tokens.ConsumeVerificationToken(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenInvalid
		}
		return err
	}
	return s.users.SetEmailVerified(ctx, record.UserUID)
}

// ResendVerification выпускает новый токен подтверждения, гася прежние.
// Для уже подтверждённой почты ничего не делает.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Не раскрываем, зарегистрирована ли почта.
			return nil
		}
		return err
	}
	if user.EmailVerified {
		return nil
	}
	if err := s.tokens.InvalidateVerificationTokens(ctx, user.UID); err != nil {
		return err
	}
	return s.issueVerification(ctx, user.UID, user.Email)
}

// Login проверяет пароль пользователя и генерирует JWT.
// Вход с неподтверждённой почтой запрещён.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (token string, user *models.User, err error) {
	user, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return "", nil, ErrEmailNotVerified
	}
	token, err = s.jwtMaker.GenerateToken(user.UID, user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Profile возвращает данные пользователя по uid.
func (s *AuthService) Profile(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}

// UpdateProfile обновляет поля профиля пользователя.
func (s *AuthService) UpdateProfile(ctx context.Context, userUID string, req models.ProfileUpdateRequest) error {
	return s.users.UpdateUserProfile(ctx, userUID, req)
}

// DeleteAccount удаляет аккаунт пользователя вместе с бронями,
// отзывами и избранным (каскадом на уровне базы).
func (s *AuthService) DeleteAccount(ctx context.Context, userUID string) error {
	return s.users.DeleteUser(ctx, userUID)
}

// ListUsers возвращает список пользователей для административного раздела.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.users.ListUsers(ctx, limit, offset)
}

// AdminDeleteUser удаляет чужой аккаунт. Администратор не может удалить
// собственный аккаунт через административный раздел.
func (s *AuthService) AdminDeleteUser(ctx context.Context, actingUID, targetUID string) error {
	if actingUID == targetUID {
		return ErrSelfDelete
	}
	return s.users.DeleteUser(ctx, targetUID)
}

// AdminSetPremium переключает флаг платной подписки пользователя в обход
// провайдера. Администратор не может переключить флаг самому себе.
func (s *AuthService) AdminSetPremium(ctx context.Context, actingUID, targetUID string, isPremium bool) error {
	if actingUID == targetUID {
		return ErrSelfUpdate
	}
	if err := s.users.SetUserPremium(ctx, targetUID, isPremium); err != nil {
		return err
	}
	s.log.Info("premium flag overridden",
		slog.String("user_uid", targetUID), slog.Bool("is_premium", isPremium))
	return nil
}

func (s *AuthService) issueVerification(ctx context.Context, userUID, email string) error {
	token := models.EmailVerificationToken{
		Token:     uuid.NewString(),
		UserUID:   userUID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tokens.CreateVerificationToken(ctx, token); err != nil {
		return err
	}
	message := models.VerificationEmail{Email: email, Token: token.Token}
	if err := rabbitmq.PublishMessage(s.amqpCh, rabbitmq.MailExchange,
		rabbitmq.VerificationRoutingKey, message); err != nil {
		return fmt.Errorf("publish verification email: %w", err)
	}
	s.log.Info("verification email queued", slog.String("user_uid", userUID))
	return nil
}
