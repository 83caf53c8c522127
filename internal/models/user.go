// Package models содержит доменные структуры сервиса NAGOYAMESHI:
// пользователей, подписки, рестораны, брони, отзывы и избранное,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"  // Обычный пользователь
	RoleAdmin = "admin" // Администратор
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID           string    // Уникальный идентификатор пользователя
	Email         string    // Электронная почта, используется как логин
	PasswordHash  string    // Хэш пароля пользователя
	Role          string    // Роль пользователя, admin или user
	Furigana      string    // Фуригана имени (профиль)
	PostalCode    string    // Почтовый индекс
	Address       string    // Адрес
	PhoneNumber   string    // Телефон
	IsPremium     bool      // Флаг платной подписки
	EmailVerified bool      // Подтверждена ли электронная почта
	CreatedAt     time.Time // Дата создания
	UpdatedAt     time.Time // Дата обновления
}

// RegisterRequest используется для приёма данных регистрации из JSON-запроса.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`    // Электронная почта
	Password    string `json:"password" validate:"required,min=8"` // Пароль (не короче 8 символов)
	Furigana    string `json:"furigana" validate:"omitempty,max=100"`
	PostalCode  string `json:"postal_code" validate:"omitempty,len=8"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=15"`
}

// LoginRequest используется для приёма данных входа.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest используется для обновления профиля пользователя.
type ProfileUpdateRequest struct {
	Furigana    string `json:"furigana" validate:"omitempty,max=100"`
	PostalCode  string `json:"postal_code" validate:"omitempty,len=8"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=15"`
}

// PremiumOverrideRequest используется для административного
// переопределения флага платной подписки.
type PremiumOverrideRequest struct {
	IsPremium bool `json:"is_premium"`
}

// EmailVerificationToken представляет одноразовый токен подтверждения почты.
// Токен действителен 24 часа с момента выпуска и гасится ровно один раз,
// физически записи не удаляются.
type EmailVerificationToken struct {
	Token     string    // Значение токена (uuid)
	UserUID   string    // Владелец токена
	CreatedAt time.Time // Дата выпуска
	IsUsed    bool      // Был ли токен погашен
}

// VerificationTokenTTL срок действия токена подтверждения почты.
const VerificationTokenTTL = 24 * time.Hour

// IsExpired сообщает, истёк ли срок действия токена.
func (t *EmailVerificationToken) IsExpired(now time.Time) bool {
	return now.Sub(t.CreatedAt) > VerificationTokenTTL
}

// VerificationEmail сообщение для очереди отправки писем подтверждения.
type VerificationEmail struct {
	Email string `json:"email"` // Адрес получателя
	Token string `json:"token"` // Значение токена подтверждения
}
