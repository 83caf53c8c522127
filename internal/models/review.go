package models

import "time"

// Review представляет отзыв пользователя о заведении.
// На пару пользователь-заведение приходится не более одного отзыва.
type Review struct {
	ID           int       // Идентификатор отзыва
	UserUID      string    // Автор
	RestaurantID int       // Заведение
	Rating       int       // Оценка от 1 до 5
	Comment      string    // Текст отзыва, до 1000 символов
	IsPublic     bool      // Видимость, переключается администратором
	CreatedAt    time.Time // Дата создания
	UpdatedAt    time.Time // Дата обновления
}

// ReviewRequest используется для приёма данных отзыва из JSON-запроса.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"` // Оценка
	Comment string `json:"comment" validate:"omitempty,max=1000"`  // Текст
}

// ReviewVisibilityRequest используется администратором для смены видимости.
type ReviewVisibilityRequest struct {
	IsPublic *bool `json:"is_public" validate:"required"`
}
