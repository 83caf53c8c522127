package models

import "time"

// Restaurant представляет карточку заведения в каталоге.
// Поле IsActive управляет публикацией: карточки, созданные премиум-пользователями,
// остаются скрытыми до одобрения администратором.
type Restaurant struct {
	ID            int       // Идентификатор заведения
	Name          string    // Название
	Description   string    // Описание
	CategoryID    *int      // Категория кухни, nil после принудительного удаления категории
	PostalCode    string    // Почтовый индекс
	Address       string    // Адрес
	PhoneNumber   string    // Телефон
	OpeningHours  string    // Часы работы
	ClosedDays    string    // Выходные дни
	BudgetMin     int       // Нижняя граница среднего чека
	BudgetMax     int       // Верхняя граница среднего чека
	ImageURL      string    // Ссылка на основное изображение
	IsActive      bool      // Опубликована ли карточка
	AverageRating float64   // Средняя оценка по публичным отзывам
	ReviewCount   int       // Количество публичных отзывов
	CreatedAt     time.Time // Дата создания
	UpdatedAt     time.Time // Дата обновления
}

// Значения бюджета по умолчанию, когда границы не указаны.
const (
	DefaultBudgetMin = 0
	DefaultBudgetMax = 5000
)

// RestaurantRequest используется для приёма данных карточки из JSON-запроса.
type RestaurantRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
	CategoryID   *int   `json:"category_id" validate:"omitempty,gt=0"`
	PostalCode   string `json:"postal_code" validate:"omitempty,len=8"`
	Address      string `json:"address" validate:"required,max=500"`
	PhoneNumber  string `json:"phone_number" validate:"omitempty,max=15"`
	OpeningHours string `json:"opening_hours" validate:"omitempty,max=100"`
	ClosedDays   string `json:"closed_days" validate:"omitempty,max=100"`
	BudgetMin    *int   `json:"budget_min" validate:"omitempty,gte=0"`
	BudgetMax    *int   `json:"budget_max" validate:"omitempty,gte=0"`
	ImageURL     string `json:"image_url" validate:"omitempty,url"`
}

// RestaurantFilter описывает параметры поиска по каталогу.
type RestaurantFilter struct {
	Keyword    string // Подстрока в названии или описании
	CategoryID int    // Фильтр по категории, 0 — без фильтра
	BudgetMax  int    // Верхняя граница бюджета, 0 — без фильтра
	OnlyActive bool   // Показывать только опубликованные карточки
	Limit      int    // Размер страницы
	Offset     int    // Смещение
}

// Favorite представляет отметку «избранное» пользователя.
// На пару пользователь-заведение приходится не более одной записи.
type Favorite struct {
	ID           int       // Идентификатор записи
	UserUID      string    // Пользователь
	RestaurantID int       // Заведение
	CreatedAt    time.Time // Дата добавления
}

// Category представляет категорию кухни.
type Category struct {
	ID          int       // Идентификатор категории
	Name        string    // Название, уникально
	Description string    // Описание
	CreatedAt   time.Time // Дата создания
	UpdatedAt   time.Time // Дата обновления
}

// CategoryRequest используется для приёма данных категории.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
}
