package models

import "time"

// Статусы брони. Начальный статус pending, переводы в confirmed,
// cancelled и completed выполняет администратор; пользователь может
// только отменить собственную бронь в пределах окна отмены.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
)

// Ограничения бронирования.
const (
	ReservationMaxDaysAhead = 90               // Бронь не дальше 90 дней вперёд
	ReservationMinLead      = time.Hour        // Минимум час между созданием и визитом
	ReservationOpenHour     = 11               // Начало приёма броней, 11:00
	ReservationCloseHour    = 22               // Конец приёма броней, 22:00
	ReservationMinParty     = 1                // Минимальный размер группы
	ReservationMaxParty     = 10               // Максимальный размер группы
	ReservationCancelWindow = 24 * time.Hour   // Отмена не позднее чем за день до визита
)

// Reservation представляет бронь столика.
type Reservation struct {
	ID              int       // Идентификатор брони
	UserUID         string    // Владелец брони
	RestaurantID    int       // Заведение
	ReservationDate time.Time // Дата визита (время обнулено)
	ReservationTime string    // Время визита в формате 15:04
	PartySize       int       // Размер группы, от 1 до 10
	Notes           string    // Особые пожелания
	Status          string    // pending, confirmed, cancelled или completed
	ContactPhone    string    // Контактный телефон
	CreatedAt       time.Time // Дата создания
	UpdatedAt       time.Time // Дата обновления
}

// CanCancel сообщает, доступна ли бронь для отмены владельцем:
// статус не терминальный и до даты визита остался хотя бы день.
func (r *Reservation) CanCancel(now time.Time) bool {
	if r.Status == ReservationStatusCancelled || r.Status == ReservationStatusCompleted {
		return false
	}
	deadline := r.ReservationDate.Add(-ReservationCancelWindow)
	today := now.Truncate(24 * time.Hour)
	return !today.After(deadline)
}

// ReservationRequest используется для приёма данных брони из JSON-запроса.
// Дата и время приходят строками и разбираются вручную, чтобы вернуть
// ошибку по конкретному полю.
type ReservationRequest struct {
	ReservationDate string `json:"reservation_date" validate:"required,datetime=2006-01-02"` // Дата визита
	ReservationTime string `json:"reservation_time" validate:"required,datetime=15:04"`      // Время визита
	PartySize       int    `json:"party_size" validate:"required,gte=1,lte=10"`              // Размер группы
	ContactPhone    string `json:"contact_phone" validate:"omitempty,max=15"`                // Телефон (опционально)
	Notes           string `json:"notes" validate:"omitempty,max=1000"`                      // Пожелания (опционально)
}

// ReservationStatusRequest используется администратором для смены статуса.
type ReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}
