package models

import "time"

// CompanyInfo представляет сведения об операторе сервиса.
// В базе хранится единственная строка с id=1, создаваемая при первом чтении.
type CompanyInfo struct {
	CompanyName     string    // Название компании
	Address         string    // Адрес
	Phone           string    // Телефон
	Email           string    // Электронная почта
	BusinessHours   string    // Часы работы
	Established     string    // Дата основания
	Capital         string    // Уставный капитал
	Representative  string    // Руководитель
	BusinessContent string    // Виды деятельности
	UpdatedAt       time.Time // Дата обновления
}

// CompanyInfoRequest используется администратором для обновления сведений.
type CompanyInfoRequest struct {
	CompanyName     string `json:"company_name" validate:"required,max=100"`
	Address         string `json:"address" validate:"required,max=500"`
	Phone           string `json:"phone" validate:"required,max=20"`
	Email           string `json:"email" validate:"required,email"`
	BusinessHours   string `json:"business_hours" validate:"omitempty,max=50"`
	Established     string `json:"established" validate:"omitempty,max=20"`
	Capital         string `json:"capital" validate:"omitempty,max=30"`
	Representative  string `json:"representative" validate:"omitempty,max=50"`
	BusinessContent string `json:"business_content" validate:"omitempty,max=1000"`
}
