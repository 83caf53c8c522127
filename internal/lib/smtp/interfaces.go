// Package smtp реализует отправку писем подтверждения почты
// через внешний SMTP-сервер с обязательным STARTTLS.
package smtp

import "io"

// Client описывает SMTP-сессию. Выделен в интерфейс, чтобы сервис
// отправки писем можно было тестировать без реального сервера.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
