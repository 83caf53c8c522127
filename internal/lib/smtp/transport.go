package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/nagoyameshi/nagoyameshi-api/internal/config"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
)

// Transport устанавливает аутентифицированные SMTP-сессии
// по настройкам из конфигурации сервиса.
type Transport struct {
	cfg *config.Config
	log *slog.Logger
}

// NewTransport создает новый экземпляр Transport.
func NewTransport(cfg *config.Config, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, log: log}
}

type clientWrapper struct {
	client *smtp.Client
}

func (w *clientWrapper) Mail(from string) error {
	return w.client.Mail(from)
}

func (w *clientWrapper) Rcpt(to string) error {
	return w.client.Rcpt(to)
}

func (w *clientWrapper) Data() (io.WriteCloser, error) {
	return w.client.Data()
}

func (w *clientWrapper) Quit() error {
	return w.client.Quit()
}

func (w *clientWrapper) Close() error {
	return w.client.Close()
}

// Connect открывает SMTP-сессию: TCP-соединение, STARTTLS и PLAIN-аутентификация.
// Сервер без поддержки STARTTLS отвергается.
func (t *Transport) Connect() (Client, error) {
	addr := t.cfg.SMTPHost + ":" + t.cfg.SMTPPort

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.log.Error("failed to dial SMTP server", sl.Err(err))
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		t.log.Error("failed to create SMTP client", sl.Err(err))
		if closeErr := conn.Close(); closeErr != nil {
			t.log.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		t.log.Error("SMTP server does not support STARTTLS")
		t.closeClient(client)
		return nil, fmt.Errorf("smtp server does not support STARTTLS")
	}

	tlsConfig := &tls.Config{
		ServerName: t.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		t.log.Error("failed to start TLS", sl.Err(err))
		t.closeClient(client)
		return nil, fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
	if err = client.Auth(auth); err != nil {
		t.log.Error("smtp auth failed", sl.Err(err))
		t.closeClient(client)
		return nil, fmt.Errorf("smtp auth failed: %w", err)
	}

	return &clientWrapper{client: client}, nil
}

func (t *Transport) closeClient(client *smtp.Client) {
	if err := client.Close(); err != nil {
		t.log.Error("failed to close client", sl.Err(err))
	}
}

// GetSMTPUser возвращает адрес отправителя писем.
func (t *Transport) GetSMTPUser() string {
	return t.cfg.SMTPUser
}
