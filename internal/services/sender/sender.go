// Package services содержит логику отправки писем подтверждения почты,
// вычитываемых воркером из очереди сообщений.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/smtp"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// Transport описывает SMTP-транспорт для отправки писем.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// SenderService отправляет письма подтверждения почты.
type SenderService struct {
	transport     Transport
	publicBaseURL string
	log           *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport Transport, publicBaseURL string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport:     transport,
		publicBaseURL: publicBaseURL,
		log:           log,
	}
}

// SendVerificationEmail разбирает сообщение очереди и отправляет письмо
// со ссылкой подтверждения. Ссылка действительна 24 часа.
func (s *SenderService) SendVerificationEmail(body []byte) error {
	var message models.VerificationEmail
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	link := fmt.Sprintf("%s/api/v1/auth/verify?token=%s", s.publicBaseURL, message.Token)
	subject := "Подтверждение адреса электронной почты"
	bodyText := fmt.Sprintf(`Здравствуйте!

Чтобы завершить регистрацию в NAGOYAMESHI, подтвердите адрес электронной почты,
перейдя по ссылке: %s

Ссылка действительна в течение 24 часов. Если вы не регистрировались,
просто проигнорируйте это письмо.`, link)

	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("verification email sent", "to", to)
	return nil
}
