package services

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/smtp"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// TransportMock реализует интерфейс Transport
type TransportMock struct {
	mock.Mock
}

func (m *TransportMock) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *TransportMock) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

// ClientMock реализует интерфейс smtp.Client и собирает тело письма.
type ClientMock struct {
	mock.Mock
	body bytes.Buffer
}

func (m *ClientMock) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *ClientMock) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return nopWriteCloser{&m.body}, nil
}

func (m *ClientMock) Quit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *ClientMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendVerificationEmail(t *testing.T) {
	transport := new(TransportMock)
	client := new(ClientMock)

	transport.On("GetSMTPUser").Return("noreply@nagoyameshi.example")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@nagoyameshi.example").Return(nil).Once()
	client.On("Rcpt", "taro@example.com").Return(nil).Once()
	client.On("Data").Return(nil, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	svc := NewSenderService(transport, "https://nagoyameshi.example", newNoopLogger())

	body, err := json.Marshal(models.VerificationEmail{
		Email: "taro@example.com",
		Token: "3f6b1c0e-7d42-4a35-9d41-1f2a3b4c5d6e",
	})
	require.NoError(t, err)

	err = svc.SendVerificationEmail(body)
	require.NoError(t, err)

	sent := client.body.String()
	assert.Contains(t, sent, "To: taro@example.com")
	assert.Contains(t, sent,
		"https://nagoyameshi.example/api/v1/auth/verify?token=3f6b1c0e-7d42-4a35-9d41-1f2a3b4c5d6e")

	transport.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestSendVerificationEmailBadPayload(t *testing.T) {
	transport := new(TransportMock)
	svc := NewSenderService(transport, "https://nagoyameshi.example", newNoopLogger())

	err := svc.SendVerificationEmail([]byte("not a json"))
	assert.Error(t, err)
	transport.AssertExpectations(t)
}

func TestSendVerificationEmailConnectError(t *testing.T) {
	transport := new(TransportMock)
	transport.On("GetSMTPUser").Return("noreply@nagoyameshi.example")
	transport.On("Connect").Return(nil, assert.AnError).Once()

	svc := NewSenderService(transport, "https://nagoyameshi.example", newNoopLogger())

	body, err := json.Marshal(models.VerificationEmail{Email: "taro@example.com", Token: "t"})
	require.NoError(t, err)

	err = svc.SendVerificationEmail(body)
	assert.ErrorIs(t, err, assert.AnError)
	transport.AssertExpectations(t)
}
