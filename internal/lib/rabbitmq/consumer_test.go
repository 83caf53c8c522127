package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

func TestConsumerMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var amqpURI string
	var cleanup func()

	if testRabbitMQURL := os.Getenv("TEST_RABBITMQ_URL"); testRabbitMQURL != "" {
		t.Logf("Using external RabbitMQ service: %s", testRabbitMQURL)
		amqpURI = testRabbitMQURL
		cleanup = func() {}
	} else {
		t.Log("Using testcontainers for RabbitMQ")
		rmqContainer, containerCleanup := SetupRabbitMQContainer(ctx, t)
		cleanup = containerCleanup

		var err error
		amqpURI, err = GetAmqpURI(ctx, rmqContainer)
		require.NoError(t, err)
	}
	defer cleanup()

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	ch, err := SetupChannel(conn, GetMailQueues())
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	var failedOnce atomic.Bool
	received := make(chan models.VerificationEmail, 4)
	handler := func(body []byte) error {
		var msg models.VerificationEmail
		if err := json.Unmarshal(body, &msg); err != nil {
			return err
		}
		// Первая доставка этого письма падает, проверяем возврат в очередь.
		if msg.Email == "hanako@example.com" && !failedOnce.Swap(true) {
			return errors.New("smtp temporarily unavailable")
		}
		received <- msg
		return nil
	}

	require.NoError(t, ConsumerMessage(ctx, ch, VerificationQueue, log, handler))

	require.NoError(t, PublishMessage(ch, MailExchange, VerificationRoutingKey,
		models.VerificationEmail{Email: "taro@example.com", Token: "tok-1"}))
	require.NoError(t, PublishMessage(ch, MailExchange, VerificationRoutingKey,
		models.VerificationEmail{Email: "hanako@example.com", Token: "tok-2"}))

	got := map[string]string{}
	deadline := time.After(30 * time.Second)
	for len(got) < 2 {
		select {
		case msg := <-received:
			got[msg.Email] = msg.Token
		case <-deadline:
			t.Fatalf("timed out waiting for deliveries, got %v", got)
		}
	}

	assert.Equal(t, "tok-1", got["taro@example.com"])
	assert.Equal(t, "tok-2", got["hanako@example.com"])
	assert.True(t, failedOnce.Load(), "message should have been redelivered after a handler failure")
}
