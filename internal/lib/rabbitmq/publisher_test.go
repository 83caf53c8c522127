package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

func TestPublishMessage(t *testing.T) {
	ctx := context.Background()
	rmqContainer, cleanup := SetupRabbitMQContainer(ctx, t)
	defer cleanup()

	amqpURI, err := GetAmqpURI(ctx, rmqContainer)
	require.NoError(t, err)

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	ch, err := SetupChannel(conn, GetMailQueues())
	require.NoError(t, err)
	defer func() {
		if err := ch.Close(); err != nil {
			t.Errorf("failed to close channel: %v", err)
		}
	}()

	t.Run("письмо подтверждения доходит до очереди воркера", func(t *testing.T) {
		msg := models.VerificationEmail{
			Email: "taro@example.com",
			Token: "3f6b1c0e-7d42-4a35-9d41-1f2a3b4c5d6e",
		}

		err = PublishMessage(ch, MailExchange, VerificationRoutingKey, msg)
		require.NoError(t, err)

		deliveries, err := ch.Consume(VerificationQueue, "test-consumer", true, false, false, false, nil)
		require.NoError(t, err)

		select {
		case d := <-deliveries:
			var got models.VerificationEmail
			err := json.Unmarshal(d.Body, &got)
			require.NoError(t, err)
			assert.Equal(t, msg, got)
			assert.Equal(t, "application/json", d.ContentType)
			assert.Equal(t, uint8(2), d.DeliveryMode, "message should be persistent")
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for message")
		}
	})

	t.Run("несериализуемое сообщение", func(t *testing.T) {
		badMsg := struct {
			Ch chan int `json:"ch"`
		}{
			Ch: make(chan int),
		}

		err := PublishMessage(ch, MailExchange, VerificationRoutingKey, badMsg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
	})
}
