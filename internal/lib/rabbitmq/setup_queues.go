package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации в почтовом обменнике.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Имена обменника и маршрутов почтовых сообщений.
const (
	MailExchange           = "mail"
	VerificationRoutingKey = "verification"
	VerificationQueue      = "mail.verification"
)

// GetMailQueues возвращает очереди воркера отправки писем.
func GetMailQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: VerificationQueue, RoutingKey: VerificationRoutingKey},
	}
}
