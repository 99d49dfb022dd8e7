package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Типы событий геймификации, отправляемых во внешнюю шину.
const (
	TypeTaskCompleted = "task.completed"
	TypeEnergyLogged  = "energy.logged"
	TypeGoalProgress  = "goal.progress"
	TypeStreakUpdated = "streak.updated"
)

// Envelope — формат события в топике геймификации.
type Envelope struct {
	Type      string      `json:"type"`
	UserID    uuid.UUID   `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Publisher отправляет события геймификации в Kafka.
// Нулевой указатель безопасен: публикация превращается в no-op.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewPublisher создает публикатор. При пустом списке брокеров возвращает nil:
// конвейер геймификации выключен.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	if len(brokers) == 0 {
		return nil
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
		logger: logger,
	}
}

// Publish отправляет событие; ключ сообщения — идентификатор пользователя,
// чтобы события одного пользователя попадали в одну партицию.
func (p *Publisher) Publish(ctx context.Context, eventType string, userID uuid.UUID, payload interface{}) {
	if p == nil {
		return
	}

	envelope := Envelope{
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		p.logger.Error("event marshal failed", "type", eventType, "error", err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID.String()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("event publish failed", "type", eventType, "error", err)
	}
}

// Close закрывает соединение с брокерами.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
