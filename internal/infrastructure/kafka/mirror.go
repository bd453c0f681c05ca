package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/weblarek/storefront-backend/internal/events"
	"github.com/weblarek/storefront-backend/pkg/logger"
)

// eventWriter — часть продюсера, нужная зеркалу.
type eventWriter interface {
	WriteEvent(ctx context.Context, key string, value []byte) error
}

// storeEventModel — формат события магазина в топике аналитики.
type storeEventModel struct {
	EventID string `json:"event_id"`
	Event   string `json:"event"`
	Ts      int64  `json:"ts"`
	Payload any    `json:"payload,omitempty"`
}

// EventMirror зеркалирует каждое событие шины в Kafka.
// Работает по принципу fire-and-forget: ошибка записи попадает в лог,
// но никогда не прерывает синхронную доставку события подписчикам.
type EventMirror struct {
	producer eventWriter
	logger   logger.Logger
}

func NewEventMirror(producer eventWriter, logger logger.Logger) *EventMirror {
	return &EventMirror{
		producer: producer,
		logger:   logger,
	}
}

// Attach подписывает зеркало на все события шины.
func (m *EventMirror) Attach(bus *events.Bus) events.Token {
	return bus.SubscribeAll(func(event events.Event) error {
		m.mirror(event)
		return nil
	})
}

func (m *EventMirror) mirror(event events.Event) {
	data, err := json.Marshal(storeEventModel{
		EventID: uuid.NewString(),
		Event:   event.Name,
		Ts:      time.Now().UnixNano(),
		Payload: event.Payload,
	})
	if err != nil {
		m.logger.Warnf("Failed to marshal event %s for mirroring: %v", event.Name, err)
		return
	}

	// Запись уходит в фоне, чтобы не задерживать подписчиков шины
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := m.producer.WriteEvent(ctx, event.Name, data); err != nil {
			m.logger.Warnf("Failed to mirror event %s to kafka: %v", event.Name, err)
		}
	}()
}
