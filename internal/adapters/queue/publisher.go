// Package queue publishes guest lifecycle outcomes to RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"voteparty/internal/ports/output"
)

const eventType = "guest.lifecycle"

var _ output.LifecycleNotifier = (*Publisher)(nil)

// Publisher opens a broker connection per event.
type Publisher struct {
	url   string
	queue string
	log   zerolog.Logger
	now   func() time.Time
}

func NewPublisher(url, queue string, log zerolog.Logger) *Publisher {
	return &Publisher{
		url:   url,
		queue: queue,
		log:   log.With().Str("component", "amqp").Str("queue", queue).Logger(),
		now:   time.Now,
	}
}

func (p *Publisher) Notify(ctx context.Context, event output.LifecycleEvent) error {
	msg, err := p.publishing(event)
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp declare %s: %w", p.queue, err)
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	p.log.Debug().Str("code", event.Code).Str("state", event.State).Str("message_id", msg.MessageId).Msg("lifecycle published")
	return nil
}

func (p *Publisher) publishing(event output.LifecycleEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal lifecycle event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         eventType,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}, nil
}
