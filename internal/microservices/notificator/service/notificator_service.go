package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"restaurant-ops/internal/common/logger"
	"restaurant-ops/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const consumerTag = "notificator"

// Consumer is the part of an AMQP channel the subscriber reads from.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
}

// NotificatorService consumes the notification fan-out queue and logs every
// notification it sees.
type NotificatorService struct {
	ch    Consumer
	queue string
	log   zerolog.Logger
}

func NewNotificatorService(ch Consumer, queue string) *NotificatorService {
	return &NotificatorService{ch: ch, queue: queue, log: logger.New("notification-subscriber")}
}

// Notify consumes until ctx is canceled or the broker closes the delivery channel.
func (ns *NotificatorService) Notify(ctx context.Context) error {
	msgs, err := ns.ch.Consume(ns.queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", ns.queue, err)
	}
	ns.log.Info().Str("queue", ns.queue).Msg("waiting for notifications")

	for {
		select {
		case <-ctx.Done():
			_ = ns.ch.Cancel(consumerTag, false)
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("notification delivery channel closed")
			}
			ns.handle(d)
		}
	}
}

func (ns *NotificatorService) handle(d amqp.Delivery) {
	var msg domain.NotificationMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		ns.log.Error().Err(err).Uint64("delivery_tag", d.DeliveryTag).Msg("undecodable notification dropped")
		_ = d.Nack(false, false)
		return
	}

	ns.log.Info().
		Str("notification_id", msg.ID).
		Str("kind", msg.Kind).
		Str("subject", msg.Subject).
		Int("recipients", len(msg.Recipients)).
		Time("created_at", msg.CreatedAt).
		Msg("notification received")
	_ = d.Ack(false)
}
