package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restaurant-ops/internal/domain"
	"restaurant-ops/internal/microservices/notificator/repository"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// Publisher is the confirm-mode broker client used for the notification fan-out.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte, headers amqp.Table, contentType string, persistent bool) error
}

// Notifier delivers a composed notification to the staff, then fans it out
// to the broker and records every send outcome. Both side effects are
// optional and best-effort.
type Notifier struct {
	lookup     repository.LookupRepositoryInterface
	dispatcher *Dispatcher
	publisher  Publisher
	exchange   string
	deliveries repository.DeliveryRepositoryInterface
	now        func() time.Time
	log        zerolog.Logger
}

type NotifierOption func(*Notifier)

func WithPublisher(p Publisher, exchange string) NotifierOption {
	return func(n *Notifier) { n.publisher, n.exchange = p, exchange }
}

func WithDeliveryLog(d repository.DeliveryRepositoryInterface) NotifierOption {
	return func(n *Notifier) { n.deliveries = d }
}

func WithClock(now func() time.Time) NotifierOption {
	return func(n *Notifier) { n.now = now }
}

func NewNotifier(lookup repository.LookupRepositoryInterface, dispatcher *Dispatcher, log zerolog.Logger, opts ...NotifierOption) *Notifier {
	n := &Notifier{lookup: lookup, dispatcher: dispatcher, now: time.Now, log: log}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// StaffRecipients returns the addresses of all STAFF users.
func (n *Notifier) StaffRecipients(ctx context.Context) ([]string, error) {
	staff, err := n.lookup.FindUsersByRole(ctx, domain.RoleStaff)
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}
	emails := make([]string, 0, len(staff))
	for _, u := range staff {
		emails = append(emails, u.Email)
	}
	return emails, nil
}

func (n *Notifier) Deliver(ctx context.Context, kind, subject, body string, recipients []string) DispatchResult {
	msg := domain.NotificationMessage{
		ID:         uuid.NewString(),
		Kind:       kind,
		Subject:    subject,
		Body:       body,
		Recipients: recipients,
		CreatedAt:  n.now().UTC(),
	}

	res := n.dispatcher.Dispatch(ctx, recipients, subject, body)
	n.log.Info().
		Str("notification_id", msg.ID).
		Str("kind", kind).
		Int("succeeded", len(res.Succeeded)).
		Int("failed", len(res.Failed)).
		Msg("notification dispatched")

	n.publish(ctx, msg)
	n.record(ctx, msg, res)
	return res
}

func (n *Notifier) publish(ctx context.Context, msg domain.NotificationMessage) {
	if n.publisher == nil {
		return
	}
	body, err := json.Marshal(msg)
	if err != nil {
		n.log.Error().Err(err).Str("notification_id", msg.ID).Msg("encode notification")
		return
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	headers := amqp.Table{"x-source": "notificator", "x-kind": msg.Kind}
	if err := n.publisher.Publish(pctx, n.exchange, msg.Kind, body, headers, "application/json", true); err != nil {
		n.log.Error().Err(err).Str("notification_id", msg.ID).Msg("publish notification")
	}
}

func (n *Notifier) record(ctx context.Context, msg domain.NotificationMessage, res DispatchResult) {
	if n.deliveries == nil {
		return
	}
	rows := make([]domain.Delivery, 0, len(res.Succeeded)+len(res.Failed))
	for _, to := range res.Succeeded {
		rows = append(rows, domain.Delivery{
			NotificationID: msg.ID, Kind: msg.Kind, Recipient: to, Subject: msg.Subject,
			Success: true, CreatedAt: msg.CreatedAt,
		})
	}
	for _, f := range res.Failed {
		rows = append(rows, domain.Delivery{
			NotificationID: msg.ID, Kind: msg.Kind, Recipient: f.Email, Subject: msg.Subject,
			Error: f.Err.Error(), CreatedAt: msg.CreatedAt,
		})
	}
	if err := n.deliveries.Record(ctx, rows); err != nil {
		n.log.Error().Err(err).Str("notification_id", msg.ID).Msg("record deliveries")
	}
}

// RecentDeliveries lists recorded sends, newest first.
func (n *Notifier) RecentDeliveries(ctx context.Context, limit int) ([]domain.Delivery, error) {
	if n.deliveries == nil {
		return nil, domain.Unavailablef("delivery log is not configured")
	}
	if limit <= 0 || limit > 500 {
		return nil, domain.Validationf("limit must be between 1 and 500")
	}
	return n.deliveries.Recent(ctx, limit)
}
