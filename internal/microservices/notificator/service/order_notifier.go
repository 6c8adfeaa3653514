package service

import (
	"context"
	"errors"
	"fmt"

	"restaurant-ops/internal/domain"
	"restaurant-ops/internal/microservices/notificator/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errNoFullDocument = errors.New("change event carries no full document")

type OrderNotifier struct {
	lookup   repository.LookupRepositoryInterface
	notifier *Notifier
	log      zerolog.Logger
}

func NewOrderNotifier(lookup repository.LookupRepositoryInterface, notifier *Notifier, log zerolog.Logger) *OrderNotifier {
	return &OrderNotifier{lookup: lookup, notifier: notifier, log: log}
}

// HandleEvent turns an order insert into a staff notification.
func (on *OrderNotifier) HandleEvent(ctx context.Context, ev domain.ChangeEvent) error {
	// 1. Decode the inserted order
	if len(ev.FullDocument) == 0 {
		return errNoFullDocument
	}
	var order domain.Order
	if err := bson.Unmarshal(ev.FullDocument, &order); err != nil {
		return fmt.Errorf("decode order %s: %w", ev.DocumentKey.ID.Hex(), err)
	}
	log := on.log.With().Str("order_id", order.ID.Hex()).Logger()

	// 2. Resolve related documents
	view := on.Resolve(ctx, order)
	logBroken(log, "customer", view.Customer.Err, view.Customer.Broken())
	logBroken(log, "assigned_staff", view.Staff.Err, view.Staff.Broken())

	// 3. Compose and dispatch to staff
	recipients, err := on.notifier.StaffRecipients(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		log.Warn().Msg("no staff to notify about new order")
		return nil
	}
	subject, body := ComposeOrderMessage(view)
	on.notifier.Deliver(ctx, domain.KindOrder, subject, body, recipients)
	return nil
}

// Resolve looks up the customer, menu items and assigned staff of an order.
// Lookup failures are kept in the view, never returned.
func (on *OrderNotifier) Resolve(ctx context.Context, order domain.Order) OrderView {
	view := OrderView{Order: order}

	view.Customer = on.user(ctx, order.Customer)
	view.Staff = on.user(ctx, order.AssignedStaff)

	ids := make([]primitive.ObjectID, 0, len(order.Items))
	for _, it := range order.Items {
		ids = append(ids, it.MenuItem)
	}
	items, err := on.lookup.FindMenuItems(ctx, ids)
	if err != nil {
		on.log.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("menu item lookup failed")
	}
	for _, it := range order.Items {
		line := OrderLine{Quantity: it.Quantity}
		switch m, ok := items[it.MenuItem]; {
		case err != nil:
			line.Item = Missing[domain.MenuItem](err)
		case ok:
			line.Item = Found(m)
		default:
			line.Item = Missing[domain.MenuItem](domain.ErrNotFound)
		}
		view.Lines = append(view.Lines, line)
	}
	return view
}

func (on *OrderNotifier) user(ctx context.Context, id primitive.ObjectID) Resolved[domain.User] {
	if id.IsZero() {
		return Missing[domain.User](domain.ErrNotFound)
	}
	u, err := on.lookup.FindUser(ctx, id)
	return resolveWith(u, err)
}

func logBroken(log zerolog.Logger, what string, err error, broken bool) {
	if broken {
		log.Error().Err(err).Str("lookup", what).Msg("lookup failed, using placeholder")
	}
}
